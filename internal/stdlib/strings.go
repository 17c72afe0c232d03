package stdlib

import (
	"strings"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func asStr(pin string, v value.Value) (string, error) {
	s, ok := v.(value.Str)
	if !ok {
		return "", typeMismatch(pin, "글", v.Kind().String())
	}
	return string(s), nil
}

func registerStrings() {
	register("string_length", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_length", args, 1); err != nil {
			return nil, err
		}
		s, err := asStr("string_length#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Num{V: numeric.FromI64(int64(len([]rune(s))))}, nil
	})

	register("string_upper", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_upper", args, 1); err != nil {
			return nil, err
		}
		s, err := asStr("string_upper#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToUpper(s)), nil
	})

	register("string_lower", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_lower", args, 1); err != nil {
			return nil, err
		}
		s, err := asStr("string_lower#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToLower(s)), nil
	})

	register("string_trim", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_trim", args, 1); err != nil {
			return nil, err
		}
		s, err := asStr("string_trim#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Str(strings.TrimSpace(s)), nil
	})

	register("string_repeat", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_repeat", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_repeat#1", args[0])
		if err != nil {
			return nil, err
		}
		n, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("string_repeat#2", "수", args[1].Kind().String())
		}
		count := n.V.IntPart()
		if count < 0 {
			return nil, errMsg("string_repeat: 반복 횟수는 음수일 수 없습니다")
		}
		return value.Str(strings.Repeat(s, int(count))), nil
	})

	register("string_char_at", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_char_at", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_char_at#1", args[0])
		if err != nil {
			return nil, err
		}
		n, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("string_char_at#2", "수", args[1].Kind().String())
		}
		runes := []rune(s)
		i := n.V.IntPart()
		if i < 0 || i >= int64(len(runes)) {
			return nil, errMsg("string_char_at: 색인 범위를 벗어났습니다")
		}
		return value.Str(string(runes[i])), nil
	})

	register("string_index_of", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_index_of", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_index_of#1", args[0])
		if err != nil {
			return nil, err
		}
		sub, err := asStr("string_index_of#2", args[1])
		if err != nil {
			return nil, err
		}
		idx := strings.Index(s, sub)
		if idx < 0 {
			return value.Num{V: numeric.FromI64(-1)}, nil
		}
		return value.Num{V: numeric.FromI64(int64(len([]rune(s[:idx]))))}, nil
	})

	register("string_replace", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_replace", args, 3); err != nil {
			return nil, err
		}
		s, err := asStr("string_replace#1", args[0])
		if err != nil {
			return nil, err
		}
		from, err := asStr("string_replace#2", args[1])
		if err != nil {
			return nil, err
		}
		to, err := asStr("string_replace#3", args[2])
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ReplaceAll(s, from, to)), nil
	})

	register("string_split", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_split", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_split#1", args[0])
		if err != nil {
			return nil, err
		}
		sep, err := asStr("string_split#2", args[1])
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		items := make([]value.Value, len(parts))
		for i, p := range parts {
			items[i] = value.Str(p)
		}
		return value.List{Items: items}, nil
	})

	register("string_join", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_join", args, 2); err != nil {
			return nil, err
		}
		l, ok := args[0].(value.List)
		if !ok {
			return nil, typeMismatch("string_join#1", "목록", args[0].Kind().String())
		}
		sep, err := asStr("string_join#2", args[1])
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(l.Items))
		for i, it := range l.Items {
			s, ok := it.(value.Str)
			if !ok {
				return nil, typeMismatch("string_join#1[]", "글", it.Kind().String())
			}
			parts[i] = string(s)
		}
		return value.Str(strings.Join(parts, sep)), nil
	})

	register("string_has_prefix", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_has_prefix", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_has_prefix#1", args[0])
		if err != nil {
			return nil, err
		}
		p, err := asStr("string_has_prefix#2", args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasPrefix(s, p)), nil
	})

	register("string_has_suffix", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_has_suffix", args, 2); err != nil {
			return nil, err
		}
		s, err := asStr("string_has_suffix#1", args[0])
		if err != nil {
			return nil, err
		}
		p, err := asStr("string_has_suffix#2", args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasSuffix(s, p)), nil
	})

	register("string_to_number", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("string_to_number", args, 1); err != nil {
			return nil, err
		}
		s, err := asStr("string_to_number#1", args[0])
		if err != nil {
			return nil, err
		}
		f, perr := numeric.ParseFixed64(s)
		if perr != nil {
			return nil, errMsg("string_to_number: %v", perr)
		}
		return value.Num{V: f}, nil
	})
}
