package stdlib

import (
	"sort"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func asList(pin string, v value.Value) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return value.List{}, typeMismatch(pin, "목록", v.Kind().String())
	}
	return l, nil
}

func asLambda(pin string, v value.Value) (value.Lambda, error) {
	l, ok := v.(value.Lambda)
	if !ok {
		return value.Lambda{}, typeMismatch(pin, "람다", v.Kind().String())
	}
	return l, nil
}

func registerListAlgorithms() {
	register("sort", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("sort", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("sort#1", args[0])
		if err != nil {
			return nil, err
		}
		key, err := asLambda("sort#2", args[1])
		if err != nil {
			return nil, err
		}
		type keyed struct {
			v   value.Value
			k   value.Value
			idx int
		}
		items := make([]keyed, len(l.Items))
		for i, it := range l.Items {
			k, err := ctx.InvokeLambda(key, it)
			if err != nil {
				return nil, err
			}
			items[i] = keyed{v: it, k: k, idx: i}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return value.Cmp(items[i].k, items[j].k) < 0
		})
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = it.v
		}
		return value.List{Items: out}, nil
	})

	register("filter", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("filter", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("filter#1", args[0])
		if err != nil {
			return nil, err
		}
		pred, err := asLambda("filter#2", args[1])
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, it := range l.Items {
			r, err := ctx.InvokeLambda(pred, it)
			if err != nil {
				return nil, err
			}
			keep, err := truthy(r)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, it)
			}
		}
		return value.List{Items: out}, nil
	})

	register("map_list", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("map_list", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("map_list#1", args[0])
		if err != nil {
			return nil, err
		}
		fn, err := asLambda("map_list#2", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(l.Items))
		for i, it := range l.Items {
			r, err := ctx.InvokeLambda(fn, it)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.List{Items: out}, nil
	})

	register("slice", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("slice", args, 3); err != nil {
			return nil, err
		}
		l, err := asList("slice#1", args[0])
		if err != nil {
			return nil, err
		}
		start, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("slice#2", "수", args[1].Kind().String())
		}
		end, ok := args[2].(value.Num)
		if !ok {
			return nil, typeMismatch("slice#3", "수", args[2].Kind().String())
		}
		n := int64(len(l.Items))
		s := clampIdx(start.V.IntPart(), n)
		e := clampIdx(end.V.IntPart(), n)
		if e < s {
			e = s
		}
		out := make([]value.Value, e-s)
		copy(out, l.Items[s:e])
		return value.List{Items: out}, nil
	})

	register("contains", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("contains", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("contains#1", args[0])
		if err != nil {
			return nil, err
		}
		for _, it := range l.Items {
			if value.Equal(it, args[1]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	})

	register("position", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("position", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("position#1", args[0])
		if err != nil {
			return nil, err
		}
		for i, it := range l.Items {
			if value.Equal(it, args[1]) {
				return value.Num{V: numeric.FromI64(int64(i))}, nil
			}
		}
		return value.Num{V: numeric.FromI64(-1)}, nil
	})

	register("reverse", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("reverse", args, 1); err != nil {
			return nil, err
		}
		l, err := asList("reverse#1", args[0])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(l.Items))
		for i, it := range l.Items {
			out[len(l.Items)-1-i] = it
		}
		return value.List{Items: out}, nil
	})

	register("flatten", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("flatten", args, 1); err != nil {
			return nil, err
		}
		l, err := asList("flatten#1", args[0])
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, it := range l.Items {
			if sub, ok := it.(value.List); ok {
				out = append(out, sub.Items...)
			} else {
				out = append(out, it)
			}
		}
		return value.List{Items: out}, nil
	})

	register("foreach", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("foreach", args, 2); err != nil {
			return nil, err
		}
		l, err := asList("foreach#1", args[0])
		if err != nil {
			return nil, err
		}
		fn, err := asLambda("foreach#2", args[1])
		if err != nil {
			return nil, err
		}
		for _, it := range l.Items {
			if _, err := ctx.InvokeLambda(fn, it); err != nil {
				return nil, err
			}
		}
		return value.None{}, nil
	})

	register("fold", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("fold", args, 3); err != nil {
			return nil, err
		}
		l, err := asList("fold#1", args[0])
		if err != nil {
			return nil, err
		}
		acc := args[1]
		fn, err := asLambda("fold#3", args[2])
		if err != nil {
			return nil, err
		}
		for _, it := range l.Items {
			pairArg := value.List{Items: []value.Value{acc, it}}
			acc, err = ctx.InvokeLambda(fn, pairArg)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
}

func clampIdx(i, n int64) int64 {
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
