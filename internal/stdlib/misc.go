package stdlib

import "github.com/tongosu/ddonilang/internal/value"

// toDisplayString renders a value the way a template field interpolates
// it: scalars print bare, everything else falls back to its canonical
// encoding (spec §4.9 reuses canonicalization for composite display).
func toDisplayString(v value.Value) string {
	switch t := v.(type) {
	case value.Str:
		return string(t)
	case value.Bool:
		if t {
			return "참"
		}
		return "거짓"
	case value.None:
		return "없음"
	case value.Num:
		return t.V.String()
	case value.Unit:
		return t.V.Value.String() + t.V.Dim.String()
	default:
		return value.Canon(v)
	}
}

func registerMisc() {
	register("to_string", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("to_string", args, 1); err != nil {
			return nil, err
		}
		return value.Str(toDisplayString(args[0])), nil
	})

	register("resource_exists", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("resource_exists", args, 1); err != nil {
			return nil, err
		}
		name, err := asStr("resource_exists#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(ctx.ResourceExists(name)), nil
	})

	register("resource", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("resource", args, 1); err != nil {
			return nil, err
		}
		name, err := asStr("resource#1", args[0])
		if err != nil {
			return nil, err
		}
		v, ok := ctx.ResourceGet(name)
		if !ok {
			return value.None{}, nil
		}
		return v, nil
	})
}
