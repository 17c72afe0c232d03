package stdlib

import "github.com/tongosu/ddonilang/internal/value"

// truthy mirrors internal/eval.Truthy without importing internal/eval
// (it would cycle); the rule set is small and owned here for the
// handful of built-ins that branch on it directly.
func truthy(v value.Value) (bool, error) {
	switch t := v.(type) {
	case value.Bool:
		return bool(t), nil
	case value.Num:
		return !t.V.IsZero(), nil
	case value.Unit:
		if !t.V.Dim.IsDimensionless() {
			return false, errMsg("차원값은 조건식에 사용할 수 없습니다")
		}
		return !t.V.Value.IsZero(), nil
	case value.None:
		return false, nil
	default:
		return false, errMsg("%s은 조건식에 사용할 수 없습니다", v.Kind().String())
	}
}

func registerLogic() {
	register("not", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("not", args, 1); err != nil {
			return nil, err
		}
		b, err := truthy(args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(!b), nil
	})
	register("and", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("and", args, 2); err != nil {
			return nil, err
		}
		a, err := truthy(args[0])
		if err != nil {
			return nil, err
		}
		b, err := truthy(args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool(a && b), nil
	})
	register("or", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("or", args, 2); err != nil {
			return nil, err
		}
		a, err := truthy(args[0])
		if err != nil {
			return nil, err
		}
		b, err := truthy(args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool(a || b), nil
	})
}
