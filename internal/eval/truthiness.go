package eval

import "github.com/tongosu/ddonilang/internal/value"

// Truthy implements spec §4.7's truthiness rules: Bool is itself,
// Fixed64/dimensionless Unit are nonzero, None is false; every other
// type is an error in a boolean context.
func Truthy(v value.Value) (bool, error) {
	switch t := v.(type) {
	case value.Bool:
		return bool(t), nil
	case value.Num:
		return !t.V.IsZero(), nil
	case value.Unit:
		if !t.V.Dim.IsDimensionless() {
			return false, NewMessageError("차원값은 조건식에 사용할 수 없습니다")
		}
		return !t.V.Value.IsZero(), nil
	case value.None:
		return false, nil
	default:
		return false, NewMessageError("%s은 조건식에 사용할 수 없습니다", v.Kind().String())
	}
}
