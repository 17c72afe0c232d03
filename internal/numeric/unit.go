package numeric

import (
	"fmt"
	"strings"
)

// UnitDim is the 7-tuple of signed base-dimension exponents: length,
// mass, time, current, temperature, amount, angle. The zero value is
// dimensionless.
type UnitDim [7]int32

const (
	dimLength = iota
	dimMass
	dimTime
	dimCurrent
	dimTemperature
	dimAmount
	dimAngle
)

var dimNames = [7]string{"length", "mass", "time", "current", "temperature", "amount", "angle"}

// Dimensionless is the zero dimension vector.
var Dimensionless = UnitDim{}

// IsDimensionless reports whether every exponent is zero.
func (d UnitDim) IsDimensionless() bool { return d == Dimensionless }

// Equal reports componentwise equality.
func (d UnitDim) Equal(o UnitDim) bool { return d == o }

// Add returns the componentwise sum (used when multiplying dimensioned
// values).
func (d UnitDim) Add(o UnitDim) UnitDim {
	var r UnitDim
	for i := range d {
		r[i] = d[i] + o[i]
	}
	return r
}

// Sub returns the componentwise difference (used when dividing
// dimensioned values).
func (d UnitDim) Sub(o UnitDim) UnitDim {
	var r UnitDim
	for i := range d {
		r[i] = d[i] - o[i]
	}
	return r
}

// Neg returns the reciprocal dimension.
func (d UnitDim) Neg() UnitDim {
	var r UnitDim
	for i := range d {
		r[i] = -d[i]
	}
	return r
}

// Scale returns d scaled by an integer factor (used by integer power).
func (d UnitDim) Scale(n int32) UnitDim {
	var r UnitDim
	for i := range d {
		r[i] = d[i] * n
	}
	return r
}

// Sqrt halves every exponent. ok is false if any exponent is odd, in
// which case the dimension has no valid square root.
func (d UnitDim) Sqrt() (UnitDim, bool) {
	var r UnitDim
	for i := range d {
		if d[i]%2 != 0 {
			return UnitDim{}, false
		}
		r[i] = d[i] / 2
	}
	return r, true
}

// String renders a human-readable dimension formula, e.g. "length/time^2", or
// the empty string when dimensionless.
func (d UnitDim) String() string {
	if d.IsDimensionless() {
		return ""
	}
	var num, den []string
	for i, exp := range d {
		if exp == 0 {
			continue
		}
		name := dimNames[i]
		switch {
		case exp == 1:
			num = append(num, name)
		case exp > 1:
			num = append(num, fmt.Sprintf("%s^%d", name, exp))
		case exp == -1:
			den = append(den, name)
		default:
			den = append(den, fmt.Sprintf("%s^%d", name, -exp))
		}
	}
	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}
	if len(den) > 0 {
		out += "/" + strings.Join(den, "*")
	}
	return out
}

// UnitSpec names a declared unit tag attached to a resource key or a
// numeric suffix, e.g. "m", "s", "m/s2".
type UnitSpec struct {
	Symbol string
	Dim    UnitDim
}

// UnitValue is a dimensioned Fixed64 scalar.
type UnitValue struct {
	Value Fixed64
	Dim   UnitDim
}

// NewUnitValue attaches a dimension to a raw Fixed64.
func NewUnitValue(v Fixed64, d UnitDim) UnitValue {
	return UnitValue{Value: v, Dim: d}
}

// FromSpec attaches a declared unit spec to a stored Fixed64.
func FromSpec(raw Fixed64, spec UnitSpec) UnitValue {
	return UnitValue{Value: raw, Dim: spec.Dim}
}

// ErrUnitMismatch is returned whenever two dimensioned operands disagree
// in dimension for an operation that requires equality.
type ErrUnitMismatch struct {
	Left, Right UnitDim
}

func (e *ErrUnitMismatch) Error() string {
	return fmt.Sprintf("unit mismatch: %s vs %s", e.Left.String(), e.Right.String())
}

// ToUnit converts a UnitValue to a target unit spec, failing if the
// dimensions disagree.
func (u UnitValue) ToUnit(spec UnitSpec) (UnitValue, error) {
	if !u.Dim.Equal(spec.Dim) {
		return UnitValue{}, &ErrUnitMismatch{Left: u.Dim, Right: spec.Dim}
	}
	return UnitValue{Value: u.Value, Dim: spec.Dim}, nil
}

// Add requires equal dimensions.
func (u UnitValue) Add(o UnitValue) (UnitValue, error) {
	if !u.Dim.Equal(o.Dim) {
		return UnitValue{}, &ErrUnitMismatch{Left: u.Dim, Right: o.Dim}
	}
	return UnitValue{Value: u.Value.Add(o.Value), Dim: u.Dim}, nil
}

// Sub requires equal dimensions.
func (u UnitValue) Sub(o UnitValue) (UnitValue, error) {
	if !u.Dim.Equal(o.Dim) {
		return UnitValue{}, &ErrUnitMismatch{Left: u.Dim, Right: o.Dim}
	}
	return UnitValue{Value: u.Value.Sub(o.Value), Dim: u.Dim}, nil
}

// Mul adds the dimensions.
func (u UnitValue) Mul(o UnitValue) UnitValue {
	return UnitValue{Value: u.Value.Mul(o.Value), Dim: u.Dim.Add(o.Dim)}
}

// Div subtracts the dimensions; zero divisor yields ErrDivisionByZero.
func (u UnitValue) Div(o UnitValue) (UnitValue, error) {
	v, err := u.Value.Div(o.Value)
	if err != nil {
		return UnitValue{}, err
	}
	return UnitValue{Value: v, Dim: u.Dim.Sub(o.Dim)}, nil
}

// Mod requires equal dimensions and a nonzero divisor.
func (u UnitValue) Mod(o UnitValue) (UnitValue, error) {
	if !u.Dim.Equal(o.Dim) {
		return UnitValue{}, &ErrUnitMismatch{Left: u.Dim, Right: o.Dim}
	}
	v, err := u.Value.Mod(o.Value)
	if err != nil {
		return UnitValue{}, err
	}
	return UnitValue{Value: v, Dim: u.Dim}, nil
}

// Sqrt requires every dimension exponent to be even.
func (u UnitValue) Sqrt() (UnitValue, error) {
	d, ok := u.Dim.Sqrt()
	if !ok {
		return UnitValue{}, fmt.Errorf("sqrt: dimension %s has an odd exponent", u.Dim.String())
	}
	v, err := u.Value.Sqrt()
	if err != nil {
		return UnitValue{}, err
	}
	return UnitValue{Value: v, Dim: d}, nil
}

// Cmp requires equal dimensions for ordering comparisons.
func (u UnitValue) Cmp(o UnitValue) (int, error) {
	if !u.Dim.Equal(o.Dim) {
		return 0, &ErrUnitMismatch{Left: u.Dim, Right: o.Dim}
	}
	return u.Value.Cmp(o.Value), nil
}

// Equal reports whether both dimensions and raw values are equal. The
// cross-type rule (a dimensionless UnitValue equals a bare Fixed64 with
// the same raw value) is applied by value.Equal, not here.
func (u UnitValue) Equal(o UnitValue) bool {
	return u.Dim.Equal(o.Dim) && u.Value.Equal(o.Value)
}
