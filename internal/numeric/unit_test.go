package numeric

import "testing"

func TestUnitAlgebra(t *testing.T) {
	meter := UnitDim{}
	meter[dimLength] = 1
	second := UnitDim{}
	second[dimTime] = 1

	speed := meter.Sub(second) // m/s
	if speed[dimLength] != 1 || speed[dimTime] != -1 {
		t.Fatalf("m/s dim = %v", speed)
	}

	area := meter.Add(meter) // m^2
	if area[dimLength] != 2 {
		t.Fatalf("m^2 dim = %v", area)
	}

	sqrtArea, ok := area.Sqrt()
	if !ok || !sqrtArea.Equal(meter) {
		t.Fatalf("sqrt(m^2) = %v, ok=%v, want m", sqrtArea, ok)
	}

	if _, ok := speed.Sqrt(); ok {
		t.Fatalf("sqrt(m/s) should not be representable (odd time exponent)")
	}
}

func TestUnitValueAddMismatch(t *testing.T) {
	m := UnitSpec{Symbol: "m", Dim: UnitDim{dimLength: 1}}
	s := UnitSpec{Symbol: "s", Dim: UnitDim{dimTime: 1}}

	a := FromSpec(FromI64(1), m)
	b := FromSpec(FromI64(2), s)

	_, err := a.Add(b)
	var mismatch *ErrUnitMismatch
	if err == nil {
		t.Fatal("expected UnitMismatch")
	}
	if !isUnitMismatch(err, &mismatch) {
		t.Fatalf("error = %v, want *ErrUnitMismatch", err)
	}
}

func isUnitMismatch(err error, target **ErrUnitMismatch) bool {
	if e, ok := err.(*ErrUnitMismatch); ok {
		*target = e
		return true
	}
	return false
}

func TestUnitValueMulDiv(t *testing.T) {
	m := UnitSpec{Symbol: "m", Dim: UnitDim{dimLength: 1}}
	s := UnitSpec{Symbol: "s", Dim: UnitDim{dimTime: 1}}

	dist := FromSpec(FromI64(10), m)
	dur := FromSpec(FromI64(2), s)

	speed, err := dist.Div(dur)
	if err != nil {
		t.Fatal(err)
	}
	wantDim := UnitDim{dimLength: 1, dimTime: -1}
	if speed.Dim != wantDim {
		t.Fatalf("speed dim = %v, want %v", speed.Dim, wantDim)
	}

	back := speed.Mul(dur)
	if !back.Dim.Equal(m.Dim) {
		t.Fatalf("speed*time dim = %v, want %v", back.Dim, m.Dim)
	}
}

func TestDimensionlessUnitValueEqualsItself(t *testing.T) {
	bare := FromI64(5)
	dimless := NewUnitValue(bare, Dimensionless)
	if !dimless.Equal(NewUnitValue(bare, Dimensionless)) {
		t.Fatal("dimensionless UnitValue should equal itself")
	}
}
