package value

import (
	"testing"

	"github.com/tongosu/ddonilang/internal/numeric"
)

func TestCanonScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{None{}, "없음"},
		{Bool(true), "참"},
		{Bool(false), "거짓"},
		{Num{numeric.FromI64(3)}, "3"},
		{Str("a\"b"), `"a\"b"`},
	}
	for _, tt := range tests {
		if got := Canon(tt.v); got != tt.want {
			t.Errorf("Canon(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSetDedupesKeepsFirst(t *testing.T) {
	one := Num{numeric.FromI64(1)}
	dup := Num{numeric.FromI64(1)}
	two := Num{numeric.FromI64(2)}

	s := NewSet([]Value{one, two, dup})
	if s.Len() != 2 {
		t.Fatalf("set len = %d, want 2", s.Len())
	}
}

func TestMapLaterPairOverwrites(t *testing.T) {
	k := Str("x")
	m := NewMap([]Value{k, Num{numeric.FromI64(1)}, k, Num{numeric.FromI64(2)}})
	if m.Len() != 1 {
		t.Fatalf("map len = %d, want 1", m.Len())
	}
	got, ok := m.Get(k)
	if !ok {
		t.Fatal("expected key present")
	}
	if !Equal(got, Num{numeric.FromI64(2)}) {
		t.Errorf("map[x] = %v, want 2", got)
	}
}

func TestPackIteratesSortedFieldNames(t *testing.T) {
	p := NewPack()
	p.Set("b", Num{numeric.FromI64(2)})
	p.Set("a", Num{numeric.FromI64(1)})
	names := p.FieldNames()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("field names = %v, want [a b]", names)
	}
}

func TestCrossTypeFixed64UnitEquality(t *testing.T) {
	bare := Num{numeric.FromI64(5)}
	dimless := Unit{numeric.NewUnitValue(numeric.FromI64(5), numeric.Dimensionless)}
	if !Equal(bare, dimless) {
		t.Error("dimensionless Unit should equal bare Fixed64 with same raw value")
	}

	meter := numeric.UnitSpec{Symbol: "m", Dim: numeric.UnitDim{0: 1}}
	dimmed := Unit{numeric.FromSpec(numeric.FromI64(5), meter)}
	if Equal(bare, dimmed) {
		t.Error("dimensioned Unit should not equal bare Fixed64")
	}
}

func TestLambdaIdentity(t *testing.T) {
	a := NewLambda("x", nil, nil)
	b := NewLambda("x", nil, nil)
	if a.ID == b.ID {
		t.Fatal("two lambda constructions must not share an id")
	}
	if Equal(a, b) {
		t.Fatal("lambdas with distinct ids must not be equal")
	}
	if !Equal(a, a) {
		t.Fatal("a lambda must equal itself")
	}
}

func TestRankOrdering(t *testing.T) {
	vals := []Value{
		Map{},
		None{},
		Bool(true),
		Num{numeric.FromI64(1)},
	}
	if Cmp(vals[1], vals[2]) >= 0 {
		t.Error("None should rank below Bool")
	}
	if Cmp(vals[2], vals[3]) >= 0 {
		t.Error("Bool should rank below Fixed64")
	}
	if Cmp(vals[3], vals[0]) >= 0 {
		t.Error("Fixed64 should rank below Map")
	}
}
