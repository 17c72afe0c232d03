package state

import (
	"testing"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func TestBridgeProbeOrderMutationCacheFirst(t *testing.T) {
	s := New(map[string]value.Value{"점수": value.Num{V: numeric.FromI64(0)}}, nil)
	s.PutFixed64("점수", numeric.FromI64(1))
	b := NewBridge(s, &Patch{})

	if err := b.Set("점수", value.Num{V: numeric.FromI64(5)}); err != nil {
		t.Fatal(err)
	}
	got, ok := b.Get("점수")
	if !ok {
		t.Fatal("expected 점수 present")
	}
	if !value.Equal(got, value.Num{V: numeric.FromI64(5)}) {
		t.Errorf("got %v, want 5 (mutation cache must win over backing store)", got)
	}
}

func TestBridgeFallsBackToDefaults(t *testing.T) {
	s := New(map[string]value.Value{"체력": value.Num{V: numeric.FromI64(100)}}, nil)
	b := NewBridge(s, &Patch{})

	got, ok := b.Get("체력")
	if !ok {
		t.Fatal("expected default to be visible")
	}
	if !value.Equal(got, value.Num{V: numeric.FromI64(100)}) {
		t.Errorf("got %v, want default 100", got)
	}
}

func TestBridgeJSONBackingDecodesBooleanLiterals(t *testing.T) {
	s := New(nil, nil)
	s.PutJSON("켜짐", "참")
	b := NewBridge(s, &Patch{})

	got, ok := b.Get("켜짐")
	if !ok || !value.Equal(got, value.Bool(true)) {
		t.Errorf("got %v, ok=%v, want Bool(true)", got, ok)
	}
}

func TestBridgeFixed64BackingLiftsUnitTag(t *testing.T) {
	meterDim := numeric.UnitDim{}
	meterDim[0] = 1
	s := New(nil, map[string]UnitTag{"거리": {Symbol: "m", Dim: meterDim}})
	s.PutFixed64("거리", numeric.FromI64(10))
	b := NewBridge(s, &Patch{})

	got, ok := b.Get("거리")
	if !ok {
		t.Fatal("expected 거리 present")
	}
	u, ok := got.(value.Unit)
	if !ok {
		t.Fatalf("got %T, want value.Unit", got)
	}
	if !u.V.Dim.Equal(meterDim) {
		t.Errorf("dim = %v, want meter", u.V.Dim)
	}
}

func TestBridgeSetNoneIsError(t *testing.T) {
	s := New(nil, nil)
	b := NewBridge(s, &Patch{})
	if err := b.Set("x", value.None{}); err == nil {
		t.Fatal("expected error storing None as a resource")
	}
}

func TestBridgeSetUnitMismatchAgainstDeclaredTag(t *testing.T) {
	meterDim := numeric.UnitDim{}
	meterDim[0] = 1
	secondDim := numeric.UnitDim{}
	secondDim[2] = 1

	s := New(nil, map[string]UnitTag{"거리": {Symbol: "m", Dim: meterDim}})
	b := NewBridge(s, &Patch{})

	err := b.Set("거리", value.Unit{V: numeric.NewUnitValue(numeric.FromI64(1), secondDim)})
	if err == nil {
		t.Fatal("expected unit mismatch error")
	}
}
