package eval

import (
	"testing"

	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
)

func newTestContext() (*Context, *state.Bridge, *state.Patch) {
	st := state.New(nil, nil)
	patch := &state.Patch{}
	bridge := state.NewBridge(st, patch)
	c := NewContext(bridge, patch, 1, InputState{}, "")
	return c, bridge, patch
}

func numLit(text string) *ast.Literal {
	return &ast.Literal{Value: ast.NumberLiteral(text)}
}

func unitSuffix(target ast.Expr, symbol string) *ast.Suffix {
	return &ast.Suffix{Kind: ast.SuffixUnit, Target: target, Symbol: symbol}
}

// S1: a dimensioned add fault recovers locally, skipping the binding
// and emitting exactly one ArithmeticFault signal targeting var:c.
func TestDeclBlockArithmeticFaultRecovers(t *testing.T) {
	c, _, patch := newTestContext()
	decl := &ast.DeclBlock{Items: []ast.DeclItem{
		{Name: "a", Init: unitSuffix(numLit("1"), "m")},
		{Name: "b", Init: unitSuffix(numLit("2"), "s")},
		{Name: "c", Init: &ast.Call{Name: "add", Args: []ast.Expr{&ast.Ident{Name: "a"}, &ast.Ident{Name: "b"}}}},
	}}
	res, err := EvalStmt(c, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != ResultContinue {
		t.Fatalf("result kind = %v, want Continue", res.Kind)
	}
	if _, ok := c.LookupLocal("c"); ok {
		t.Fatal("c should not be bound after an arithmetic fault")
	}
	if len(patch.Ops) != 1 {
		t.Fatalf("patch ops = %d, want 1", len(patch.Ops))
	}
	sig, ok := patch.Ops[0].(state.EmitSignal)
	if !ok {
		t.Fatalf("patch op = %T, want EmitSignal", patch.Ops[0])
	}
	if sig.Targets[0] != "var:c" {
		t.Errorf("target = %s, want var:c", sig.Targets[0])
	}
	if sig.Signal.Kind != state.FaultDimensionMismatch {
		t.Errorf("fault kind = %s, want DimensionMismatch", sig.Signal.Kind)
	}
}

// S2: a triggered guard clears the patch, appends one GuardViolation,
// and drops every subsequent mutation in the same tick.
func TestGuardClearsPatchAndDropsLaterMutations(t *testing.T) {
	c, bridge, patch := newTestContext()
	stmts := []ast.Stmt{
		&ast.Mutate{Target: "살림.점수", Value: numLit("5")},
		&ast.Guard{Cond: &ast.Ident{Name: "참"}, Body: []ast.Stmt{&ast.Break{}}, ID: 1},
		&ast.Mutate{Target: "살림.점수", Value: numLit("10")},
	}
	for _, s := range stmts {
		if _, err := EvalStmt(c, s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !c.GuardRejected {
		t.Fatal("guard_rejected should be true")
	}
	if len(patch.Ops) != 1 {
		t.Fatalf("patch ops = %d, want 1", len(patch.Ops))
	}
	gv, ok := patch.Ops[0].(state.GuardViolation)
	if !ok {
		t.Fatalf("patch op = %T, want GuardViolation", patch.Ops[0])
	}
	if gv.RuleID != "RULE_GUARD#1" {
		t.Errorf("rule_id = %s, want RULE_GUARD#1", gv.RuleID)
	}
	if _, ok := bridge.Get("살림.점수"); ok {
		t.Error("살림.점수 should remain unset after the guard rejects the tick")
	}
}

// Pipe identity (spec §8.7): an empty pipe yields None, and a final
// stage writing None does not clobber a previously written value.
func TestPipeIdentity(t *testing.T) {
	c, _, _ := newTestContext()

	empty := &ast.Pipe{}
	v, err := EvalExpr(c, empty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(value.None); !ok {
		t.Errorf("empty pipe = %v, want None", v)
	}

	withNone := &ast.Pipe{Stages: []ast.PipeStage{
		{Expr: numLit("7")},
		{Expr: &ast.Ident{Name: "없음"}},
	}}
	v, err = EvalExpr(c, withNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(value.Num)
	if !ok {
		t.Fatalf("pipe result = %T, want Num", v)
	}
	if n.V.IntPart() != 7 {
		t.Errorf("pipe result = %s, want 7", n.V.String())
	}
}

// Unit algebra (spec §8.3): (a+b)-b = a exactly for equal-dim operands.
func TestUnitAddSubRoundTrip(t *testing.T) {
	c, _, _ := newTestContext()
	a := unitSuffix(numLit("3"), "m")
	b := unitSuffix(numLit("5"), "m")
	expr := &ast.Call{Name: "sub", Args: []ast.Expr{
		&ast.Call{Name: "add", Args: []ast.Expr{a, b}},
		b,
	}}
	v, err := EvalExpr(c, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := v.(value.Unit)
	if !ok {
		t.Fatalf("result = %T, want Unit", v)
	}
	if u.V.Value.IntPart() != 3 {
		t.Errorf("(a+b)-b = %s, want 3", u.V.Value.String())
	}
}
