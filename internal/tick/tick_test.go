package tick

import (
	"testing"

	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/eval"
	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
)

func numLit(text string) *ast.Literal {
	return &ast.Literal{Value: ast.NumberLiteral(text)}
}

func unitSuffix(target ast.Expr, symbol string) *ast.Suffix {
	return &ast.Suffix{Kind: ast.SuffixUnit, Target: target, Symbol: symbol}
}

func seedOf(body []ast.Stmt) value.Lambda {
	return value.NewLambda("", &ast.Thunk{Body: body}, nil)
}

// End-to-end S1 (spec §8): a dimensioned add fault inside the update
// seed recovers locally; the tick still completes, and its patch holds
// exactly one op, an EmitSignal (the ArithmeticFault signal).
func TestRunRecoversArithmeticFault(t *testing.T) {
	body := []ast.Stmt{
		&ast.DeclBlock{Items: []ast.DeclItem{
			{Name: "a", Init: unitSuffix(numLit("1"), "m")},
			{Name: "b", Init: unitSuffix(numLit("2"), "s")},
			{Name: "c", Init: &ast.Call{Name: "add", Args: []ast.Expr{&ast.Ident{Name: "a"}, &ast.Ident{Name: "b"}}}},
		}},
	}
	prog := Program{Seeds: eval.Seeds{DefaultSeedName: seedOf(body)}}
	st := state.New(nil, nil)

	res, err := Run(prog, st, Input{LastKeyName: "확인"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Patch.Ops) != 1 {
		t.Fatalf("patch ops = %d, want 1", len(res.Patch.Ops))
	}
	if _, ok := res.Patch.Ops[0].(state.EmitSignal); !ok {
		t.Fatalf("patch op = %T, want EmitSignal", res.Patch.Ops[0])
	}
}

// End-to-end S2 (spec §8): a triggered guard clears the patch, emits
// one GuardViolation, and every subsequent mutation in the tick is
// dropped — observed here through the resource snapshot the driver
// returns, not just the in-package Context.
func TestRunGuardDropsLaterMutations(t *testing.T) {
	body := []ast.Stmt{
		&ast.Mutate{Target: "살림.점수", Value: numLit("5")},
		&ast.Guard{Cond: &ast.Ident{Name: "참"}, Body: []ast.Stmt{&ast.Break{}}, ID: 7},
		&ast.Mutate{Target: "살림.점수", Value: numLit("10")},
	}
	prog := Program{Seeds: eval.Seeds{DefaultSeedName: seedOf(body)}}
	st := state.New(nil, nil)

	res, err := Run(prog, st, Input{LastKeyName: "취소"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Patch.Ops) != 1 {
		t.Fatalf("patch ops = %d, want 1", len(res.Patch.Ops))
	}
	gv, ok := res.Patch.Ops[0].(state.GuardViolation)
	if !ok {
		t.Fatalf("patch op = %T, want GuardViolation", res.Patch.Ops[0])
	}
	if gv.RuleID != "RULE_GUARD#7" {
		t.Errorf("rule_id = %s, want RULE_GUARD#7", gv.RuleID)
	}
	for _, e := range res.Resources {
		if e.Key == "살림.점수" {
			t.Errorf("살림.점수 should not be in the resource view after the guard rejects the tick")
		}
	}
}

func TestResolveSeedFallsBackToDocumentedAlias(t *testing.T) {
	prog := Program{Seeds: eval.Seeds{FallbackSeedName: seedOf(nil)}}
	if _, err := ResolveSeed(prog, ""); err != nil {
		t.Fatalf("unexpected error resolving fallback alias: %v", err)
	}
}

func TestResolveSeedMissingIsError(t *testing.T) {
	prog := Program{Seeds: eval.Seeds{}}
	if _, err := ResolveSeed(prog, ""); err == nil {
		t.Fatal("expected an error when no update seed is defined")
	}
}
