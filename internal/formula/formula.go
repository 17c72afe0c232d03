// Package formula implements the spec §4.8 formula sub-evaluator: its
// own tokenizer, precedence-climbing parser, evaluator, and symbolic
// differentiator/integrator over a small arithmetic expression
// language, entirely separate from the block-level AST in
// internal/ast and the evaluator in internal/eval.
package formula

import (
	"fmt"

	"github.com/tongosu/ddonilang/internal/value"
)

// Dialect selects the identifier grammar (spec §4.8).
type Dialect int

const (
	Ascii Dialect = iota
	Ascii1
)

// Payload is the concrete value.FormulaPayload carried by a Formula
// value: raw source text plus dialect, parsed lazily by each operation.
type Payload struct {
	Source  string
	Dialect Dialect
}

// New wraps source/dialect as a value.Formula.
func New(source string, dialect Dialect) value.Formula {
	return value.Formula{P: Payload{Source: source, Dialect: dialect}}
}

// CanonText implements value.FormulaPayload.
func (p Payload) CanonText() string {
	prefix := "ascii"
	if p.Dialect == Ascii1 {
		prefix = "ascii1"
	}
	return prefix + ":" + p.Source
}

func parsePayload(f value.Formula) (Payload, error) {
	p, ok := f.P.(Payload)
	if !ok {
		return Payload{}, errMsg("수식 내부 표현이 올바르지 않습니다")
	}
	return p, nil
}

// Evaluate parses and evaluates a formula against an injected Pack
// (spec §4.5's eval_formula); the pack's key set must exactly equal
// the formula's free variables, with no None values.
func Evaluate(f value.Formula, pack *value.Pack) (value.Value, error) {
	p, err := parsePayload(f)
	if err != nil {
		return nil, err
	}
	expr, err := Parse(p.Source, p.Dialect)
	if err != nil {
		return nil, err
	}
	if assign, ok := expr.(*fAssign); ok {
		expr = assign.Expr
	}
	env, err := buildEnv(expr, pack)
	if err != nil {
		return nil, err
	}
	return evalExpr(expr, env)
}

// buildEnv requires pack's field set to equal exactly expr's free
// variables (spec §4.5: "require exact key sets; no missing, no
// extras"), with no None values.
func buildEnv(expr fexpr, pack *value.Pack) (map[string]value.Value, error) {
	vars := freeVars(expr)
	fields := pack.FieldNames()
	fieldSet := make(map[string]bool, len(fields))
	for _, f := range fields {
		fieldSet[f] = true
	}
	for v := range vars {
		if !fieldSet[v] {
			return nil, errMsg("수식에 필요한 변수가 주입되지 않았습니다: %s", v)
		}
	}
	env := make(map[string]value.Value, len(fields))
	for _, f := range fields {
		if !vars[f] {
			return nil, errMsg("수식에 없는 변수가 주입되었습니다: %s", f)
		}
		fv, _ := pack.Get(f)
		if _, isNone := fv.(value.None); isNone {
			return nil, errMsg("PACK_FIELD_NONE:%s", f)
		}
		env[f] = fv
	}
	return env, nil
}

// freeVars collects every distinct identifier referenced by expr.
func freeVars(expr fexpr) map[string]bool {
	out := map[string]bool{}
	var walk func(fexpr)
	walk = func(e fexpr) {
		switch t := e.(type) {
		case *fVar:
			if !isConstantName(t.Name) {
				out[t.Name] = true
			}
		case *fBin:
			walk(t.Left)
			walk(t.Right)
		case *fUnary:
			walk(t.Operand)
		case *fCall:
			for _, a := range t.Args {
				walk(a)
			}
		case *fAssign:
			walk(t.Expr)
		}
	}
	walk(expr)
	return out
}

// InferSingleVar requires expr to reference exactly one free variable,
// for the no-var-supplied form of differentiate/integrate (spec §4.8).
func InferSingleVar(expr fexpr) (string, error) {
	vars := freeVars(expr)
	if len(vars) != 1 {
		return "", errMsg("E_CALC_FREEVAR_AMBIGUOUS")
	}
	for v := range vars {
		return v, nil
	}
	panic("unreachable")
}

func isConstantName(name string) bool {
	return name == "pi" || name == "e"
}

func errMsg(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
