package eval

import (
	"fmt"

	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/diag"
	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
)

// ResultKind is the statement state machine's tag (spec §4.4):
// Continue | Return(Value) | Break(span).
type ResultKind int

const (
	ResultContinue ResultKind = iota
	ResultReturn
	ResultBreak
)

// StmtResult is the outcome of running one statement or a statement
// list. Value is populated for ResultReturn; ResultBreak carries no
// payload (its span lives on the originating ast.Break node, threaded
// through diagnostics separately if ever needed).
type StmtResult struct {
	Kind  ResultKind
	Value value.Value
}

// EvalStmt runs one statement and reports how control should proceed
// (spec §4.4). Once the tick has aborted, every statement is a no-op.
func EvalStmt(c *Context, s ast.Stmt) (StmtResult, error) {
	if c.Aborted {
		return StmtResult{Kind: ResultContinue}, nil
	}
	switch t := s.(type) {
	case *ast.DeclBlock:
		return evalDeclBlock(c, t)
	case *ast.Mutate:
		return evalMutate(c, t)
	case *ast.If:
		return evalIf(c, t)
	case *ast.Try:
		return evalTry(c, t)
	case *ast.Repeat:
		return evalRepeat(c, t)
	case *ast.While:
		return evalWhile(c, t)
	case *ast.ForEach:
		return evalForEach(c, t)
	case *ast.Return:
		return evalReturn(c, t)
	case *ast.Contract:
		return evalContract(c, t)
	case *ast.Guard:
		return evalGuard(c, t)
	case *ast.Break:
		return StmtResult{Kind: ResultBreak}, nil
	default:
		return StmtResult{}, NewMessageError("지원하지 않는 문장입니다")
	}
}

func stateFaultKind(f faultKindLike) state.FaultKind {
	if f.isUnitMismatch {
		return state.FaultDimensionMismatch
	}
	return state.FaultDivByZero
}

func evalDeclBlock(c *Context, d *ast.DeclBlock) (StmtResult, error) {
	for _, item := range d.Items {
		if item.Const && item.Init == nil {
			return StmtResult{}, NewMessageError("상수 선언에는 초기값이 필요합니다")
		}
		var v value.Value
		var err error
		if item.Init == nil {
			v = value.None{}
		} else {
			v, err = EvalExpr(c, item.Init)
		}
		if err != nil {
			if fault, ok := asArithFault(err); ok {
				c.Patch.Append(state.ArithmeticFault(stateFaultKind(fault), "var:"+item.Name, fault.left, fault.right))
				continue
			}
			return StmtResult{}, err
		}
		c.Declare(item.Name, v, item.Const)
	}
	return StmtResult{Kind: ResultContinue}, nil
}

func evalMutate(c *Context, m *ast.Mutate) (StmtResult, error) {
	declared, isConst := c.IsConstLocal(m.Target)
	if declared && isConst {
		return StmtResult{}, NewMessageError("재대입할 수 없습니다")
	}
	isLocal := declared
	targetTag := "resource:" + m.Target
	if isLocal {
		targetTag = "var:" + m.Target
	}

	v, err := EvalExpr(c, m.Value)
	if err != nil {
		if fault, ok := asArithFault(err); ok {
			c.Patch.Append(state.ArithmeticFault(stateFaultKind(fault), targetTag, fault.left, fault.right))
			return StmtResult{Kind: ResultContinue}, nil
		}
		return StmtResult{}, err
	}

	if c.GuardRejected {
		return StmtResult{Kind: ResultContinue}, nil
	}

	if isLocal {
		if ok, err := c.AssignLocal(m.Target, v); err != nil {
			return StmtResult{}, err
		} else if ok {
			return StmtResult{Kind: ResultContinue}, nil
		}
	}
	if err := c.ResourceSet(m.Target, v); err != nil {
		return StmtResult{}, err
	}
	return StmtResult{Kind: ResultContinue}, nil
}

func evalIf(c *Context, f *ast.If) (StmtResult, error) {
	for _, branch := range f.Branches {
		cond, err := EvalExpr(c, branch.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		truthy, err := Truthy(cond)
		if err != nil {
			return StmtResult{}, err
		}
		if truthy {
			return runBlock(c, branch.Body)
		}
	}
	if len(f.Else) > 0 {
		return runBlock(c, f.Else)
	}
	return StmtResult{Kind: ResultContinue}, nil
}

func evalTry(c *Context, t *ast.Try) (StmtResult, error) {
	result, err := EvalExpr(c, t.Action)
	if err != nil {
		return StmtResult{}, err
	}
	c.PushScope()
	defer c.PopScope()
	c.Declare("그것", result, false)
	return execStmts(c, t.Body)
}

func evalRepeat(c *Context, r *ast.Repeat) (StmtResult, error) {
	countV, err := EvalExpr(c, r.Count)
	if err != nil {
		return StmtResult{}, err
	}
	n, err := asLoopCount(countV)
	if err != nil {
		return StmtResult{}, err
	}
	for i := int64(0); i < n; i++ {
		res, err := runBlock(c, r.Body)
		if err != nil {
			return StmtResult{}, err
		}
		switch res.Kind {
		case ResultBreak:
			return StmtResult{Kind: ResultContinue}, nil
		case ResultReturn:
			return res, nil
		}
	}
	return StmtResult{Kind: ResultContinue}, nil
}

func evalWhile(c *Context, w *ast.While) (StmtResult, error) {
	for {
		condV, err := EvalExpr(c, w.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		truthy, err := Truthy(condV)
		if err != nil {
			return StmtResult{}, err
		}
		if !truthy {
			return StmtResult{Kind: ResultContinue}, nil
		}
		res, err := runBlock(c, w.Body)
		if err != nil {
			return StmtResult{}, err
		}
		switch res.Kind {
		case ResultBreak:
			return StmtResult{Kind: ResultContinue}, nil
		case ResultReturn:
			return res, nil
		}
	}
}

func evalForEach(c *Context, f *ast.ForEach) (StmtResult, error) {
	iterV, err := EvalExpr(c, f.Iterable)
	if err != nil {
		return StmtResult{}, err
	}
	var items []value.Value
	switch t := iterV.(type) {
	case value.List:
		items = t.Items
	case value.Set:
		items = t.Items()
	case value.Map:
		for _, e := range t.Entries() {
			items = append(items, value.List{Items: []value.Value{e.Key, e.Value}})
		}
	default:
		return StmtResult{}, TypeMismatchError("반복대상", "목록|모음|맵", iterV.Kind().String())
	}
	for _, item := range items {
		c.PushScope()
		c.Declare(f.Var, item, false)
		res, err := execStmts(c, f.Body)
		c.PopScope()
		if err != nil {
			return StmtResult{}, err
		}
		switch res.Kind {
		case ResultBreak:
			return StmtResult{Kind: ResultContinue}, nil
		case ResultReturn:
			return res, nil
		}
	}
	return StmtResult{Kind: ResultContinue}, nil
}

func asLoopCount(v value.Value) (int64, error) {
	switch t := v.(type) {
	case value.Num:
		return t.V.IntPart(), nil
	case value.Unit:
		if !t.V.Dim.IsDimensionless() {
			return 0, NewMessageError("반복 횟수는 차원이 없어야 합니다")
		}
		return t.V.Value.IntPart(), nil
	default:
		return 0, TypeMismatchError("반복횟수", "수", v.Kind().String())
	}
}

func evalReturn(c *Context, r *ast.Return) (StmtResult, error) {
	if r.Value == nil {
		return StmtResult{Kind: ResultReturn, Value: value.None{}}, nil
	}
	v, err := EvalExpr(c, r.Value)
	if err != nil {
		return StmtResult{}, err
	}
	return StmtResult{Kind: ResultReturn, Value: v}, nil
}

func contractKindLabel(k ast.ContractKind) string {
	if k == ast.ContractPost {
		return "post"
	}
	return "pre"
}

func (c *Context) emitContractViolation(ct *ast.Contract) {
	kindLabel := contractKindLabel(ct.Kind)
	faultID := fmt.Sprintf("contract:%s:%s:%d:%d:%d", kindLabel, ct.Span.File, ct.Span.Line, ct.Span.Col, ct.ID)
	mode := "alert"
	if ct.Mode == ast.ContractAbort {
		mode = "abort"
	}
	c.EmitDiag(diag.Event{
		Level:        diag.LevelWarn,
		Code:         "CONTRACT_" + contractCodeSuffix(ct.Kind),
		File:         ct.Span.File,
		Line:         ct.Span.Line,
		Col:          ct.Span.Col,
		Message:      "계약 조건을 만족하지 못했습니다",
		Mode:         mode,
		ContractKind: kindLabel,
		FaultID:      faultID,
	})
	if ct.Mode == ast.ContractAbort {
		c.Aborted = true
	}
}

func contractCodeSuffix(k ast.ContractKind) string {
	if k == ast.ContractPost {
		return "POST"
	}
	return "PRE"
}

func evalContract(c *Context, ct *ast.Contract) (StmtResult, error) {
	switch ct.Kind {
	case ast.ContractPre:
		condV, err := EvalExpr(c, ct.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		truthy, err := Truthy(condV)
		if err != nil {
			return StmtResult{}, err
		}
		if truthy {
			return runBlock(c, ct.Then)
		}
		res, err := runBlock(c, ct.Else)
		if err != nil {
			return StmtResult{}, err
		}
		if res.Kind != ResultContinue {
			return res, nil
		}
		recheck, err := EvalExpr(c, ct.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		stillTruthy, err := Truthy(recheck)
		if err != nil {
			return StmtResult{}, err
		}
		if !stillTruthy {
			c.emitContractViolation(ct)
		}
		return StmtResult{Kind: ResultContinue}, nil
	default: // ast.ContractPost
		res, err := runBlock(c, ct.Then)
		if err != nil {
			return StmtResult{}, err
		}
		if res.Kind != ResultContinue {
			return res, nil
		}
		condV, err := EvalExpr(c, ct.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		truthy, err := Truthy(condV)
		if err != nil {
			return StmtResult{}, err
		}
		if truthy {
			return StmtResult{Kind: ResultContinue}, nil
		}
		res, err = runBlock(c, ct.Else)
		if err != nil {
			return StmtResult{}, err
		}
		if res.Kind != ResultContinue {
			return res, nil
		}
		recheck, err := EvalExpr(c, ct.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		stillTruthy, err := Truthy(recheck)
		if err != nil {
			return StmtResult{}, err
		}
		if !stillTruthy {
			c.emitContractViolation(ct)
		}
		return StmtResult{Kind: ResultContinue}, nil
	}
}

func evalGuard(c *Context, g *ast.Guard) (StmtResult, error) {
	condV, err := EvalExpr(c, g.Cond)
	if err != nil {
		return StmtResult{}, err
	}
	truthy, err := Truthy(condV)
	if err != nil {
		return StmtResult{}, err
	}
	if !truthy {
		return StmtResult{Kind: ResultContinue}, nil
	}
	c.GuardRejected = true
	c.Bridge.Rollback()
	c.Patch.Clear()
	c.Patch.Append(state.GuardViolation{Entity: 0, RuleID: fmt.Sprintf("RULE_GUARD#%d", g.ID)})
	res, err := runBlock(c, g.Body)
	if err != nil {
		return StmtResult{}, err
	}
	// A bare 멈춤 inside a guard body ends the guard's own body, not an
	// enclosing loop (spec §8 S2 runs 멈춤 directly inside a guard with
	// no surrounding loop); Return still propagates to the seed caller.
	if res.Kind == ResultReturn {
		return res, nil
	}
	return StmtResult{Kind: ResultContinue}, nil
}
