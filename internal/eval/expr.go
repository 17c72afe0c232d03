package eval

import (
	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/formula"
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/stdlib"
	"github.com/tongosu/ddonilang/internal/template"
	"github.com/tongosu/ddonilang/internal/value"
)

// SeedFunc is a user-defined seed (named lambda) resolved by Call
// dispatch's second branch (spec §4.3: "otherwise look up a
// user-defined seed by canonical name"). Seeds is populated by the
// program loader before a tick runs; internal/eval only reads it.
type SeedFunc = value.Lambda

// Seeds holds the program's user-defined seeds by canonical name,
// looked up after the built-in catalog misses.
type Seeds map[string]SeedFunc

// EvalExpr evaluates a single expression node (spec §4.3).
func EvalExpr(c *Context, e ast.Expr) (value.Value, error) {
	switch t := e.(type) {
	case *ast.Literal:
		return evalLiteral(t)
	case *ast.Ident:
		return evalIdent(c, t)
	case *ast.FieldAccess:
		return evalFieldAccess(c, t)
	case *ast.MapIndex:
		return evalMapIndex(c, t)
	case *ast.Call:
		return evalCall(c, t)
	case *ast.Lambda:
		return evalLambda(c, t)
	case *ast.Suffix:
		return evalSuffix(c, t)
	case *ast.Thunk:
		result, err := runBlock(c, t.Body)
		if err != nil {
			return nil, err
		}
		return thunkValue(result), nil
	case *ast.Eval:
		return evalEval(c, t)
	case *ast.Pipe:
		return evalPipe(c, t)
	case *ast.FlowValue:
		return c.ReadFlow()
	case *ast.PackLit:
		return evalPackLit(c, t)
	case *ast.TemplateLit:
		return template.New(t.Parts), nil
	case *ast.FormulaLit:
		return formula.New(t.Source, formulaDialect(t.Dialect)), nil
	case *ast.TemplateRender:
		return evalTemplateRender(c, t)
	case *ast.FormulaEval:
		return evalFormulaEval(c, t)
	default:
		return nil, NewMessageError("지원하지 않는 표현식입니다")
	}
}

func formulaDialect(d ast.FormulaDialect) formula.Dialect {
	if d == ast.DialectAscii1 {
		return formula.Ascii1
	}
	return formula.Ascii
}

func evalLiteral(l *ast.Literal) (value.Value, error) {
	switch v := l.Value.(type) {
	case ast.NumberLiteral:
		f, err := numeric.ParseFixed64(string(v))
		if err != nil {
			return nil, NewMessageError("숫자 리터럴이 올바르지 않습니다: %s", string(v))
		}
		return value.Num{V: f}, nil
	case ast.StringLiteral:
		return value.Str(string(v)), nil
	default:
		return nil, NewMessageError("알 수 없는 리터럴입니다")
	}
}

// evalIdent resolves a name per spec §4.3's three-step order: local
// scope, reserved name, resource bridge.
func evalIdent(c *Context, id *ast.Ident) (value.Value, error) {
	if v, ok := c.LookupLocal(id.Name); ok {
		return v, nil
	}
	switch id.Name {
	case "참":
		return value.Bool(true), nil
	case "거짓":
		return value.Bool(false), nil
	case "없음":
		return value.None{}, nil
	}
	if v, ok := c.Bridge.Get(id.Name); ok {
		return v, nil
	}
	return nil, NewMessageError("Undefined:%s", id.Name)
}

func evalFieldAccess(c *Context, fa *ast.FieldAccess) (value.Value, error) {
	target, err := EvalExpr(c, fa.Target)
	if err != nil {
		return nil, err
	}
	pack, ok := target.(*value.Pack)
	if !ok {
		return nil, TypeMismatchError(fa.Field, "차림", target.Kind().String())
	}
	v, ok := pack.Get(fa.Field)
	if !ok {
		return nil, NewMessageError("PACK_FIELD_MISSING:%s", fa.Field)
	}
	if _, isNone := v.(value.None); isNone {
		return nil, NewMessageError("PACK_FIELD_NONE:%s", fa.Field)
	}
	return v, nil
}

func evalMapIndex(c *Context, mi *ast.MapIndex) (value.Value, error) {
	target, err := EvalExpr(c, mi.Target)
	if err != nil {
		return nil, err
	}
	m, ok := target.(value.Map)
	if !ok {
		return nil, TypeMismatchError("맵색인", "맵", target.Kind().String())
	}
	key, err := EvalExpr(c, mi.Key)
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(key)
	if !ok {
		return nil, NewMessageError("MAP_KEY_MISSING:%s", value.Canon(key))
	}
	return v, nil
}

func evalCall(c *Context, call *ast.Call) (value.Value, error) {
	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := EvalExpr(c, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if fn, ok := stdlib.Lookup(call.Name); ok {
		return fn(c, args)
	}
	seed, ok := c.Seeds[call.Name]
	if !ok {
		return nil, NewMessageError("정의되지 않은 호출입니다: %s", call.Name)
	}
	// Lambda invocation requires exactly one argument (spec §4.3); a
	// multi-argument seed call packs its arguments into a single List,
	// mirroring the fold built-in's reducer-packing convention.
	var packed value.Value
	switch len(args) {
	case 0:
		packed = value.None{}
	case 1:
		packed = args[0]
	default:
		packed = value.List{Items: args}
	}
	return c.InvokeLambda(seed, packed)
}

func evalLambda(c *Context, l *ast.Lambda) (value.Value, error) {
	closure := c.SnapshotLocals()
	return value.NewLambda(l.Param, l.Body, closure), nil
}

func evalSuffix(c *Context, s *ast.Suffix) (value.Value, error) {
	switch s.Kind {
	case ast.SuffixUnit:
		target, err := EvalExpr(c, s.Target)
		if err != nil {
			return nil, err
		}
		spec, ok := numeric.LookupUnitSpec(s.Symbol)
		if !ok {
			return nil, NewMessageError("알 수 없는 단위 기호입니다: %s", s.Symbol)
		}
		switch v := target.(type) {
		case value.Num:
			return value.Unit{V: numeric.FromSpec(v.V, spec)}, nil
		case value.Unit:
			converted, err := v.V.ToUnit(spec)
			if err != nil {
				return nil, err
			}
			return value.Unit{V: converted}, nil
		default:
			return nil, TypeMismatchError("단위접미사", "수", target.Kind().String())
		}
	case ast.SuffixAsset:
		target, err := EvalExpr(c, s.Target)
		if err != nil {
			return nil, err
		}
		path, ok := target.(value.Str)
		if !ok {
			return nil, TypeMismatchError("자산접미사", "글", target.Kind().String())
		}
		handle, err := c.Assets.Resolve(string(path))
		if err != nil {
			return nil, err
		}
		return handle, nil
	default:
		return nil, NewMessageError("알 수 없는 접미사입니다")
	}
}

// runBlock executes a statement list, returning its ThunkResult (spec
// §4.4): a plain expr-statement's value only matters for the block's
// final statement, matched here by checking for a trailing bare Eval
// expression is out of scope for this AST (ast.Stmt never wraps a bare
// Expr), so ThunkResult for non-terminating blocks is always None.
func runBlock(c *Context, stmts []ast.Stmt) (StmtResult, error) {
	c.PushScope()
	defer c.PopScope()
	return execStmts(c, stmts)
}

// execStmts runs stmts in the current scope without pushing a new
// one, for callers (ForEach, Try) that need the loop/binder variable
// visible to a scope they manage themselves.
func execStmts(c *Context, stmts []ast.Stmt) (StmtResult, error) {
	for _, s := range stmts {
		r, err := EvalStmt(c, s)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Kind != ResultContinue {
			return r, nil
		}
	}
	return StmtResult{Kind: ResultContinue}, nil
}

// thunkValue coerces a block's StmtResult into the Value an
// expression-position Thunk produces: Return/Break values propagate
// as the produced value; falling off the end yields None.
func thunkValue(r StmtResult) value.Value {
	switch r.Kind {
	case ResultReturn, ResultBreak:
		if r.Value != nil {
			return r.Value
		}
		return value.None{}
	default:
		return value.None{}
	}
}

func evalEval(c *Context, ev *ast.Eval) (value.Value, error) {
	switch ev.Mode {
	case ast.EvalPipe:
		c.PushFlow()
		r, err := runBlock(c, ev.Block.Body)
		if err != nil {
			c.PopFlow()
			return nil, err
		}
		if r.Kind == ResultReturn || r.Kind == ResultBreak {
			c.WriteFlow(r.Value)
		}
		return c.PopFlow(), nil
	default:
		r, err := runBlock(c, ev.Block.Body)
		if err != nil {
			return nil, err
		}
		v := thunkValue(r)
		switch ev.Mode {
		case ast.EvalValue:
			return v, nil
		case ast.EvalBool:
			b, err := Truthy(v)
			if err != nil {
				return nil, err
			}
			return value.Bool(b), nil
		case ast.EvalNot:
			b, err := Truthy(v)
			if err != nil {
				return nil, err
			}
			return value.Bool(!b), nil
		case ast.EvalDo:
			return value.None{}, nil
		default:
			return v, nil
		}
	}
}

func evalPipe(c *Context, p *ast.Pipe) (value.Value, error) {
	c.PushFlow()
	for _, stage := range p.Stages {
		v, err := EvalExpr(c, stage.Expr)
		if err != nil {
			c.PopFlow()
			return nil, err
		}
		c.WriteFlow(v)
	}
	return c.PopFlow(), nil
}

func evalPackLit(c *Context, pl *ast.PackLit) (value.Value, error) {
	pack := value.NewPack()
	for _, f := range pl.Fields {
		if pack.Has(f.Name) {
			return nil, NewMessageError("차림 필드가 중복되었습니다: %s", f.Name)
		}
		v, err := EvalExpr(c, f.Value)
		if err != nil {
			return nil, err
		}
		pack.Set(f.Name, v)
	}
	return pack, nil
}

func buildInjectPack(c *Context, fields []ast.PackField) (*value.Pack, error) {
	pack := value.NewPack()
	for _, f := range fields {
		if pack.Has(f.Name) {
			return nil, NewMessageError("차림 필드가 중복되었습니다: %s", f.Name)
		}
		v, err := EvalExpr(c, f.Value)
		if err != nil {
			return nil, err
		}
		pack.Set(f.Name, v)
	}
	return pack, nil
}

func evalTemplateRender(c *Context, tr *ast.TemplateRender) (value.Value, error) {
	tpl, err := EvalExpr(c, tr.Template)
	if err != nil {
		return nil, err
	}
	pack, err := buildInjectPack(c, tr.Inject)
	if err != nil {
		return nil, err
	}
	fn, _ := stdlib.Lookup("render")
	return fn(c, []value.Value{tpl, pack})
}

func evalFormulaEval(c *Context, fe *ast.FormulaEval) (value.Value, error) {
	f, err := EvalExpr(c, fe.Formula)
	if err != nil {
		return nil, err
	}
	pack, err := buildInjectPack(c, fe.Inject)
	if err != nil {
		return nil, err
	}
	fn, _ := stdlib.Lookup("eval_formula")
	return fn(c, []value.Value{f, pack})
}
