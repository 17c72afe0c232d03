package formula

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

type scalar struct {
	f   numeric.Fixed64
	dim numeric.UnitDim
}

func scalarOf(v value.Value) (scalar, error) {
	switch t := v.(type) {
	case value.Num:
		return scalar{f: t.V, dim: numeric.Dimensionless}, nil
	case value.Unit:
		return scalar{f: t.V.Value, dim: t.V.Dim}, nil
	default:
		return scalar{}, errMsg("수식 변수는 수 또는 차원값이어야 합니다: %s", v.Kind().String())
	}
}

func wrapScalar(s scalar) value.Value {
	if s.dim.IsDimensionless() {
		return value.Num{V: s.f}
	}
	return value.Unit{V: numeric.NewUnitValue(s.f, s.dim)}
}

func requireDimensionless(name string, s scalar) error {
	if !s.dim.IsDimensionless() {
		return errMsg("%s: 무차원 값이 필요합니다", name)
	}
	return nil
}

func evalExpr(e fexpr, env map[string]value.Value) (value.Value, error) {
	s, err := evalScalar(e, env)
	if err != nil {
		return nil, err
	}
	return wrapScalar(s), nil
}

func evalScalar(e fexpr, env map[string]value.Value) (scalar, error) {
	switch t := e.(type) {
	case *fNum:
		return scalar{f: t.V, dim: numeric.Dimensionless}, nil
	case *fVar:
		switch t.Name {
		case "pi":
			return scalar{f: numeric.FromFloat64Lossy(3.14159265358979323846), dim: numeric.Dimensionless}, nil
		case "e":
			return scalar{f: numeric.FromFloat64Lossy(2.71828182845904523536), dim: numeric.Dimensionless}, nil
		}
		v, ok := env[t.Name]
		if !ok {
			return scalar{}, errMsg("수식에 정의되지 않은 변수입니다: %s", t.Name)
		}
		return scalarOf(v)
	case *fUnary:
		s, err := evalScalar(t.Operand, env)
		if err != nil {
			return scalar{}, err
		}
		if t.Neg {
			s.f = s.f.Neg()
		}
		return s, nil
	case *fBin:
		return evalBin(t, env)
	case *fCall:
		return evalCall(t.Name, t.Args, env)
	default:
		return scalar{}, errMsg("지원하지 않는 수식 노드입니다")
	}
}

func evalBin(b *fBin, env map[string]value.Value) (scalar, error) {
	l, err := evalScalar(b.Left, env)
	if err != nil {
		return scalar{}, err
	}
	r, err := evalScalar(b.Right, env)
	if err != nil {
		return scalar{}, err
	}
	switch b.Op {
	case opAdd:
		if !l.dim.Equal(r.dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: l.dim, Right: r.dim}
		}
		return scalar{f: l.f.Add(r.f), dim: l.dim}, nil
	case opSub:
		if !l.dim.Equal(r.dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: l.dim, Right: r.dim}
		}
		return scalar{f: l.f.Sub(r.f), dim: l.dim}, nil
	case opMul:
		return scalar{f: l.f.Mul(r.f), dim: l.dim.Add(r.dim)}, nil
	case opDiv:
		f, err := l.f.Div(r.f)
		if err != nil {
			return scalar{}, err
		}
		return scalar{f: f, dim: l.dim.Sub(r.dim)}, nil
	case opMod:
		if !l.dim.Equal(r.dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: l.dim, Right: r.dim}
		}
		f, err := l.f.Mod(r.f)
		if err != nil {
			return scalar{}, errMsg("FORMULA_MOD_ZERO")
		}
		return scalar{f: f, dim: l.dim}, nil
	case opPow:
		if !r.dim.IsDimensionless() {
			return scalar{}, errMsg("FORMULA_POW_INVALID")
		}
		if !l.dim.IsDimensionless() {
			if r.f.FracPart() != 0 || r.f.IntPart() < 0 {
				return scalar{}, errMsg("FORMULA_POW_INVALID")
			}
			rf, err := l.f.Powi(r.f.IntPart())
			if err != nil {
				return scalar{}, err
			}
			return scalar{f: rf, dim: l.dim.Scale(int32(r.f.IntPart()))}, nil
		}
		return scalar{f: numeric.Pow(l.f, r.f), dim: numeric.Dimensionless}, nil
	default:
		return scalar{}, errMsg("지원하지 않는 연산자입니다")
	}
}

func evalCall(name string, argExprs []fexpr, env map[string]value.Value) (scalar, error) {
	args := make([]scalar, len(argExprs))
	for i, a := range argExprs {
		s, err := evalScalar(a, env)
		if err != nil {
			return scalar{}, err
		}
		args[i] = s
	}
	arg1 := func() (scalar, error) {
		if len(args) != 1 {
			return scalar{}, errMsg("%s: 인자 개수가 올바르지 않습니다", name)
		}
		if err := requireDimensionless(name, args[0]); err != nil {
			return scalar{}, err
		}
		return args[0], nil
	}
	unary := func(fn func(numeric.Fixed64) numeric.Fixed64) (scalar, error) {
		s, err := arg1()
		if err != nil {
			return scalar{}, err
		}
		return scalar{f: fn(s.f), dim: numeric.Dimensionless}, nil
	}
	unaryErr := func(fn func(numeric.Fixed64) (numeric.Fixed64, error)) (scalar, error) {
		s, err := arg1()
		if err != nil {
			return scalar{}, err
		}
		f, err := fn(s.f)
		if err != nil {
			return scalar{}, err
		}
		return scalar{f: f, dim: numeric.Dimensionless}, nil
	}

	switch name {
	case "sin":
		return unary(numeric.Sin)
	case "cos":
		return unary(numeric.Cos)
	case "tan":
		return unary(numeric.Tan)
	case "asin":
		return unary(numeric.Asin)
	case "acos":
		return unary(numeric.Acos)
	case "atan":
		return unary(numeric.Atan)
	case "sinh":
		return unary(numeric.Sinh)
	case "cosh":
		return unary(numeric.Cosh)
	case "tanh":
		return unary(numeric.Tanh)
	case "asinh":
		return unary(numeric.Asinh)
	case "acosh":
		return unary(numeric.Acosh)
	case "atanh":
		return unary(numeric.Atanh)
	case "exp":
		return unary(numeric.Exp)
	case "cbrt":
		return unary(numeric.Cbrt)
	case "ln":
		return unaryErr(numeric.Ln)
	case "log10":
		return unaryErr(numeric.Log10)
	case "log2":
		return unaryErr(numeric.Log2)
	case "atan2":
		if len(args) != 2 {
			return scalar{}, errMsg("atan2: 인자 개수가 올바르지 않습니다")
		}
		return scalar{f: numeric.Atan2(args[0].f, args[1].f), dim: numeric.Dimensionless}, nil
	case "abs":
		if len(args) != 1 {
			return scalar{}, errMsg("abs: 인자 개수가 올바르지 않습니다")
		}
		return scalar{f: args[0].f.Abs(), dim: args[0].dim}, nil
	case "sign":
		if len(args) != 1 {
			return scalar{}, errMsg("sign: 인자 개수가 올바르지 않습니다")
		}
		c := args[0].f.Cmp(numeric.Zero)
		return scalar{f: numeric.FromI64(int64(c)), dim: numeric.Dimensionless}, nil
	case "floor":
		if len(args) != 1 {
			return scalar{}, errMsg("floor: 인자 개수가 올바르지 않습니다")
		}
		return scalar{f: args[0].f.Floor(), dim: args[0].dim}, nil
	case "ceil":
		if len(args) != 1 {
			return scalar{}, errMsg("ceil: 인자 개수가 올바르지 않습니다")
		}
		return scalar{f: args[0].f.Ceil(), dim: args[0].dim}, nil
	case "round":
		if len(args) != 1 {
			return scalar{}, errMsg("round: 인자 개수가 올바르지 않습니다")
		}
		return scalar{f: args[0].f.RoundEven(), dim: args[0].dim}, nil
	case "trunc":
		if len(args) != 1 {
			return scalar{}, errMsg("trunc: 인자 개수가 올바르지 않습니다")
		}
		a := args[0]
		if a.f.Less(numeric.Zero) {
			return scalar{f: a.f.Ceil(), dim: a.dim}, nil
		}
		return scalar{f: a.f.Floor(), dim: a.dim}, nil
	case "fract":
		if len(args) != 1 {
			return scalar{}, errMsg("fract: 인자 개수가 올바르지 않습니다")
		}
		a := args[0]
		var whole numeric.Fixed64
		if a.f.Less(numeric.Zero) {
			whole = a.f.Ceil()
		} else {
			whole = a.f.Floor()
		}
		return scalar{f: a.f.Sub(whole), dim: a.dim}, nil
	case "sqrt":
		if len(args) != 1 {
			return scalar{}, errMsg("sqrt: 인자 개수가 올바르지 않습니다")
		}
		f, err := args[0].f.Sqrt()
		if err != nil {
			return scalar{}, err
		}
		d, ok := args[0].dim.Sqrt()
		if !ok {
			return scalar{}, errMsg("sqrt: 차원의 모든 지수가 짝수여야 합니다")
		}
		return scalar{f: f, dim: d}, nil
	case "pow":
		if len(args) != 2 {
			return scalar{}, errMsg("pow: 인자 개수가 올바르지 않습니다")
		}
		return evalBin(&fBin{Op: opPow, Left: &fNum{V: args[0].f}, Right: &fNum{V: args[1].f}}, nil)
	case "powi":
		if len(args) != 2 {
			return scalar{}, errMsg("powi: 인자 개수가 올바르지 않습니다")
		}
		f, err := args[0].f.Powi(args[1].f.IntPart())
		if err != nil {
			return scalar{}, err
		}
		return scalar{f: f, dim: args[0].dim.Scale(int32(args[1].f.IntPart()))}, nil
	case "min":
		if len(args) != 2 {
			return scalar{}, errMsg("min: 인자 개수가 올바르지 않습니다")
		}
		if !args[0].dim.Equal(args[1].dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: args[0].dim, Right: args[1].dim}
		}
		if args[0].f.Less(args[1].f) {
			return args[0], nil
		}
		return args[1], nil
	case "max":
		if len(args) != 2 {
			return scalar{}, errMsg("max: 인자 개수가 올바르지 않습니다")
		}
		if !args[0].dim.Equal(args[1].dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: args[0].dim, Right: args[1].dim}
		}
		if args[0].f.Less(args[1].f) {
			return args[1], nil
		}
		return args[0], nil
	case "clamp":
		if len(args) != 3 {
			return scalar{}, errMsg("clamp: 인자 개수가 올바르지 않습니다")
		}
		v, lo, hi := args[0], args[1], args[2]
		if !v.dim.Equal(lo.dim) || !v.dim.Equal(hi.dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: v.dim, Right: lo.dim}
		}
		if v.f.Less(lo.f) {
			return lo, nil
		}
		if hi.f.Less(v.f) {
			return hi, nil
		}
		return v, nil
	case "mod":
		if len(args) != 2 {
			return scalar{}, errMsg("mod: 인자 개수가 올바르지 않습니다")
		}
		if !args[0].dim.Equal(args[1].dim) {
			return scalar{}, &numeric.ErrUnitMismatch{Left: args[0].dim, Right: args[1].dim}
		}
		f, err := args[0].f.Mod(args[1].f)
		if err != nil {
			return scalar{}, errMsg("FORMULA_MOD_ZERO")
		}
		return scalar{f: f, dim: args[0].dim}, nil
	default:
		return scalar{}, errMsg("알 수 없는 수식 함수입니다: %s", name)
	}
}
