package formula

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// Differentiate parses f, differentiates order times with respect to
// varName (or the single inferred free variable when varName == ""),
// and returns the result as a new Ascii-dialect Formula (spec §4.8).
func Differentiate(f value.Formula, varName string, order int) (value.Formula, error) {
	p, err := parsePayload(f)
	if err != nil {
		return value.Formula{}, err
	}
	expr, err := Parse(p.Source, p.Dialect)
	if err != nil {
		return value.Formula{}, err
	}
	if a, ok := expr.(*fAssign); ok {
		expr = a.Expr
	}
	if varName == "" {
		varName, err = InferSingleVar(expr)
		if err != nil {
			return value.Formula{}, err
		}
	}
	if order < 1 {
		order = 1
	}
	cur := expr
	for i := 0; i < order; i++ {
		cur, err = diff(cur, varName)
		if err != nil {
			return value.Formula{}, err
		}
		cur = simplify(cur)
	}
	return New(print(cur), Ascii), nil
}

// Integrate parses f, integrates once with respect to varName (or the
// single inferred free variable), and optionally appends "+ C".
func Integrate(f value.Formula, varName string, includeConst bool) (value.Formula, error) {
	p, err := parsePayload(f)
	if err != nil {
		return value.Formula{}, err
	}
	expr, err := Parse(p.Source, p.Dialect)
	if err != nil {
		return value.Formula{}, err
	}
	if a, ok := expr.(*fAssign); ok {
		expr = a.Expr
	}
	if varName == "" {
		varName, err = InferSingleVar(expr)
		if err != nil {
			return value.Formula{}, err
		}
	}
	result, err := integrate(expr, varName)
	if err != nil {
		return value.Formula{}, err
	}
	result = simplify(result)
	if includeConst {
		result = &fBin{Op: opAdd, Left: result, Right: &fVar{Name: "C"}}
	}
	return New(print(result), Ascii), nil
}

func diff(e fexpr, v string) (fexpr, error) {
	switch t := e.(type) {
	case *fNum:
		return &fNum{V: numeric.Zero}, nil
	case *fVar:
		if t.Name == v {
			return &fNum{V: numeric.One}, nil
		}
		return &fNum{V: numeric.Zero}, nil
	case *fUnary:
		d, err := diff(t.Operand, v)
		if err != nil {
			return nil, err
		}
		return &fUnary{Neg: t.Neg, Operand: d}, nil
	case *fBin:
		return diffBin(t, v)
	case *fCall:
		return diffCall(t, v)
	default:
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
}

func diffBin(b *fBin, v string) (fexpr, error) {
	switch b.Op {
	case opAdd, opSub:
		dl, err := diff(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(b.Right, v)
		if err != nil {
			return nil, err
		}
		return &fBin{Op: b.Op, Left: dl, Right: dr}, nil
	case opMul:
		dl, err := diff(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(b.Right, v)
		if err != nil {
			return nil, err
		}
		return &fBin{Op: opAdd,
			Left:  &fBin{Op: opMul, Left: dl, Right: b.Right},
			Right: &fBin{Op: opMul, Left: b.Left, Right: dr},
		}, nil
	case opDiv:
		dl, err := diff(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(b.Right, v)
		if err != nil {
			return nil, err
		}
		num := &fBin{Op: opSub,
			Left:  &fBin{Op: opMul, Left: dl, Right: b.Right},
			Right: &fBin{Op: opMul, Left: b.Left, Right: dr},
		}
		den := &fBin{Op: opMul, Left: b.Right, Right: b.Right}
		return &fBin{Op: opDiv, Left: num, Right: den}, nil
	case opPow:
		n, ok := b.Right.(*fNum)
		if !ok {
			return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
		}
		du, err := diff(b.Left, v)
		if err != nil {
			return nil, err
		}
		nMinus1 := &fNum{V: n.V.Sub(numeric.One)}
		power := &fBin{Op: opPow, Left: b.Left, Right: nMinus1}
		coeff := &fBin{Op: opMul, Left: n, Right: power}
		return &fBin{Op: opMul, Left: coeff, Right: du}, nil
	default:
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
}

func diffCall(c *fCall, v string) (fexpr, error) {
	if len(c.Args) != 1 {
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
	u := c.Args[0]
	du, err := diff(u, v)
	if err != nil {
		return nil, err
	}
	mul := func(a, b fexpr) fexpr { return &fBin{Op: opMul, Left: a, Right: b} }
	switch c.Name {
	case "sin":
		return mul(&fCall{Name: "cos", Args: []fexpr{u}}, du), nil
	case "cos":
		return mul(&fUnary{Neg: true, Operand: &fCall{Name: "sin", Args: []fexpr{u}}}, du), nil
	case "tan":
		sec2 := &fBin{Op: opDiv, Left: &fNum{V: numeric.One},
			Right: &fBin{Op: opPow, Left: &fCall{Name: "cos", Args: []fexpr{u}}, Right: &fNum{V: numeric.FromI64(2)}}}
		return mul(sec2, du), nil
	case "exp":
		return mul(&fCall{Name: "exp", Args: []fexpr{u}}, du), nil
	case "ln":
		return &fBin{Op: opDiv, Left: du, Right: u}, nil
	case "log10":
		denom := mul(u, &fCall{Name: "ln", Args: []fexpr{&fNum{V: numeric.FromI64(10)}}})
		return &fBin{Op: opDiv, Left: du, Right: denom}, nil
	case "log2":
		denom := mul(u, &fCall{Name: "ln", Args: []fexpr{&fNum{V: numeric.FromI64(2)}}})
		return &fBin{Op: opDiv, Left: du, Right: denom}, nil
	case "sqrt":
		denom := mul(&fNum{V: numeric.FromI64(2)}, &fCall{Name: "sqrt", Args: []fexpr{u}})
		return &fBin{Op: opDiv, Left: du, Right: denom}, nil
	default:
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
}

// monomial reports whether e is recognizably coeff * v^power (v not
// appearing in coeff), covering a bare constant (power 0), a bare
// variable (power 1), products of the variable with itself, and a
// Pow node with a constant integer exponent.
func monomial(e fexpr, v string) (coeff fexpr, power int64, ok bool) {
	switch t := e.(type) {
	case *fNum:
		return t, 0, true
	case *fVar:
		if t.Name == v {
			return &fNum{V: numeric.One}, 1, true
		}
		return t, 0, true
	case *fBin:
		if t.Op == opMul {
			lc, lp, lok := monomial(t.Left, v)
			rc, rp, rok := monomial(t.Right, v)
			if lok && rok {
				return &fBin{Op: opMul, Left: lc, Right: rc}, lp + rp, true
			}
			return nil, 0, false
		}
		if t.Op == opPow {
			if base, isVar := t.Left.(*fVar); isVar && base.Name == v {
				if n, isNum := t.Right.(*fNum); isNum && n.V.FracPart() == 0 {
					return &fNum{V: numeric.One}, n.V.IntPart(), true
				}
			}
			return nil, 0, false
		}
		return nil, 0, false
	default:
		return nil, 0, false
	}
}

func integrate(e fexpr, v string) (fexpr, error) {
	switch t := e.(type) {
	case *fUnary:
		inner, err := integrate(t.Operand, v)
		if err != nil {
			return nil, err
		}
		return &fUnary{Neg: t.Neg, Operand: inner}, nil
	case *fBin:
		if t.Op == opAdd || t.Op == opSub {
			li, err := integrate(t.Left, v)
			if err != nil {
				return nil, err
			}
			ri, err := integrate(t.Right, v)
			if err != nil {
				return nil, err
			}
			return &fBin{Op: t.Op, Left: li, Right: ri}, nil
		}
	case *fCall:
		if len(t.Args) == 1 {
			if arg, isVar := t.Args[0].(*fVar); isVar && arg.Name == v {
				switch t.Name {
				case "sin":
					return &fUnary{Neg: true, Operand: &fCall{Name: "cos", Args: t.Args}}, nil
				case "cos":
					return &fCall{Name: "sin", Args: t.Args}, nil
				case "exp":
					return &fCall{Name: "exp", Args: t.Args}, nil
				}
			}
		}
	}

	coeff, power, ok := monomial(e, v)
	if !ok {
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
	if power == -1 {
		return nil, errMsg("E_CALC_TRANSFORM_UNSUPPORTED")
	}
	newPower := &fNum{V: numeric.FromI64(power + 1)}
	term := &fBin{Op: opDiv,
		Left:  &fBin{Op: opMul, Left: coeff, Right: &fBin{Op: opPow, Left: &fVar{Name: v}, Right: newPower}},
		Right: newPower,
	}
	return term, nil
}
