package formula

import "github.com/tongosu/ddonilang/internal/numeric"

// simplify applies the fixed algebraic identities spec §4.8 names
// (0+x, x+0, 0*x, 1*x, x/1, x^0, x^1) plus constant folding for +, -,
// * over two numeric literals. It is a best-effort local rewrite, not
// a full computer-algebra normalizer.
func simplify(e fexpr) fexpr {
	switch t := e.(type) {
	case *fUnary:
		operand := simplify(t.Operand)
		if !t.Neg {
			return operand
		}
		if n, ok := operand.(*fNum); ok {
			return &fNum{V: n.V.Neg()}
		}
		return &fUnary{Neg: true, Operand: operand}
	case *fBin:
		l := simplify(t.Left)
		r := simplify(t.Right)
		ln, lok := l.(*fNum)
		rn, rok := r.(*fNum)
		switch t.Op {
		case opAdd:
			if lok && isZero(ln) {
				return r
			}
			if rok && isZero(rn) {
				return l
			}
			if lok && rok {
				return &fNum{V: ln.V.Add(rn.V)}
			}
		case opSub:
			if rok && isZero(rn) {
				return l
			}
			if lok && rok {
				return &fNum{V: ln.V.Sub(rn.V)}
			}
		case opMul:
			if (lok && isZero(ln)) || (rok && isZero(rn)) {
				return &fNum{V: numeric.Zero}
			}
			if lok && isOne(ln) {
				return r
			}
			if rok && isOne(rn) {
				return l
			}
			if lok && rok {
				return &fNum{V: ln.V.Mul(rn.V)}
			}
		case opDiv:
			if rok && isOne(rn) {
				return l
			}
		case opPow:
			if rok && isZero(rn) {
				return &fNum{V: numeric.One}
			}
			if rok && isOne(rn) {
				return l
			}
		}
		return &fBin{Op: t.Op, Left: l, Right: r}
	case *fCall:
		args := make([]fexpr, len(t.Args))
		for i, a := range t.Args {
			args[i] = simplify(a)
		}
		return &fCall{Name: t.Name, Args: args}
	default:
		return e
	}
}

func isZero(n *fNum) bool { return n.V.IsZero() }
func isOne(n *fNum) bool  { return n.V.Equal(numeric.One) }
