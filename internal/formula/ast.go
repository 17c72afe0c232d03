package formula

import "github.com/tongosu/ddonilang/internal/numeric"

// fexpr is a formula expression node. The set is deliberately small:
// formulas are arithmetic expressions over named variables, not the
// full statement language internal/ast describes.
type fexpr interface{ fexprNode() }

type fNum struct{ V numeric.Fixed64 }

func (*fNum) fexprNode() {}

type fVar struct{ Name string }

func (*fVar) fexprNode() {}

type binOp byte

const (
	opAdd binOp = '+'
	opSub binOp = '-'
	opMul binOp = '*'
	opDiv binOp = '/'
	opMod binOp = '%'
	opPow binOp = '^'
)

type fBin struct {
	Op          binOp
	Left, Right fexpr
}

func (*fBin) fexprNode() {}

type fUnary struct {
	Neg     bool
	Operand fexpr
}

func (*fUnary) fexprNode() {}

type fCall struct {
	Name string
	Args []fexpr
}

func (*fCall) fexprNode() {}

// fAssign is the top-level "ident = expr" form; never nested.
type fAssign struct {
	Name string
	Expr fexpr
}

func (*fAssign) fexprNode() {}
