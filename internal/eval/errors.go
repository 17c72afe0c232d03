package eval

import (
	"fmt"

	"github.com/tongosu/ddonilang/internal/numeric"
)

// EvalError is the closed sum spec §7 names: Message | UnitMismatch |
// DivisionByZero. Arithmetic variants are recovered locally at a
// statement boundary (DeclBlock/Mutate/Expr-statement); Message
// propagates as a fatal tick-level error.
type EvalError interface {
	error
	isEvalError()
}

// MessageError is a fatal diagnostic carrying a fixed Korean or
// E_RUNTIME_* phrasing.
type MessageError struct {
	Text string
}

func (e *MessageError) Error() string { return e.Text }
func (*MessageError) isEvalError()    {}

// NewMessageError builds a MessageError from a format string, mirroring
// fmt.Errorf but without %w wrapping (EvalError is a closed sum, not a
// wrapped chain).
func NewMessageError(format string, args ...any) *MessageError {
	return &MessageError{Text: fmt.Sprintf(format, args...)}
}

// TypeMismatchError builds the fixed diagnostic format spec §7 mandates
// for argument type violations.
func TypeMismatchError(pin, expected, actual string) *MessageError {
	return NewMessageError("[E_RUNTIME_TYPE_MISMATCH] 핀=%s 기대=%s 실제=%s", pin, expected, actual)
}

// UnitMismatchError wraps a dimension mismatch raised mid-expression;
// DeclBlock/Mutate/Expr-statement recover it into an ArithmeticFault
// signal rather than letting it propagate.
type UnitMismatchError struct {
	Left, Right numeric.UnitDim
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch: %s vs %s", e.Left.String(), e.Right.String())
}
func (*UnitMismatchError) isEvalError() {}

// DivisionByZeroError is the other recoverable arithmetic fault.
type DivisionByZeroError struct{}

func (*DivisionByZeroError) Error() string { return "division by zero" }
func (*DivisionByZeroError) isEvalError()  {}

// asArithFault reports whether err is a recoverable arithmetic fault
// (UnitMismatch or DivisionByZero, including ones wrapped from
// internal/numeric's *numeric.ErrUnitMismatch / numeric.ErrDivisionByZero),
// returning the patch-op fault kind and the operand dims when relevant.
func asArithFault(err error) (kind faultKindLike, ok bool) {
	switch e := err.(type) {
	case *UnitMismatchError:
		return faultKindLike{isUnitMismatch: true, left: e.Left, right: e.Right}, true
	case *DivisionByZeroError:
		return faultKindLike{isUnitMismatch: false}, true
	case *numeric.ErrUnitMismatch:
		return faultKindLike{isUnitMismatch: true, left: e.Left, right: e.Right}, true
	default:
		if err == numeric.ErrDivisionByZero {
			return faultKindLike{isUnitMismatch: false}, true
		}
		return faultKindLike{}, false
	}
}

type faultKindLike struct {
	isUnitMismatch bool
	left, right    numeric.UnitDim
}
