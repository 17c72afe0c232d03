package stdlib

import (
	"fmt"

	"github.com/tongosu/ddonilang/internal/value"
)

// errMsg builds a fixed-phrasing built-in error (spec §4.5: arity
// violations are EvalError::Message with a fixed Korean phrasing).
func errMsg(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// requireArity enforces a fixed argument count.
func requireArity(name string, args []value.Value, want int) error {
	if len(args) != want {
		return errMsg("%s: 인자 개수가 올바르지 않습니다 (기대=%d 실제=%d)", name, want, len(args))
	}
	return nil
}

// requireArityRange enforces an inclusive argument-count range.
func requireArityRange(name string, args []value.Value, min, max int) error {
	if len(args) < min || len(args) > max {
		return errMsg("%s: 인자 개수가 올바르지 않습니다 (기대=%d..%d 실제=%d)", name, min, max, len(args))
	}
	return nil
}

// typeMismatch builds the §7 fixed diagnostic format for built-in
// argument type violations.
func typeMismatch(pin, expected, actual string) error {
	return fmt.Errorf("[E_RUNTIME_TYPE_MISMATCH] 핀=%s 기대=%s 실제=%s", pin, expected, actual)
}
