package eval

import (
	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/value"
)

// This file implements internal/stdlib.CallCtx for *Context so
// built-ins can invoke lambdas, draw from the tick RNG, read input,
// and reach the resource bridge without internal/stdlib importing
// internal/eval (which would cycle back through Call dispatch).

// InvokeLambda evaluates l's body with its parameter bound to arg in a
// scope chained off the lambda's captured closure (spec §4.3).
func (c *Context) InvokeLambda(l value.Lambda, arg value.Value) (value.Value, error) {
	body, ok := l.Body.(ast.Expr)
	if !ok {
		return nil, NewMessageError("람다 본문이 올바르지 않습니다")
	}
	saved := c.top
	c.top = newScope(nil)
	for k, v := range l.Closure {
		c.top.declare(k, v, false)
	}
	c.PushScope()
	c.Declare(l.Param, arg, false)
	result, err := EvalExpr(c, body)
	c.top = saved
	return result, err
}

// RandomU64 draws the next raw generator output.
func (c *Context) RandomU64() uint64 { return c.RNG.NextU64() }

// RandomFixed64Raw draws a Fixed64 raw value in [0,1) (low 32 bits).
func (c *Context) RandomFixed64Raw() int64 { return c.RNG.NextFixed64Raw() }

// RandomIntRange draws an inclusive integer in [min, max].
func (c *Context) RandomIntRange(min, max int64) int64 { return c.RNG.NextIntRange(min, max) }

// RandomIndex draws an index in [0, n).
func (c *Context) RandomIndex(n int) int { return c.RNG.NextIndex(n) }

// ResourceExists delegates to the resource bridge.
func (c *Context) ResourceExists(name string) bool { return c.Bridge.Exists(name) }

// ResourceGet delegates to the resource bridge.
func (c *Context) ResourceGet(name string) (value.Value, bool) { return c.Bridge.Get(name) }

// ResourceSet delegates to the resource bridge.
func (c *Context) ResourceSet(name string, v value.Value) error { return c.Bridge.Set(name, v) }
