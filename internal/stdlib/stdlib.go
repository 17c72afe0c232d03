// Package stdlib implements the built-in function catalog of spec
// §4.5. Built-ins are representative of each named family rather than
// exhaustive of every name the reference lists ("representative
// groups (exhaustive families, not exhaustive names)").
package stdlib

import "github.com/tongosu/ddonilang/internal/value"

// CallCtx is the narrow surface a built-in needs from the evaluator.
// internal/eval's *Context implements this; internal/stdlib never
// imports internal/eval, which keeps Call dispatch (eval -> stdlib ->
// callback into eval via this interface) acyclic.
type CallCtx interface {
	InvokeLambda(l value.Lambda, arg value.Value) (value.Value, error)
	RandomU64() uint64
	RandomFixed64Raw() int64
	RandomIntRange(min, max int64) int64
	RandomIndex(n int) int
	IsPressed(key string) bool
	JustPressed(key string) bool
	ResourceExists(name string) bool
	ResourceGet(name string) (value.Value, bool)
	ResourceSet(name string, v value.Value) error
}

// Func is a built-in's signature: fixed arity and argument contract
// are enforced by the function itself (spec §4.5).
type Func func(ctx CallCtx, args []value.Value) (value.Value, error)

var registry = map[string]Func{}

func register(name string, fn Func) {
	registry[name] = fn
}

// Lookup returns the built-in registered under the already-canonical
// name, or ok=false if name is not a built-in (the caller then tries
// user-defined seed resolution).
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func init() {
	registerArithmetic()
	registerLogic()
	registerContainers()
	registerStrings()
	registerListAlgorithms()
	registerNumeric()
	registerRanges()
	registerAggregation()
	registerRandom()
	registerInput()
	registerMisc()
	registerTemplateFormula()
}
