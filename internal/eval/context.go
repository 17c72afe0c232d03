package eval

import (
	"github.com/tongosu/ddonilang/internal/diag"
	"github.com/tongosu/ddonilang/internal/hashing"
	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
)

// AssetResolver resolves an asset path (the operand of a SuffixAsset
// expression) to a content-addressed ResourceHandle. The Gate-0 asset
// registry that validates and ships real asset bytes lives outside
// this package; DefaultAssetResolver stands in with a pure hash of the
// path so Suffix evaluation has a concrete, deterministic answer
// before that registry exists.
type AssetResolver interface {
	Resolve(path string) (value.Handle, error)
}

// DefaultAssetResolver hashes the asset path itself into a handle.
type DefaultAssetResolver struct{}

func (DefaultAssetResolver) Resolve(path string) (value.Handle, error) {
	return value.Handle{Hex: hashing.Blake3Hex([]byte(path))}, nil
}

// scope is one lexical level of local bindings. Mutate searches the
// chain top-down; DeclBlock always declares into the innermost scope.
type scope struct {
	vars   map[string]value.Value
	consts map[string]bool
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]value.Value), consts: make(map[string]bool), parent: parent}
}

func (s *scope) lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) declare(name string, v value.Value, isConst bool) {
	s.vars[name] = v
	if isConst {
		s.consts[name] = true
	}
}

// isConst reports whether name is declared in the chain and, if so,
// whether that declaration is const.
func (s *scope) isConst(name string) (declared bool, isConst bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, present := cur.vars[name]; present {
			return true, cur.consts[name]
		}
	}
	return false, false
}

// assign sets name in the nearest scope that already declares it,
// returning ok=false if no scope declares it, or an error if that
// scope marked it const.
func (s *scope) assign(name string, v value.Value) (ok bool, err error) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, present := cur.vars[name]; present {
			if cur.consts[name] {
				return true, NewMessageError("재대입할 수 없습니다")
			}
			cur.vars[name] = v
			return true, nil
		}
	}
	return false, nil
}

// Context is the per-tick evaluation context (spec §4.11 EvalContext):
// local scope chain, resource bridge, RNG state, input snapshot, flow
// stack for pipes, guard/abort flags, and the accumulating patch.
type Context struct {
	top     *scope
	Bridge  *state.Bridge
	Patch   *state.Patch
	RNG     *RNG
	Input   InputState
	LastKey string

	flowStack []*flowSlot

	// Seeds holds the program's user-defined seeds (named one-parameter
	// lambdas), looked up by Call dispatch once the built-in catalog
	// misses (spec §4.3).
	Seeds Seeds

	// Assets resolves SuffixAsset expressions; defaults to
	// DefaultAssetResolver when left unset by the caller.
	Assets AssetResolver

	GuardRejected bool
	Aborted       bool

	// Diagnostics accumulates contract-violation (and other reportable)
	// events for this tick; the tick driver returns it as
	// Result.Diagnostics after evaluation (spec §6/§7).
	Diagnostics []diag.Event

	// exprSeq backs NextExprID, a per-evaluation counter. The evaluator's
	// own contract/guard fault identifiers do not use it: they take the
	// ID field of the ast.Contract/ast.Guard node.
	exprSeq int
}

// InputState is the per-tick key/pointer snapshot built-ins read
// (spec §4.6).
type InputState struct {
	Current  uint64
	Previous uint64
}

type flowSlot struct {
	value value.Value
	set   bool
}

// NewContext builds a fresh per-tick Context over the given bridge,
// patch log, RNG seed, and input snapshot.
func NewContext(b *state.Bridge, p *state.Patch, rngSeed uint64, input InputState, lastKey string) *Context {
	return &Context{
		top:     newScope(nil),
		Bridge:  b,
		Patch:   p,
		RNG:     NewRNG(rngSeed),
		Input:   input,
		LastKey: lastKey,
		Seeds:   Seeds{},
		Assets:  DefaultAssetResolver{},
	}
}

// SnapshotLocals flattens the current scope chain into a single map,
// innermost bindings winning, for a Lambda literal's closure capture
// (spec §4.3).
func (c *Context) SnapshotLocals() map[string]value.Value {
	out := make(map[string]value.Value)
	var chain []*scope
	for s := c.top; s != nil; s = s.parent {
		chain = append(chain, s)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].vars {
			out[k] = v
		}
	}
	return out
}

// PushScope enters a new lexical scope (block bodies, loop bodies).
func (c *Context) PushScope() {
	c.top = newScope(c.top)
}

// PopScope exits the innermost lexical scope.
func (c *Context) PopScope() {
	if c.top.parent != nil {
		c.top = c.top.parent
	}
}

// LookupLocal resolves a name through the local scope chain only (step
// 1 of spec §4.3's variable resolution order).
func (c *Context) LookupLocal(name string) (value.Value, bool) {
	return c.top.lookup(name)
}

// Declare binds name in the innermost scope.
func (c *Context) Declare(name string, v value.Value, isConst bool) {
	c.top.declare(name, v, isConst)
}

// IsConstLocal reports whether name is a declared local and, if so,
// whether it was declared const.
func (c *Context) IsConstLocal(name string) (declared, isConst bool) {
	return c.top.isConst(name)
}

// AssignLocal attempts to assign an existing local binding.
func (c *Context) AssignLocal(name string, v value.Value) (ok bool, err error) {
	return c.top.assign(name, v)
}

// EmitDiag appends a diagnostic event for later draining by the tick
// driver.
func (c *Context) EmitDiag(e diag.Event) {
	c.Diagnostics = append(c.Diagnostics, e)
}

// NextExprID allocates a fresh per-evaluation sequence number.
func (c *Context) NextExprID() int {
	c.exprSeq++
	return c.exprSeq
}

// PushFlow enters a new pipe context.
func (c *Context) PushFlow() {
	c.flowStack = append(c.flowStack, &flowSlot{})
}

// PopFlow exits the current pipe context, returning its final value
// (None if never written).
func (c *Context) PopFlow() value.Value {
	n := len(c.flowStack)
	top := c.flowStack[n-1]
	c.flowStack = c.flowStack[:n-1]
	if !top.set {
		return value.None{}
	}
	return top.value
}

// WriteFlow writes v into the current pipe's flow slot, skipping None
// per spec §4.3 ("each stage's result, if not None, replaces the flow
// slot").
func (c *Context) WriteFlow(v value.Value) {
	if len(c.flowStack) == 0 {
		return
	}
	if _, isNone := v.(value.None); isNone {
		return
	}
	top := c.flowStack[len(c.flowStack)-1]
	top.value = v
	top.set = true
}

// ReadFlow reads the current pipe's flow slot (flow-value expression).
func (c *Context) ReadFlow() (value.Value, error) {
	if len(c.flowStack) == 0 {
		return nil, NewMessageError("파이프 밖에서는 흐름값을 사용할 수 없습니다")
	}
	top := c.flowStack[len(c.flowStack)-1]
	if !top.set {
		return value.None{}, nil
	}
	return top.value, nil
}
