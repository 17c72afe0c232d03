package state

import (
	"fmt"
	"sort"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// Bridge lifts a State into language Values and records mutations as
// patch ops (spec §4.6). It owns the tick-scoped mutation cache: the
// first successful read of any resource is memoized here, and every
// write goes through it before (optionally) reaching the backing
// store via a later ApplyPatch call.
type Bridge struct {
	state *State
	cache map[string]value.Value
	patch *Patch

	// dirty tracks keys written via Set during this tick, so a
	// rejecting Guard can roll them back to their pre-tick value
	// (spec §8 S2: "remains unset (or defaults)"), not merely stop
	// patch ops from being emitted for them.
	dirty map[string]bool
}

// NewBridge wires a Bridge to the given state and the patch log that
// accumulates this tick's mutations.
func NewBridge(s *State, p *Patch) *Bridge {
	return &Bridge{state: s, cache: make(map[string]value.Value), patch: p, dirty: make(map[string]bool)}
}

// Exists reports whether name resolves via the mutation cache, the
// backing world store, or the defaults map.
func (b *Bridge) Exists(name string) bool {
	if _, ok := b.cache[name]; ok {
		return true
	}
	if b.state.hasBacking(name) {
		return true
	}
	_, ok := b.state.defaults[name]
	return ok
}

// Get probes mutation cache -> world typed stores -> defaults,
// memoizing the first hit into the mutation cache.
func (b *Bridge) Get(name string) (value.Value, bool) {
	if v, ok := b.cache[name]; ok {
		return v, true
	}
	if v, ok := b.state.loadBacking(name); ok {
		b.cache[name] = v
		return v, true
	}
	if v, ok := b.state.defaults[name]; ok {
		b.cache[name] = v
		return v, true
	}
	return nil, false
}

// errUnsettable reports the fixed Korean error for values that cannot
// be stored as a resource (spec §4.6: None, Formula, Template, Lambda).
func errUnsettable(kind value.Kind) error {
	return fmt.Errorf("%s 값은 자원으로 저장할 수 없습니다", kind.String())
}

// Install seeds the mutation cache directly, bypassing the patch log.
// Used by the tick driver to install the reserved "입력키" resource
// before evaluation begins (spec §4.11 step 2).
func (b *Bridge) Install(name string, v value.Value) {
	b.cache[name] = v
}

// Snapshot returns the mutation cache as sorted (key, value) pairs —
// the externally visible resource view a tick returns (spec §4.11
// step 5: "resources = mutation cache").
func (b *Bridge) Snapshot() []Entry {
	keys := make([]string, 0, len(b.cache))
	for k := range b.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: b.cache[k]})
	}
	return out
}

// Set appends the patch op matching value's type (spec §4.6 type-to-op
// mapping) and updates the mutation cache so a subsequent Get in the
// same tick observes the write.
func (b *Bridge) Set(name string, v value.Value) error {
	switch t := v.(type) {
	case value.Num:
		b.cache[name] = v
		b.dirty[name] = true
		b.patch.Append(SetResourceFixed64{Tag: name, Value: t.V})
		if tag, hasUnit := b.state.UnitTagFor(name); hasUnit {
			b.cache[name] = value.Unit{V: numeric.NewUnitValue(t.V, tag.Dim)}
		}
		return nil
	case value.Unit:
		if tag, hasUnit := b.state.UnitTagFor(name); hasUnit {
			if !t.V.Dim.Equal(tag.Dim) {
				return &numeric.ErrUnitMismatch{Left: t.V.Dim, Right: tag.Dim}
			}
			b.cache[name] = v
			b.dirty[name] = true
			b.patch.Append(SetResourceFixed64{Tag: name, Value: t.V.Value})
			return nil
		}
		if t.V.Dim.IsDimensionless() {
			b.cache[name] = value.Num{V: t.V.Value}
			b.dirty[name] = true
			b.patch.Append(SetResourceFixed64{Tag: name, Value: t.V.Value})
			return nil
		}
		return fmt.Errorf("단위가 선언되지 않은 자원에 차원값을 저장할 수 없습니다: %s", name)
	case value.Str:
		b.cache[name] = v
		b.dirty[name] = true
		b.patch.Append(SetResourceJson{Tag: name, Json: string(t)})
		return nil
	case value.Bool:
		json := "거짓"
		if bool(t) {
			json = "참"
		}
		b.cache[name] = v
		b.dirty[name] = true
		b.patch.Append(SetResourceJson{Tag: name, Json: json})
		return nil
	case value.Handle:
		b.cache[name] = v
		b.dirty[name] = true
		b.patch.Append(SetResourceHandle{Tag: name, Handle: t.Hex})
		return nil
	case value.List, value.Set, value.Map, *value.Pack:
		b.cache[name] = v
		b.dirty[name] = true
		b.patch.Append(SetResourceValue{Tag: name, Value: v})
		return nil
	default:
		return errUnsettable(v.Kind())
	}
}

// Rollback undoes every Set made so far this tick: each dirty key is
// restored to its pre-tick value (reloaded from the backing store or
// defaults), or removed from the cache entirely if it had neither
// (spec §8 S2: a rejected guard leaves the resource "unset (or
// defaults)", not holding an earlier in-tick write). Keys installed
// via Install are untouched — they are not tick mutations.
func (b *Bridge) Rollback() {
	for name := range b.dirty {
		delete(b.cache, name)
		if v, ok := b.state.loadBacking(name); ok {
			b.cache[name] = v
		} else if v, ok := b.state.defaults[name]; ok {
			b.cache[name] = v
		}
	}
	b.dirty = make(map[string]bool)
}
