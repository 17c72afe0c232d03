// Package state implements the world model (spec §3 State) and the
// resource bridge that lifts it into language Values (spec §4.6).
package state

import (
	"sort"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// UnitTag maps a resource key to the dimension it must hold. A key with
// no entry here carries no unit constraint.
type UnitTag struct {
	Symbol string
	Dim    numeric.UnitDim
}

// backingStore is one of the "world typed stores" spec §4.6 names:
// Value, Fixed64, handle, or json-string. Exactly one field is
// populated, selected by kind.
type backingKind int

const (
	backingValue backingKind = iota
	backingFixed64
	backingHandle
	backingJSON
)

type backingEntry struct {
	kind    backingKind
	value   value.Value
	fixed   numeric.Fixed64
	handle  string
	jsonStr string
}

// State is the mapping resources: CanonicalKey -> Value, plus a
// fall-back defaults map and the per-key unit tags declared by the
// host. It is owned by the tick driver and created/destroyed per run.
type State struct {
	resources map[string]backingEntry
	defaults  map[string]value.Value
	unitTags  map[string]UnitTag
}

// New builds an empty State with the given defaults and unit tags.
// Both maps are copied shallowly; callers retain ownership of nothing.
func New(defaults map[string]value.Value, unitTags map[string]UnitTag) *State {
	s := &State{
		resources: make(map[string]backingEntry),
		defaults:  make(map[string]value.Value, len(defaults)),
		unitTags:  make(map[string]UnitTag, len(unitTags)),
	}
	for k, v := range defaults {
		s.defaults[k] = v
	}
	for k, t := range unitTags {
		s.unitTags[k] = t
	}
	return s
}

// UnitTagFor reports the declared unit tag for name, if any.
func (s *State) UnitTagFor(name string) (UnitTag, bool) {
	t, ok := s.unitTags[name]
	return t, ok
}

// PutValue installs a non-scalar-container backing value directly,
// bypassing the patch op log. Used by the tick driver to seed state
// before a run and by tests to assert on post-tick state.
func (s *State) PutValue(name string, v value.Value) {
	s.resources[name] = backingEntry{kind: backingValue, value: v}
}

// PutFixed64 installs a raw Fixed64 backing value.
func (s *State) PutFixed64(name string, f numeric.Fixed64) {
	s.resources[name] = backingEntry{kind: backingFixed64, fixed: f}
}

// PutHandle installs a resource-handle backing value.
func (s *State) PutHandle(name string, hex string) {
	s.resources[name] = backingEntry{kind: backingHandle, handle: hex}
}

// PutJSON installs a json-string backing value (spec §4.6: decodes to
// Bool if the literal is 참/거짓, else to String).
func (s *State) PutJSON(name string, text string) {
	s.resources[name] = backingEntry{kind: backingJSON, jsonStr: text}
}

// hasBacking reports whether name has any backing entry.
func (s *State) hasBacking(name string) bool {
	_, ok := s.resources[name]
	return ok
}

// loadBacking lifts a backing entry to a Value, applying the decode
// rules of spec §4.6 (json literal decode, unit-tag lift for Fixed64).
func (s *State) loadBacking(name string) (value.Value, bool) {
	e, ok := s.resources[name]
	if !ok {
		return nil, false
	}
	switch e.kind {
	case backingValue:
		return e.value, true
	case backingHandle:
		return value.Handle{Hex: e.handle}, true
	case backingJSON:
		switch e.jsonStr {
		case "참":
			return value.Bool(true), true
		case "거짓":
			return value.Bool(false), true
		default:
			return value.Str(e.jsonStr), true
		}
	case backingFixed64:
		if tag, hasUnit := s.unitTags[name]; hasUnit {
			uv := numeric.NewUnitValue(e.fixed, tag.Dim)
			return value.Unit{V: uv}, true
		}
		return value.Num{V: e.fixed}, true
	default:
		return nil, false
	}
}

// Keys returns all resource keys present in the backing store, sorted.
func (s *State) Keys() []string {
	out := make([]string, 0, len(s.resources))
	for k := range s.resources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entry is a (key, value) pair used for canonical encoding.
type Entry struct {
	Key   string
	Value value.Value
}

// Snapshot returns backing resources as sorted (key, lifted-value)
// pairs suitable for canonical encoding by internal/hashing.
func (s *State) Snapshot() []Entry {
	keys := s.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, ok := s.loadBacking(k)
		if !ok {
			continue
		}
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}
