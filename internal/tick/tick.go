// Package tick implements the per-tick driver (spec §4.11): it builds
// an evaluation context over a world state and one tick's input
// snapshot, resolves and evaluates the program's update seed, and
// returns the accumulated patch plus the now-visible resource view.
package tick

import (
	"fmt"

	"github.com/tongosu/ddonilang/internal/diag"
	"github.com/tongosu/ddonilang/internal/eval"
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
)

// Program is the parsed program's seed table: every top-level named
// definition ("<name> = { ... }"), keyed by canonical seed name. The
// surface parser that builds this from source text is out of scope;
// callers construct it directly from an already-built internal/ast
// tree (each value a *value.Lambda-shaped seed whose Body is an
// *ast.Thunk).
type Program struct {
	Seeds eval.Seeds
}

// Input is one tick's input snapshot (spec §4.6). Network/injection
// event lists are part of the snapshot contract but have no consumer
// in this core (Open-site gates all impure sources; no built-in reads
// them yet), so they are not modeled here.
type Input struct {
	TickID       uint64
	Dt           numeric.Fixed64
	KeysPressed  uint64
	PreviousKeys uint64
	LastKeyName  string
	PointerX     int32
	PointerY     int32
	RNGSeed      uint64
}

// Result is the tick driver's output (spec §4.11 step 5).
type Result struct {
	Patch       *state.Patch
	Resources   []state.Entry
	Diagnostics []diag.Event
}

// Canonical update-seed name and its documented fallback alias (spec
// §4.11: "name of the update seed, with a default-fallback alias").
// spec.md's own example programs write their tick entry point as
// "매틱:움직씨" (a 매틱 ["per tick"] seed also reachable under its verb
// form 움직씨 ["mover"]); this expansion resolves the Open Question of
// which literal names those are by picking this pair as the default,
// recorded in DESIGN.md.
const (
	DefaultSeedName  = "매틱"
	FallbackSeedName = "움직씨"
)

// ResolveSeed picks the update seed by exact name when one is given,
// else tries the default name and its fallback alias in order.
func ResolveSeed(prog Program, name string) (value.Lambda, error) {
	if name != "" {
		if s, ok := prog.Seeds[name]; ok {
			return s, nil
		}
		return value.Lambda{}, fmt.Errorf("갱신 씨앗을 찾을 수 없습니다: %s", name)
	}
	if s, ok := prog.Seeds[DefaultSeedName]; ok {
		return s, nil
	}
	if s, ok := prog.Seeds[FallbackSeedName]; ok {
		return s, nil
	}
	return value.Lambda{}, fmt.Errorf("갱신 씨앗을 찾을 수 없습니다: %s 또는 %s", DefaultSeedName, FallbackSeedName)
}

// Run executes one tick against st (spec §4.11 steps 1-5). seedName
// selects the update seed explicitly; pass "" to use the documented
// default/fallback pair. On any unhandled evaluator error, Run returns
// it and no Result — the caller's own run loop decides whether that
// is fatal to the session.
func Run(prog Program, st *state.State, in Input, seedName string) (Result, error) {
	seed, err := ResolveSeed(prog, seedName)
	if err != nil {
		return Result{}, err
	}

	patch := &state.Patch{}
	bridge := state.NewBridge(st, patch)

	c := eval.NewContext(bridge, patch, in.RNGSeed, eval.InputState{
		Current:  in.KeysPressed,
		Previous: in.PreviousKeys,
	}, in.LastKeyName)
	c.Seeds = prog.Seeds

	bridge.Install("입력키", value.Str(in.LastKeyName))

	if _, err := c.InvokeLambda(seed, value.None{}); err != nil {
		return Result{}, err
	}

	return Result{
		Patch:       patch,
		Resources:   bridge.Snapshot(),
		Diagnostics: c.Diagnostics,
	}, nil
}
