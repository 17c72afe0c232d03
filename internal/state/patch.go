package state

import (
	"encoding/json"
	"fmt"

	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// FaultKind distinguishes the two recoverable arithmetic faults (spec
// §7); the evaluator emits one of these as an ArithmeticFault signal
// rather than propagating the error past a statement boundary.
type FaultKind string

const (
	FaultDimensionMismatch FaultKind = "DimensionMismatch"
	FaultDivByZero         FaultKind = "DivByZero"
)

// Signal is the tagged payload of an EmitSignal patch op. Exactly one
// of the fields below is populated, selected by Kind.
type Signal struct {
	Kind FaultKind
	// Left/Right are populated for FaultDimensionMismatch.
	Left, Right numeric.UnitDim
}

// PatchOp is the append-only log entry produced by a tick (spec §3).
// It is a closed sum; callers switch on the concrete type.
type PatchOp interface {
	isPatchOp()
	// MarshalJSON produces the wire form specified in spec §6.
	json.Marshaler
}

type SetResourceFixed64 struct {
	Tag   string
	Value numeric.Fixed64
}

func (SetResourceFixed64) isPatchOp() {}

func (p SetResourceFixed64) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op    string `json:"op"`
		Tag   string `json:"tag"`
		Value string `json:"value"`
	}{"set_resource_fixed64", p.Tag, p.Value.String()})
}

// SetResourceValue carries a non-scalar container value, encoded via
// its canonical-json-like struct below.
type SetResourceValue struct {
	Tag   string
	Value value.Value
}

func (SetResourceValue) isPatchOp() {}

func (p SetResourceValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op    string `json:"op"`
		Tag   string `json:"tag"`
		Value string `json:"value"`
	}{"set_resource_value", p.Tag, value.Canon(p.Value)})
}

type SetResourceJson struct {
	Tag  string
	Json string
}

func (SetResourceJson) isPatchOp() {}

func (p SetResourceJson) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op   string `json:"op"`
		Tag  string `json:"tag"`
		Json string `json:"json"`
	}{"set_resource_json", p.Tag, p.Json})
}

type SetResourceHandle struct {
	Tag    string
	Handle string
}

func (SetResourceHandle) isPatchOp() {}

func (p SetResourceHandle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op     string `json:"op"`
		Tag    string `json:"tag"`
		Handle string `json:"handle"`
	}{"set_resource_handle", p.Tag, p.Handle})
}

type EmitSignal struct {
	Signal  Signal
	Targets []string
}

func (EmitSignal) isPatchOp() {}

func (p EmitSignal) MarshalJSON() ([]byte, error) {
	tag := "arith:" + string(p.Signal.Kind)
	return json.Marshal(struct {
		Op      string   `json:"op"`
		Signal  string   `json:"signal"`
		Targets []string `json:"targets"`
	}{"emit_signal", tag, p.Targets})
}

type GuardViolation struct {
	Entity int64
	RuleID string
}

func (GuardViolation) isPatchOp() {}

func (p GuardViolation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op     string `json:"op"`
		Entity int64  `json:"entity"`
		RuleID string `json:"rule_id"`
	}{"guard_violation", p.Entity, p.RuleID})
}

// Patch is the ordered append-only op log accumulated over one tick,
// plus an origin label copied onto the result the driver returns.
type Patch struct {
	Ops    []PatchOp
	Origin string
}

// Append adds op to the end of the log.
func (p *Patch) Append(op PatchOp) {
	p.Ops = append(p.Ops, op)
}

// Clear discards all accumulated ops; used by Guard (spec §4.4) when a
// guard predicate rejects the tick.
func (p *Patch) Clear() {
	p.Ops = p.Ops[:0]
}

// ArithmeticFault builds the EmitSignal patch op for a recovered
// UnitMismatch or DivisionByZero fault (spec §7), targeting the given
// var/resource tag.
func ArithmeticFault(kind FaultKind, target string, left, right numeric.UnitDim) PatchOp {
	return EmitSignal{
		Signal:  Signal{Kind: kind, Left: left, Right: right},
		Targets: []string{target},
	}
}

// String satisfies fmt.Stringer for readable test failure output.
func (p Signal) String() string {
	if p.Kind == FaultDimensionMismatch {
		return fmt.Sprintf("%s{%s,%s}", p.Kind, p.Left.String(), p.Right.String())
	}
	return string(p.Kind)
}
