// Package opensite implements the Open-site runtime (spec §4.10): the
// deny-by-default gate every impure operation (clock, file-read,
// random, net, ffi) passes through, plus its Record/Replay log. No
// teacher or pack example models this concern directly; the package
// follows internal/eval's doc-comment density and internal/state's
// typed-sum error style rather than a borrowed implementation.
package opensite

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// OpenKind enumerates the impure site categories spec §4.10 names.
type OpenKind string

const (
	KindClock  OpenKind = "clock"
	KindFile   OpenKind = "file"
	KindRandom OpenKind = "random"
	KindNet    OpenKind = "net"
	KindFFI    OpenKind = "ffi"
)

// Mode is the per-kind Open-site mode (spec §4.10).
type Mode string

const (
	Deny   Mode = "deny"
	Record Mode = "record"
	Replay Mode = "replay"
)

// Age is the program's declared AGE tier (spec §4.10: "modes other
// than Deny require the program's declared AGE >= AGE2 unless an
// explicit override is present"). The spec names AGE2 as the
// threshold without enumerating the full tier scale; this expansion
// fixes AGE0..AGE3 as the concrete scale, recorded as an Open Question
// resolution in DESIGN.md.
type Age int

const (
	AGE0 Age = iota
	AGE1
	AGE2
	AGE3
)

// Policy is the parsed open.policy.toml document: a default mode plus
// explicit per-kind allow/deny lists.
type Policy struct {
	Default Mode       `toml:"default"`
	Allow   []OpenKind `toml:"allow"`
	Deny    []OpenKind `toml:"deny"`
}

// LoadPolicy reads and parses an open.policy.toml file.
func LoadPolicy(path string) (Policy, error) {
	var p Policy
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Policy{}, fmt.Errorf("open.policy.toml 읽기 실패: %w", err)
	}
	if p.Default == "" {
		p.Default = Deny
	}
	return p, nil
}

func contains(ks []OpenKind, k OpenKind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

// Gate resolves, per OpenKind, the effective mode from a Policy
// intersected with a program's own `#열림허용(kind, ...)` source
// directives (spec §4.10: "both ... must agree — intersection
// conflicts are errors").
type Gate struct {
	policy        Policy
	sourceAllowed map[OpenKind]bool
	age           Age
	ageOverride   bool
	modes         map[OpenKind]Mode
	log           *Log
}

// NewGate builds a Gate from policy, the program's declared source
// allow-directive kinds (`#열림허용(kind, ...)`), its declared AGE, and
// whether it carries an explicit AGE-gate override.
//
// Per kind, the policy resolves to a "policy mode": Deny if the kind
// is in policy.Deny; else Record (or policy.Default when that is
// Record/Replay) if the kind is in policy.Allow; else policy.Default.
// A kind only ever runs non-Deny when the source ALSO allows it (spec
// §4.10's "both ... must agree"); a kind the policy explicitly denies
// but the source explicitly allows is a hard conflict and an error —
// that is the one disagreement the spec calls out ("intersection
// conflicts are errors"). A kind the policy allows but the source
// never declares is not a conflict: the permission simply goes
// unused, since no `#열림허용` site for it exists. The program's AGE
// further demotes any non-Deny resolution to Deny when AGE < AGE2 and
// no override is present.
func NewGate(policy Policy, sourceAllow []OpenKind, age Age, ageOverride bool, log *Log) (*Gate, error) {
	if policy.Default == "" {
		policy.Default = Deny
	}
	g := &Gate{
		policy:        policy,
		sourceAllowed: make(map[OpenKind]bool, len(sourceAllow)),
		age:           age,
		ageOverride:   ageOverride,
		modes:         make(map[OpenKind]Mode),
		log:           log,
	}
	for _, k := range sourceAllow {
		g.sourceAllowed[k] = true
	}
	allKinds := []OpenKind{KindClock, KindFile, KindRandom, KindNet, KindFFI}
	for _, k := range allKinds {
		policyAllows := contains(policy.Allow, k)
		policyDenies := contains(policy.Deny, k)
		sourceAllows := g.sourceAllowed[k]

		if policyDenies && sourceAllows {
			return nil, fmt.Errorf("OPEN_POLICY_CONFLICT: %s는 소스에서 허용되었지만 정책 파일이 거부합니다", k)
		}

		policyMode := policy.Default
		switch {
		case policyDenies:
			policyMode = Deny
		case policyAllows && policyMode == Deny:
			policyMode = Record
		}

		mode := Deny
		if policyMode != Deny && sourceAllows {
			mode = policyMode
		}
		if mode != Deny && age < AGE2 && !ageOverride {
			mode = Deny
		}
		g.modes[k] = mode
	}
	return g, nil
}

// ModeFor reports the resolved mode for kind.
func (g *Gate) ModeFor(kind OpenKind) Mode {
	m, ok := g.modes[kind]
	if !ok {
		return Deny
	}
	return m
}

// Call runs one impure call through the gate (spec §4.10). effect
// performs the real impure work and returns a value whose canonical
// encoding becomes the logged result_hash; resultBytes must be a
// deterministic encoding of whatever effect produces (the caller picks
// the encoding — typically value.Canon of the resulting Value).
//
// nonce is supplied by the caller (the tick's RNG draw, for
// determinism across replay) rather than generated here.
func (g *Gate) Call(kind OpenKind, siteID, key string, nonce uint64, effect func() ([]byte, error)) ([]byte, error) {
	switch g.ModeFor(kind) {
	case Deny:
		return nil, &ErrOpenDenied{Kind: kind}
	case Record:
		result, err := effect()
		if err != nil {
			return nil, &ErrOpenIO{Kind: kind, Cause: err}
		}
		g.log.append(kind, siteID, key, result, nonce)
		return result, nil
	case Replay:
		line, ok := g.log.find(kind, siteID, key)
		if !ok {
			return nil, &ErrOpenReplayMissing{Kind: kind, SiteID: siteID, Key: key}
		}
		if err := g.log.verifyLine(line); err != nil {
			return nil, &ErrOpenLogTamper{Kind: kind, SiteID: siteID, Key: key}
		}
		return line.Result, nil
	default:
		return nil, &ErrOpenSiteUnknown{Kind: kind}
	}
}

// sortedKinds is used by tests needing a stable iteration order.
func sortedKinds(m map[OpenKind]Mode) []OpenKind {
	out := make([]OpenKind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
