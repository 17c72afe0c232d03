// Package hashing implements the canonical byte encodings and hash
// functions of spec §6: state_hash (BLAKE3) over the canonical-key
// sorted resource records, trace_hash (SHA-256) over a composite of
// source/state_hash/ticks/seed/log lines, and the BLAKE3 row hashing
// used by the registry audit chain (spec §4.12).
package hashing

import (
	"encoding/hex"

	"github.com/tongosu/ddonilang/internal/state"
	"github.com/tongosu/ddonilang/internal/value"
	"lukechampine.com/blake3"
)

// recordSep and keySep are the fixed byte separators for the
// per-record canonical encoding (spec §6: "implementation-defined but
// MUST be fixed"). This implementation uses ASCII unit/record
// separators, matching the control-character convention the spec's
// reference implementation describes.
const (
	keySep    = '\x1F' // unit separator, between canon(key) and canon(value)
	recordSep = '\x1E' // record separator, terminates each record
)

// EncodeStateBytes produces the canonical byte encoding of a state
// snapshot: the utf-8 concatenation of per-key records, each
// `<canon(key)>\x1F<canon(value)>\x1E`. Records are written in the
// order given and are not re-sorted here; State.Snapshot supplies them
// in canonical-key sorted order.
func EncodeStateBytes(entries []state.Entry) []byte {
	var out []byte
	for _, e := range entries {
		out = append(out, []byte(e.Key)...)
		out = append(out, keySep)
		out = append(out, []byte(value.Canon(e.Value))...)
		out = append(out, recordSep)
	}
	return out
}

// StateHash computes "blake3:" + hex(blake3(EncodeStateBytes(entries))).
func StateHash(entries []state.Entry) string {
	sum := blake3.Sum256(EncodeStateBytes(entries))
	return "blake3:" + hex.EncodeToString(sum[:])
}

// Blake3Hex hashes arbitrary bytes with BLAKE3 and hex-encodes the
// 32-byte digest, without the "blake3:" prefix. Used by the registry
// audit row hash, which already owns its own prefixing convention.
func Blake3Hex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
