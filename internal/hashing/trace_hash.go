package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// TraceHash computes the SHA-256 over the composite
// <source>||<state_hash>||<ticks>||<seed>||<concat(log_lines, "\n")>
// (spec §6). A different algorithm from StateHash is used deliberately
// so the two hashes cannot be confused or substituted for each other.
func TraceHash(source, stateHash string, ticks uint64, seed uint64, logLines []string) string {
	var b strings.Builder
	b.WriteString(source)
	b.WriteString("||")
	b.WriteString(stateHash)
	b.WriteString("||")
	b.WriteString(strconv.FormatUint(ticks, 10))
	b.WriteString("||")
	b.WriteString(strconv.FormatUint(seed, 10))
	b.WriteString("||")
	b.WriteString(strings.Join(logLines, "\n"))

	sum := sha256.Sum256([]byte(b.String()))
	return "sha256:" + hex.EncodeToString(sum[:])
}
