package opensite

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"
)

// LogLine is one Record-mode entry (spec §4.10: "{ kind, site_id, key,
// result_hash, nonce }"). PrevHash/RowHash chain the log the same way
// the registry audit log chains its rows (spec §4.12), so Replay's
// "tamper (hash chain mismatch)" has a concrete mechanism to detect:
// the spec names the failure mode but not its structure, so this
// reuses the established prev_hash/row_hash pattern rather than
// inventing a new one.
type LogLine struct {
	Kind       OpenKind `json:"kind"`
	SiteID     string   `json:"site_id"`
	Key        string   `json:"key"`
	ResultHash string   `json:"result_hash"`
	Nonce      uint64   `json:"nonce"`
	Result     []byte   `json:"-"`
	PrevHash   string   `json:"prev_hash"`
	RowHash    string   `json:"row_hash"`
}

// body is the hashed portion of a LogLine, excluding RowHash itself.
type logBody struct {
	Kind       OpenKind `json:"kind"`
	SiteID     string   `json:"site_id"`
	Key        string   `json:"key"`
	ResultHash string   `json:"result_hash"`
	Nonce      uint64   `json:"nonce"`
	PrevHash   string   `json:"prev_hash"`
}

func rowHashOf(b logBody) string {
	enc, _ := json.Marshal(b)
	sum := blake3.Sum256(enc)
	return "blake3:" + hex.EncodeToString(sum[:])
}

// Log is the append-only Open-site Record/Replay log for one run.
type Log struct {
	lines []LogLine
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) append(kind OpenKind, siteID, key string, result []byte, nonce uint64) {
	prev := ""
	if n := len(l.lines); n > 0 {
		prev = l.lines[n-1].RowHash
	}
	resultSum := blake3.Sum256(result)
	resultHash := "blake3:" + hex.EncodeToString(resultSum[:])
	body := logBody{Kind: kind, SiteID: siteID, Key: key, ResultHash: resultHash, Nonce: nonce, PrevHash: prev}
	row := rowHashOf(body)
	l.lines = append(l.lines, LogLine{
		Kind: kind, SiteID: siteID, Key: key, ResultHash: resultHash,
		Nonce: nonce, Result: result, PrevHash: prev, RowHash: row,
	})
}

func (l *Log) find(kind OpenKind, siteID, key string) (LogLine, bool) {
	for _, line := range l.lines {
		if line.Kind == kind && line.SiteID == siteID && line.Key == key {
			return line, true
		}
	}
	return LogLine{}, false
}

// verifyLine recomputes line's row hash from its body fields and
// compares it to the stored RowHash, detecting a tampered entry.
func (l *Log) verifyLine(line LogLine) error {
	body := logBody{Kind: line.Kind, SiteID: line.SiteID, Key: line.Key, ResultHash: line.ResultHash, Nonce: line.Nonce, PrevHash: line.PrevHash}
	if rowHashOf(body) != line.RowHash {
		return fmt.Errorf("open-site log row hash mismatch")
	}
	return nil
}

// VerifyChain replays the whole log from the first line, checking
// every prev_hash/row_hash link (the same algorithm spec §4.12
// describes for the registry audit log).
func (l *Log) VerifyChain() error {
	prev := ""
	for i, line := range l.lines {
		if line.PrevHash != prev {
			return fmt.Errorf("open-site log chain broken at line %d", i)
		}
		if err := l.verifyLine(line); err != nil {
			return err
		}
		prev = line.RowHash
	}
	return nil
}

// Lines returns the accumulated log lines in append order.
func (l *Log) Lines() []LogLine {
	return l.lines
}
