package registry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func writeLines(t *testing.T, path string, lines []string) {
	t.Helper()
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// tamperLastByte corrupts the last row's row_hash field so it no
// longer matches its body, without touching anything else.
func tamperLastByte(t *testing.T, path string) {
	t.Helper()
	lines := readLines(t, path)
	if len(lines) == 0 {
		t.Fatal("no rows to tamper")
	}
	var row struct {
		Body    json.RawMessage `json:"body"`
		RowHash string          `json:"row_hash"`
	}
	last := len(lines) - 1
	if err := json.Unmarshal([]byte(lines[last]), &row); err != nil {
		t.Fatalf("unmarshal last row: %v", err)
	}
	row.RowHash = "blake3:" + strings.Repeat("0", 64)
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal tampered row: %v", err)
	}
	lines[last] = string(out)
	writeLines(t, path, lines)
}

// overwriteWithBrokenPrevHash rewrites the last row's prev_hash to a
// value inconsistent with the true previous row's row_hash, while
// keeping the tampered row's own row_hash self-consistent with its new
// body — isolating the chain-link check from the row-hash check.
func overwriteWithBrokenPrevHash(t *testing.T, path string) {
	t.Helper()
	lines := readLines(t, path)
	if len(lines) < 2 {
		t.Fatal("need at least two rows to break the chain")
	}
	last := len(lines) - 1
	var row struct {
		Body    map[string]any `json:"body"`
		RowHash string         `json:"row_hash"`
	}
	if err := json.Unmarshal([]byte(lines[last]), &row); err != nil {
		t.Fatalf("unmarshal last row: %v", err)
	}
	row.Body["prev_hash"] = "blake3:" + strings.Repeat("f", 64)
	canonicalBody, err := json.Marshal(row.Body)
	if err != nil {
		t.Fatalf("marshal tampered body: %v", err)
	}
	row.RowHash = "blake3:" + blake3HexOf(canonicalBody)
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal tampered row: %v", err)
	}
	lines[last] = string(out)
	writeLines(t, path, lines)
}

func truncateFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("truncate %s: %v", path, err)
	}
}
