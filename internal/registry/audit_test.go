package registry

import (
	"path/filepath"
	"testing"
)

// TestAuditChainHappyPath is spec §8 scenario S5.
func TestAuditChainHappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")

	hash1, err := AppendAuditRow(path, map[string]any{"action": "publish", "package_id": "s/n@1.0.0"})
	if err != nil {
		t.Fatalf("append row 1: %v", err)
	}
	hash2, err := AppendAuditRow(path, map[string]any{"action": "yank", "package_id": "s/n@1.0.0"})
	if err != nil {
		t.Fatalf("append row 2: %v", err)
	}
	if hash1 == hash2 {
		t.Fatalf("two distinct rows must not hash equal")
	}

	report, err := RunAuditVerify(path)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if report.Rows != 2 {
		t.Errorf("rows = %d, want 2", report.Rows)
	}
	if report.LastHash != hash2 {
		t.Errorf("last_hash = %s, want %s", report.LastHash, hash2)
	}
}

// TestAuditChainDetectsRowHashTamper is spec §8 property 9.
func TestAuditChainDetectsRowHashTamper(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	if _, err := AppendAuditRow(path, map[string]any{"action": "publish"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	tamperLastByte(t, path)

	_, err := RunAuditVerify(path)
	regErr, ok := err.(*Error)
	if !ok || regErr.Code != "E_REG_AUDIT_ROW_HASH_MISMATCH" {
		t.Fatalf("err = %v, want E_REG_AUDIT_ROW_HASH_MISMATCH", err)
	}
}

// TestAuditChainDetectsBrokenChain is spec §8 property 9's prev_hash
// half: rewriting a later row's prev_hash without updating it to match
// the true prior row_hash must fail with the chain-broken code.
func TestAuditChainDetectsBrokenChain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	if _, err := AppendAuditRow(path, map[string]any{"action": "publish"}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if _, err := AppendAuditRow(path, map[string]any{"action": "yank"}); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	if _, err := AppendAuditRow(path, map[string]any{"action": "publish"}); err != nil {
		t.Fatalf("append 3: %v", err)
	}
	overwriteWithBrokenPrevHash(t, path)

	_, err := RunAuditVerify(path)
	regErr, ok := err.(*Error)
	if !ok || regErr.Code != "E_REG_AUDIT_CHAIN_BROKEN" {
		t.Fatalf("err = %v, want E_REG_AUDIT_CHAIN_BROKEN", err)
	}
}

func TestAuditVerifyEmptyLogErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jsonl")
	if _, err := AppendAuditRow(path, map[string]any{"action": "noop"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	truncateFile(t, path)

	_, err := RunAuditVerify(path)
	regErr, ok := err.(*Error)
	if !ok || regErr.Code != "E_REG_AUDIT_EMPTY" {
		t.Fatalf("err = %v, want E_REG_AUDIT_EMPTY", err)
	}
}

func TestEnsureExpectedAuditLastHash(t *testing.T) {
	report := AuditVerifyReport{LastHash: "blake3:abc"}
	if err := EnsureExpectedAuditLastHash(report, "blake3:abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EnsureExpectedAuditLastHash(report, "blake3:zzz"); err == nil {
		t.Fatal("expected a mismatch error")
	}
}
