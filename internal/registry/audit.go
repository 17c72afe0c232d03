package registry

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/blake3"
)

// AuditVerifyReport is run_audit_verify's result (spec §4.12's audit
// log replay): row count and the final row's hash, so a caller can pin
// --expect-audit-last-hash against a known-good chain tip.
type AuditVerifyReport struct {
	AuditLogPath string `json:"audit_log_path"`
	Rows         int    `json:"rows"`
	LastHash     string `json:"last_hash,omitempty"`
}

// RunAuditVerify replays an append-only JSON-Lines audit log from its
// first row, checking the blake3 prev_hash/row_hash chain spec §4.12
// describes. Every line must be `{"body": {...}, "row_hash": "blake3:..."}`
// with `body.schema = "ddn.registry.audit.v1"`.
func RunAuditVerify(auditLogPath string) (AuditVerifyReport, error) {
	f, err := os.Open(auditLogPath)
	if err != nil {
		return AuditVerifyReport{}, newErr("E_REG_AUDIT_READ", fmt.Sprintf("path=%s %v", auditLogPath, err), "", "감사로그 파일 경로/권한을 확인하세요.")
	}
	defer f.Close()

	rows := 0
	var prevHash string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row struct {
			Body    json.RawMessage `json:"body"`
			RowHash string          `json:"row_hash"`
		}
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_PARSE",
				fmt.Sprintf("path=%s line=%d %v", auditLogPath, lineIdx, err),
				"감사로그 줄 JSON 파싱 실패", "손상된 줄을 수정하거나 감사로그를 다시 생성하세요.")
		}
		if len(row.Body) == 0 {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_ROW_FIELD",
				fmt.Sprintf("path=%s line=%d body 누락", auditLogPath, lineIdx), "", "각 줄에 body 필드를 포함하세요.")
		}
		var body map[string]any
		if err := json.Unmarshal(row.Body, &body); err != nil {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_PARSE",
				fmt.Sprintf("path=%s line=%d %v", auditLogPath, lineIdx, err),
				"감사로그 body JSON 파싱 실패", "손상된 줄을 수정하거나 감사로그를 다시 생성하세요.")
		}
		schema, _ := body["schema"].(string)
		if schema != "ddn.registry.audit.v1" {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_SCHEMA",
				fmt.Sprintf("path=%s line=%d schema=%s (need ddn.registry.audit.v1)", auditLogPath, lineIdx, schema),
				"", "감사로그 body.schema를 ddn.registry.audit.v1로 맞추세요.")
		}
		if row.RowHash == "" {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_ROW_FIELD",
				fmt.Sprintf("path=%s line=%d row_hash 누락", auditLogPath, lineIdx), "", "각 줄에 row_hash 필드를 포함하세요.")
		}

		// Canonicalize before hashing: the writer's formatting/key order
		// must not affect the hash, only the body's content (Go's
		// encoding/json sorts map keys on marshal, matching the
		// originating implementation's BTreeMap-backed JSON object).
		canonicalBody, _ := json.Marshal(body)
		expectedHash := "blake3:" + blake3HexOf(canonicalBody)
		if row.RowHash != expectedHash {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_ROW_HASH_MISMATCH",
				fmt.Sprintf("path=%s line=%d expected=%s actual=%s", auditLogPath, lineIdx, expectedHash, row.RowHash),
				"", "해당 줄 body/row_hash를 재생성하세요.")
		}

		declaredPrev, hasPrevKey := body["prev_hash"].(string)
		if rows == 0 {
			if hasPrevKey {
				return AuditVerifyReport{}, newErr("E_REG_AUDIT_CHAIN_BROKEN",
					fmt.Sprintf("path=%s line=%d expected_prev=<none> actual_prev=%s", auditLogPath, lineIdx, displayOrNone(declaredPrev)),
					"", "감사로그 체인을 처음 줄부터 다시 생성하세요.")
			}
		} else if declaredPrev != prevHash {
			return AuditVerifyReport{}, newErr("E_REG_AUDIT_CHAIN_BROKEN",
				fmt.Sprintf("path=%s line=%d expected_prev=%s actual_prev=%s", auditLogPath, lineIdx, displayOrNone(prevHash), displayOrNone(declaredPrev)),
				"", "감사로그 체인을 끊긴 지점부터 복구하거나 다시 생성하세요.")
		}

		prevHash = row.RowHash
		rows++
	}
	if err := scanner.Err(); err != nil {
		return AuditVerifyReport{}, newErr("E_REG_AUDIT_READ", fmt.Sprintf("path=%s %v", auditLogPath, err), "", "감사로그 파일 경로/권한을 확인하세요.")
	}

	if rows == 0 {
		return AuditVerifyReport{}, newErr("E_REG_AUDIT_EMPTY", fmt.Sprintf("path=%s 감사로그가 비어 있습니다.", auditLogPath), "", "감사 이벤트를 기록한 뒤 다시 검증하세요.")
	}

	return AuditVerifyReport{AuditLogPath: auditLogPath, Rows: rows, LastHash: prevHash}, nil
}

func blake3HexOf(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func displayOrNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

// EnsureExpectedAuditLastHash errors when report's chain tip doesn't
// match an asserted --expect-audit-last-hash pin.
func EnsureExpectedAuditLastHash(report AuditVerifyReport, expected string) error {
	if expected == "" {
		return nil
	}
	actual := displayOrNone(report.LastHash)
	if actual != expected {
		return newErr("E_REG_AUDIT_LAST_HASH_MISMATCH",
			fmt.Sprintf("expected=%s actual=%s", expected, actual), "audit log last_hash does not match expected pin",
			"update expected hash to current audit last_hash")
	}
	return nil
}
