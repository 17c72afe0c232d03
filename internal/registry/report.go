package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteVerifyReport writes report as pretty JSON to path, creating
// parent directories as needed (spec §6 CLI surface's --out flag).
func WriteVerifyReport(path string, report VerifyReport) error {
	return writeJSONReport(path, report.toJSONDoc(), "E_REG_REPORT_WRITE")
}

// WriteAuditVerifyReport writes an audit-verify report as pretty JSON.
func WriteAuditVerifyReport(path string, report AuditVerifyReport) error {
	doc := map[string]any{
		"schema":         "ddn.registry.audit_verify_report.v1",
		"ok":             true,
		"audit_log_path": report.AuditLogPath,
		"rows":           report.Rows,
		"last_hash":      report.LastHash,
	}
	return writeJSONReport(path, doc, "E_REG_REPORT_WRITE")
}

func writeJSONReport(path string, doc any, writeErrCode string) error {
	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return newErr("E_REG_JSON", "report serialize failed: "+err.Error(), "", "report payload를 점검하세요.")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return newErr(writeErrCode, "path="+path+" "+err.Error(), "", "report 출력 경로를 확인하세요.")
		}
	}
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return newErr(writeErrCode, "path="+path+" "+err.Error(), "", "report 파일 쓰기 권한/경로를 확인하세요.")
	}
	return nil
}
