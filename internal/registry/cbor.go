package registry

import (
	"github.com/fxamacker/cbor/v2"
)

// EncodeVerifyReportCBOR offers a binary-protocol-friendly encoding of
// a VerifyReport alongside its canonical JSON form (spec §6's
// dual-representation plan, grounded on the teacher's
// core/planfmt/writer.go JSON form + core/planfmt/canonical.go CBOR
// form split). Hosts embedding the core behind a non-JSON transport use
// this instead of json.Marshal(report.toJSONDoc()).
func EncodeVerifyReportCBOR(report VerifyReport) ([]byte, error) {
	return cbor.Marshal(report.toJSONDoc())
}

// EncodeAuditVerifyReportCBOR is the audit-log counterpart.
func EncodeAuditVerifyReportCBOR(report AuditVerifyReport) ([]byte, error) {
	return cbor.Marshal(map[string]any{
		"schema":         "ddn.registry.audit_verify_report.v1",
		"ok":             true,
		"audit_log_path": report.AuditLogPath,
		"rows":           report.Rows,
		"last_hash":      report.LastHash,
	})
}
