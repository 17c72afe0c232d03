package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// LockPackage is one pinned entry from ddn.lock's packages[] array
// (spec §4.12 "Lock schema").
type LockPackage struct {
	ID              string
	Version         string
	Yanked          bool
	ArchiveSHA256   string
	DownloadURL     string
	Dependencies    json.RawMessage
	Contract        string
	MinRuntime      string
	DetmathSealHash string
}

type lockGuardMeta struct {
	SnapshotID      string
	IndexRootHash   string
	TrustRootHash   string
}

func readLockJSON(path string) (map[string]json.RawMessage, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr("E_REG_LOCK_READ", fmt.Sprintf("path=%s %v", path, err), "", "ddn.lock 파일 경로/권한을 확인하세요.")
	}
	var generic any
	if err := json.Unmarshal(text, &generic); err != nil {
		return nil, newErr("E_REG_LOCK_PARSE", fmt.Sprintf("path=%s %v", path, err), "ddn.lock JSON 문법 오류", "ddn.lock JSON을 정정하세요.")
	}
	if err := validateLockSchema(generic); err != nil {
		return nil, err
	}
	var root map[string]json.RawMessage
	_ = json.Unmarshal(text, &root)
	schema := jsonStr(root["schema_version"])
	if schema != "v1" {
		return nil, newErr("E_REG_LOCK_SCHEMA", fmt.Sprintf("schema_version=%s (need v1)", schema), "", "ddn.lock schema_version을 v1로 맞추세요.")
	}
	return root, nil
}

func readLockGuardMeta(path string) (lockGuardMeta, error) {
	root, err := readLockJSON(path)
	if err != nil {
		return lockGuardMeta{}, err
	}
	var snapshot, trustRoot map[string]json.RawMessage
	if raw, ok := root["registry_snapshot"]; ok {
		_ = json.Unmarshal(raw, &snapshot)
	}
	if raw, ok := root["trust_root"]; ok {
		_ = json.Unmarshal(raw, &trustRoot)
	}
	meta := lockGuardMeta{}
	if snapshot != nil {
		meta.SnapshotID = jsonStr(snapshot["snapshot_id"])
		meta.IndexRootHash = jsonStr(snapshot["index_root_hash"])
	}
	if trustRoot != nil {
		meta.TrustRootHash = jsonStr(trustRoot["hash"])
	}
	return meta, nil
}

type rawLockPackage struct {
	ID              string          `json:"id"`
	Version         string          `json:"version"`
	Yanked          bool            `json:"yanked"`
	ArchiveSHA256   string          `json:"archive_sha256"`
	DownloadURL     string          `json:"download_url"`
	Dependencies    json.RawMessage `json:"dependencies"`
	Contract        string          `json:"contract"`
	MinRuntime      string          `json:"min_runtime"`
	DetmathSealHash string          `json:"detmath_seal_hash"`
}

func readLockVerifyPackages(path string) ([]LockPackage, error) {
	root, err := readLockJSON(path)
	if err != nil {
		return nil, err
	}
	raw, ok := root["packages"]
	if !ok {
		return nil, newErr("E_REG_LOCK_PACKAGES", "packages 배열이 없습니다.", "", "ddn.lock에 packages[]를 채우세요.")
	}
	var rows []rawLockPackage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, newErr("E_REG_LOCK_PACKAGES", "packages 파싱 실패", err.Error(), "ddn.lock packages[] 구조를 점검하세요.")
	}
	out := make([]LockPackage, 0, len(rows))
	for _, r := range rows {
		out = append(out, LockPackage{
			ID: r.ID, Version: r.Version, Yanked: r.Yanked,
			ArchiveSHA256: r.ArchiveSHA256, DownloadURL: r.DownloadURL,
			Dependencies: r.Dependencies, Contract: r.Contract,
			MinRuntime: r.MinRuntime, DetmathSealHash: r.DetmathSealHash,
		})
	}
	return out, nil
}

// splitPackageID validates and splits a "<scope>/<name>" lock package
// id (spec §4.12: "Invalid id formats ... are E_REG_LOCK_PACKAGE_ID_INVALID").
func splitPackageID(id string) (scope, name string, err error) {
	idx := strings.IndexByte(id, '/')
	if idx < 0 {
		return "", "", newErr("E_REG_LOCK_PACKAGE_ID_INVALID", fmt.Sprintf("id=%s", id), "lock package id must be scope/name", "ddn.lock packages[].id를 '<scope>/<name>' 형식으로 고치세요.")
	}
	scope, name = id[:idx], id[idx+1:]
	if scope == "" || name == "" {
		return "", "", newErr("E_REG_LOCK_PACKAGE_ID_INVALID", fmt.Sprintf("id=%s", id), "scope/name must be non-empty", "ddn.lock packages[].id에서 '/' 앞뒤를 비우지 마세요.")
	}
	if strings.TrimSpace(scope) != scope || strings.TrimSpace(name) != name {
		return "", "", newErr("E_REG_LOCK_PACKAGE_ID_INVALID", fmt.Sprintf("id=%s", id), "scope/name must not contain surrounding spaces", "ddn.lock packages[].id에서 '/' 앞뒤 공백을 제거하세요.")
	}
	if containsWhitespace(scope) || containsWhitespace(name) {
		return "", "", newErr("E_REG_LOCK_PACKAGE_ID_INVALID", fmt.Sprintf("id=%s", id), "scope/name must not contain whitespace", "ddn.lock packages[].id에서 공백문자(띄어쓰기/탭/개행)를 제거하세요.")
	}
	if strings.Contains(name, "/") {
		return "", "", newErr("E_REG_LOCK_PACKAGE_ID_INVALID", fmt.Sprintf("id=%s", id), "id contains extra '/'", "ddn.lock packages[].id에 '/'는 한 번만 쓰세요.")
	}
	return scope, name, nil
}

func containsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
