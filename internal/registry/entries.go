package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry is one registry index record (spec §4.12 "Entry fields"). The
// minimal required set is {Scope, Name, Version}; everything else is
// optional and carried as Go zero values when absent.
type Entry struct {
	Scope           string
	Name            string
	Version         string
	ArchiveSHA256   string
	Contract        string
	DetmathSealHash string
	MinRuntime      string
	Dependencies    json.RawMessage
	DownloadURL     string
	PublishedAt     string
	Summary         string
	Yanked          bool
	YankedAt        string
	YankReasonCode  string
	YankNote        string
}

// SnapshotMeta is the index's own identity: snapshot_id/index_root_hash
// (top-level or nested under registry_snapshot) plus an optional
// trust_root. Used only by the read guard.
type SnapshotMeta struct {
	SnapshotID      string
	IndexRootHash   string
	TrustRootHash   string
	TrustRootSource string
}

type rawEntry struct {
	Scope           string          `json:"scope"`
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	ArchiveSHA256   string          `json:"archive_sha256"`
	Contract        string          `json:"contract"`
	DetmathSealHash string          `json:"detmath_seal_hash"`
	MinRuntime      string          `json:"min_runtime"`
	Dependencies    json.RawMessage `json:"dependencies"`
	DownloadURL     string          `json:"download_url"`
	PublishedAt     string          `json:"published_at"`
	Summary         string          `json:"summary"`
	Description     string          `json:"description"`
	Yanked          bool            `json:"yanked"`
	YankedAt        string          `json:"yanked_at"`
	YankReasonCode  string          `json:"yank_reason_code"`
	YankNote        string          `json:"yank_note"`
}

func (r rawEntry) toEntry(scope, name string) Entry {
	summary := r.Summary
	if summary == "" {
		summary = r.Description
	}
	e := Entry{
		Scope:           scope,
		Name:            name,
		Version:         r.Version,
		ArchiveSHA256:   r.ArchiveSHA256,
		Contract:        r.Contract,
		DetmathSealHash: r.DetmathSealHash,
		MinRuntime:      r.MinRuntime,
		Dependencies:    r.Dependencies,
		DownloadURL:     r.DownloadURL,
		PublishedAt:     r.PublishedAt,
		Summary:         summary,
		Yanked:          r.Yanked,
		YankedAt:        r.YankedAt,
		YankReasonCode:  r.YankReasonCode,
		YankNote:        r.YankNote,
	}
	if scope == "" {
		e.Scope = r.Scope
	}
	if name == "" {
		e.Name = r.Name
	}
	return e
}

func fieldMissing(value, field string) (string, error) {
	if value == "" {
		return "", newErr("E_REG_INDEX_FIELD", field+" 누락", "", fmt.Sprintf("인덱스 항목에 '%s' 필드를 추가하세요.", field))
	}
	return value, nil
}

// LoadEntries reads and parses an index snapshot with no read guard.
func LoadEntries(indexPath string) ([]Entry, error) {
	return LoadEntriesWithGuard(indexPath, ReadGuardOptions{})
}

// LoadEntriesWithGuard reads the index at indexPath, enforcing guard
// (spec §4.12 frozen-lockfile / snapshot / trust-root checks) before
// parsing entries out of whichever of the three documented schemas the
// document declares.
func LoadEntriesWithGuard(indexPath string, guard ReadGuardOptions) ([]Entry, error) {
	text, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, newErr("E_REG_INDEX_READ", fmt.Sprintf("path=%s %v", indexPath, err), "", "registry index 파일 경로/권한을 확인하세요.")
	}
	var generic any
	if err := json.Unmarshal(text, &generic); err != nil {
		return nil, newErr("E_REG_INDEX_PARSE", fmt.Sprintf("path=%s %v", indexPath, err), "registry index JSON 파싱 실패", "registry index JSON을 정정하세요.")
	}
	if err := validateIndexSchema(generic); err != nil {
		return nil, err
	}
	var root map[string]json.RawMessage
	_ = json.Unmarshal(text, &root)
	if err := validateIndexReadGuard(root, guard); err != nil {
		return nil, err
	}
	return loadEntriesFromRoot(root)
}

func jsonStr(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func loadEntriesFromRoot(root map[string]json.RawMessage) ([]Entry, error) {
	schema := jsonStr(root["schema"])
	switch schema {
	case "ddn.registry.snapshot.v1":
		var rows []rawEntry
		if raw, ok := root["entries"]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, newErr("E_REG_INDEX_SCHEMA", "entries 파싱 실패", err.Error(), "snapshot 인덱스의 entries[]를 점검하세요.")
			}
		} else {
			return nil, newErr("E_REG_INDEX_SCHEMA", "entries 배열이 없습니다.", "", "snapshot 인덱스에 entries[]를 추가하세요.")
		}
		out := make([]Entry, 0, len(rows))
		for _, r := range rows {
			if _, err := fieldMissing(r.Scope, "scope"); err != nil {
				return nil, err
			}
			if _, err := fieldMissing(r.Name, "name"); err != nil {
				return nil, err
			}
			if _, err := fieldMissing(r.Version, "version"); err != nil {
				return nil, err
			}
			out = append(out, r.toEntry("", ""))
		}
		return out, nil
	case "ddn.registry.package_versions.v1":
		scope := jsonStr(root["scope"])
		name := jsonStr(root["name"])
		if scope == "" || name == "" {
			return nil, newErr("E_REG_INDEX_FIELD", "scope/name 누락", "", "package_versions 인덱스에 scope/name을 추가하세요.")
		}
		var rows []rawEntry
		if raw, ok := root["versions"]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, newErr("E_REG_INDEX_SCHEMA", "versions 파싱 실패", err.Error(), "package_versions 인덱스의 versions[]를 점검하세요.")
			}
		} else {
			return nil, newErr("E_REG_INDEX_SCHEMA", "versions 배열이 없습니다.", "", "package_versions 인덱스에 versions[]를 추가하세요.")
		}
		out := make([]Entry, 0, len(rows))
		for _, r := range rows {
			if _, err := fieldMissing(r.Version, "version"); err != nil {
				return nil, err
			}
			out = append(out, r.toEntry(scope, name))
		}
		return out, nil
	case "ddn.registry.index_entry.v1":
		var r rawEntry
		if err := json.Unmarshal(mustMarshal(root), &r); err != nil {
			return nil, newErr("E_REG_INDEX_SCHEMA", "index_entry 파싱 실패", err.Error(), "index_entry 문서를 점검하세요.")
		}
		if _, err := fieldMissing(r.Scope, "scope"); err != nil {
			return nil, err
		}
		if _, err := fieldMissing(r.Name, "name"); err != nil {
			return nil, err
		}
		if _, err := fieldMissing(r.Version, "version"); err != nil {
			return nil, err
		}
		return []Entry{r.toEntry("", "")}, nil
	default:
		if raw, ok := root["entries"]; ok {
			var rows []rawEntry
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, newErr("E_REG_INDEX_SCHEMA", "entries 파싱 실패", err.Error(), "인덱스 entries[]를 점검하세요.")
			}
			out := make([]Entry, 0, len(rows))
			for _, r := range rows {
				out = append(out, r.toEntry("", ""))
			}
			return out, nil
		}
		return nil, newErr("E_REG_INDEX_SCHEMA",
			fmt.Sprintf("schema=%s (need ddn.registry.snapshot.v1|ddn.registry.package_versions.v1|ddn.registry.index_entry.v1)", schema),
			"", "인덱스 schema를 지원 형식으로 맞추세요.")
	}
}

func mustMarshal(v map[string]json.RawMessage) []byte {
	b, _ := json.Marshal(v)
	return b
}

func snapshotMetaFromRoot(root map[string]json.RawMessage) SnapshotMeta {
	var snapshot, trustRoot map[string]json.RawMessage
	if raw, ok := root["registry_snapshot"]; ok {
		_ = json.Unmarshal(raw, &snapshot)
	}
	if raw, ok := root["trust_root"]; ok {
		_ = json.Unmarshal(raw, &trustRoot)
	}
	meta := SnapshotMeta{}
	meta.SnapshotID = jsonStr(root["snapshot_id"])
	if meta.SnapshotID == "" && snapshot != nil {
		meta.SnapshotID = jsonStr(snapshot["snapshot_id"])
	}
	meta.IndexRootHash = jsonStr(root["index_root_hash"])
	if meta.IndexRootHash == "" && snapshot != nil {
		meta.IndexRootHash = jsonStr(snapshot["index_root_hash"])
	}
	if trustRoot != nil {
		meta.TrustRootHash = jsonStr(trustRoot["hash"])
		meta.TrustRootSource = jsonStr(trustRoot["source"])
	}
	return meta
}

// EntryRank is the duplicate-resolution tie-break key spec §4.12
// names: non-yanked entries rank strictly lower (preferred), and ties
// are broken by the deterministic normalized-JSON key of the full
// entry. Comparable with Less so reordering the input never changes
// which entry wins (spec §8 property 8).
type EntryRank struct {
	Yanked bool
	Key    string
}

// Less reports whether r ranks strictly ahead of o (r is preferred).
func (r EntryRank) Less(o EntryRank) bool {
	if r.Yanked != o.Yanked {
		return !r.Yanked
	}
	return r.Key < o.Key
}

// DuplicateEntryRank computes e's EntryRank.
func DuplicateEntryRank(e Entry) EntryRank {
	return EntryRank{Yanked: e.Yanked, Key: normalizedEntryKey(e)}
}

func normalizedEntryKey(e Entry) string {
	obj := map[string]any{
		"schema":            "ddn.registry.index_entry.v1",
		"scope":             e.Scope,
		"name":              e.Name,
		"version":           e.Version,
		"archive_sha256":    e.ArchiveSHA256,
		"contract":          e.Contract,
		"detmath_seal_hash": e.DetmathSealHash,
		"min_runtime":       e.MinRuntime,
		"dependencies":      rawOrNull(e.Dependencies),
		"download_url":      e.DownloadURL,
		"published_at":      e.PublishedAt,
		"summary":           e.Summary,
		"yanked":            e.Yanked,
		"yanked_at":         e.YankedAt,
		"yank_reason_code":  e.YankReasonCode,
		"yank_note":         e.YankNote,
	}
	return normalizedJSONText(obj)
}

func rawOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	_ = json.Unmarshal(raw, &v)
	return v
}

// SelectEntry picks the single entry matching scope/name/version by
// DuplicateEntryRank (spec §8 property 8: order-independent).
func SelectEntry(entries []Entry, scope, name, version string) (Entry, bool) {
	var best Entry
	found := false
	for _, e := range entries {
		if e.Scope != scope || e.Name != name || e.Version != version {
			continue
		}
		if !found || DuplicateEntryRank(e).Less(DuplicateEntryRank(best)) {
			best = e
			found = true
		}
	}
	return best, found
}

func sortEntriesByVersionDesc(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return compareVersionsDesc(entries[i].Version, entries[j].Version) < 0
	})
}
