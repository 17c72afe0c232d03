package registry

import (
	"fmt"
	"sort"
	"strings"
)

// VersionInfo is one row of a BuildVersionsResponse result.
type VersionInfo struct {
	Version         string `json:"version"`
	ArchiveSHA256   string `json:"archive_sha256,omitempty"`
	Contract        string `json:"contract,omitempty"`
	DetmathSealHash string `json:"detmath_seal_hash,omitempty"`
	MinRuntime      string `json:"min_runtime,omitempty"`
	Dependencies    any    `json:"dependencies,omitempty"`
	DownloadURL     string `json:"download_url,omitempty"`
	PublishedAt     string `json:"published_at,omitempty"`
	Yanked          bool   `json:"yanked"`
	YankedAt        string `json:"yanked_at,omitempty"`
	YankReasonCode  string `json:"yank_reason_code,omitempty"`
	YankNote        string `json:"yank_note,omitempty"`
}

func versionInfo(e Entry) VersionInfo {
	return VersionInfo{
		Version: e.Version, ArchiveSHA256: e.ArchiveSHA256, Contract: e.Contract,
		DetmathSealHash: e.DetmathSealHash, MinRuntime: e.MinRuntime,
		Dependencies: rawOrNull(e.Dependencies), DownloadURL: e.DownloadURL,
		PublishedAt: e.PublishedAt, Yanked: e.Yanked, YankedAt: e.YankedAt,
		YankReasonCode: e.YankReasonCode, YankNote: e.YankNote,
	}
}

// IndexEntryDoc is the single-entry response BuildEntryResponse
// returns, mirroring the ddn.registry.index_entry.v1 schema.
type IndexEntryDoc struct {
	Schema          string `json:"schema"`
	Scope           string `json:"scope"`
	Name            string `json:"name"`
	Version         string `json:"version"`
	ArchiveSHA256   string `json:"archive_sha256,omitempty"`
	Contract        string `json:"contract,omitempty"`
	DetmathSealHash string `json:"detmath_seal_hash,omitempty"`
	MinRuntime      string `json:"min_runtime,omitempty"`
	Dependencies    any    `json:"dependencies,omitempty"`
	DownloadURL     string `json:"download_url,omitempty"`
	PublishedAt     string `json:"published_at,omitempty"`
	Summary         string `json:"summary,omitempty"`
	Yanked          bool   `json:"yanked"`
	YankedAt        string `json:"yanked_at,omitempty"`
	YankReasonCode  string `json:"yank_reason_code,omitempty"`
	YankNote        string `json:"yank_note,omitempty"`
}

func indexEntryDoc(e Entry) IndexEntryDoc {
	return IndexEntryDoc{
		Schema: "ddn.registry.index_entry.v1", Scope: e.Scope, Name: e.Name, Version: e.Version,
		ArchiveSHA256: e.ArchiveSHA256, Contract: e.Contract, DetmathSealHash: e.DetmathSealHash,
		MinRuntime: e.MinRuntime, Dependencies: rawOrNull(e.Dependencies), DownloadURL: e.DownloadURL,
		PublishedAt: e.PublishedAt, Summary: e.Summary, Yanked: e.Yanked, YankedAt: e.YankedAt,
		YankReasonCode: e.YankReasonCode, YankNote: e.YankNote,
	}
}

// VersionsResponse is BuildVersionsResponse's result payload.
type VersionsResponse struct {
	Schema   string        `json:"schema"`
	Scope    string        `json:"scope"`
	Name     string        `json:"name"`
	Versions []VersionInfo `json:"versions"`
}

// BuildVersionsResponse lists every version of scope/name, newest
// first, deduplicated across repeated {scope,name,version} rows by
// DuplicateEntryRank (spec §4.12).
func BuildVersionsResponse(entries []Entry, scope, name string, includeYanked bool) (VersionsResponse, error) {
	byVersion := map[string]Entry{}
	for _, e := range entries {
		if e.Scope != scope || e.Name != name {
			continue
		}
		if e.Yanked && !includeYanked {
			continue
		}
		prev, ok := byVersion[e.Version]
		if !ok || DuplicateEntryRank(e).Less(DuplicateEntryRank(prev)) {
			byVersion[e.Version] = e
		}
	}
	versions := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		versions = append(versions, e)
	}
	sortEntriesByVersionDesc(versions)
	if len(versions) == 0 {
		return VersionsResponse{}, newErr("E_REG_INDEX_NOT_FOUND",
			fmt.Sprintf("scope=%s name=%s include_yanked=%v", scope, name, includeYanked), "",
			"해당 scope/name이 인덱스에 있는지 확인하거나 include-yanked 조건을 조정하세요.")
	}
	rows := make([]VersionInfo, len(versions))
	for i, e := range versions {
		rows[i] = versionInfo(e)
	}
	return VersionsResponse{Schema: "ddn.registry.package_versions.v1", Scope: scope, Name: name, Versions: rows}, nil
}

// BuildEntryResponse resolves exactly one {scope,name,version} entry.
func BuildEntryResponse(entries []Entry, scope, name, version string) (IndexEntryDoc, error) {
	e, ok := SelectEntry(entries, scope, name, version)
	if !ok {
		return IndexEntryDoc{}, newErr("E_REG_INDEX_NOT_FOUND",
			fmt.Sprintf("scope=%s name=%s version=%s", scope, name, version), "",
			"요청 version이 인덱스에 존재하는지 확인하세요.")
	}
	return indexEntryDoc(e), nil
}

// SearchItem is one row of a search result.
type SearchItem struct {
	Scope         string `json:"scope"`
	Name          string `json:"name"`
	LatestVersion string `json:"latest_version"`
	Contract      string `json:"contract,omitempty"`
	Summary       string `json:"summary"`
	Yanked        bool   `json:"yanked"`
}

// SearchResponse is BuildSearchResponse's result payload.
type SearchResponse struct {
	Schema string       `json:"schema"`
	Items  []SearchItem `json:"items"`
}

// BuildSearchResponse matches query (case-insensitive substring of
// "scope/name") against the latest non-dropped version of each
// package, sorted by scope, name, then version descending.
func BuildSearchResponse(entries []Entry, query string, limit int, includeYanked bool) (SearchResponse, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResponse{}, newErr("E_REG_SEARCH_QUERY", "query가 비어 있습니다.", "", "--query <text>를 지정하세요.")
	}
	type key struct{ scope, name string }
	latest := map[key]Entry{}
	for _, e := range entries {
		if e.Yanked && !includeYanked {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Scope+"/"+e.Name), q) {
			continue
		}
		k := key{e.Scope, e.Name}
		prev, ok := latest[k]
		if !ok {
			latest[k] = e
			continue
		}
		switch cmp := compareVersionsDesc(e.Version, prev.Version); {
		case cmp > 0:
			// prev is newer; keep prev.
		case cmp == 0:
			if DuplicateEntryRank(e).Less(DuplicateEntryRank(prev)) {
				latest[k] = e
			}
		default:
			latest[k] = e
		}
	}
	rows := make([]Entry, 0, len(latest))
	for _, e := range latest {
		rows = append(rows, e)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Scope != rows[j].Scope {
			return rows[i].Scope < rows[j].Scope
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return compareVersionsDesc(rows[i].Version, rows[j].Version) < 0
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]SearchItem, len(rows))
	for i, e := range rows {
		summary := e.Summary
		if summary == "" {
			summary = e.Scope + "/" + e.Name
		}
		items[i] = SearchItem{Scope: e.Scope, Name: e.Name, LatestVersion: e.Version, Contract: e.Contract, Summary: summary, Yanked: e.Yanked}
	}
	return SearchResponse{Schema: "ddn.registry.search_result.v1", Items: items}, nil
}
