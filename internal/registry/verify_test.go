package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

const snapshotDuplicateYanked = `{
  "schema": "ddn.registry.snapshot.v1",
  "entries": [
    {"scope":"표준","name":"역학","version":"20.6.30","yanked":true},
    {"scope":"표준","name":"역학","version":"20.6.30","yanked":false}
  ]
}`

const snapshotDuplicateYankedSwapped = `{
  "schema": "ddn.registry.snapshot.v1",
  "entries": [
    {"scope":"표준","name":"역학","version":"20.6.30","yanked":false},
    {"scope":"표준","name":"역학","version":"20.6.30","yanked":true}
  ]
}`

const lockSinglePin = `{
  "schema_version": "v1",
  "packages": [
    {"id": "표준/역학", "version": "20.6.30", "yanked": false}
  ]
}`

// TestVerifyPicksNonYankedAmongDuplicates is spec §8 scenario S6.
func TestVerifyPicksNonYankedAmongDuplicates(t *testing.T) {
	dir := t.TempDir()
	lockPath := writeTempFile(t, dir, "ddn.lock", lockSinglePin)
	indexPath := writeTempFile(t, dir, "index.json", snapshotDuplicateYanked)

	report, err := RunVerify(indexPath, lockPath, ReadGuardOptions{}, false)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if report.YankedIndex != 0 {
		t.Errorf("yanked_index = %d, want 0", report.YankedIndex)
	}
	if report.Matched != 1 {
		t.Errorf("matched = %d, want 1", report.Matched)
	}

	swappedPath := writeTempFile(t, dir, "index_swapped.json", snapshotDuplicateYankedSwapped)
	report2, err := RunVerify(swappedPath, lockPath, ReadGuardOptions{}, false)
	if err != nil {
		t.Fatalf("verify (swapped order) failed: %v", err)
	}
	if report2.YankedIndex != report.YankedIndex || report2.Matched != report.Matched {
		t.Errorf("swapping entry order changed the result: %+v vs %+v", report, report2)
	}
}

// TestDuplicateResolutionIsOrderIndependent is spec §8 property 8,
// exercised directly against SelectEntry rather than through a lock
// file.
func TestDuplicateResolutionIsOrderIndependent(t *testing.T) {
	a := Entry{Scope: "s", Name: "n", Version: "1.0.0", Yanked: true}
	b := Entry{Scope: "s", Name: "n", Version: "1.0.0", Yanked: false}

	first, ok := SelectEntry([]Entry{a, b}, "s", "n", "1.0.0")
	if !ok || first.Yanked {
		t.Fatalf("expected the non-yanked entry selected, got %+v ok=%v", first, ok)
	}
	second, ok := SelectEntry([]Entry{b, a}, "s", "n", "1.0.0")
	if !ok || second.Yanked {
		t.Fatalf("expected the non-yanked entry selected (reordered), got %+v ok=%v", second, ok)
	}
}

func TestVerifyRejectsInvalidLockPackageID(t *testing.T) {
	dir := t.TempDir()
	indexPath := writeTempFile(t, dir, "index.json", snapshotDuplicateYanked)
	lockPath := writeTempFile(t, dir, "ddn.lock", `{
		"schema_version": "v1",
		"packages": [{"id": "bad-id-no-slash", "version": "1.0.0"}]
	}`)

	_, err := RunVerify(indexPath, lockPath, ReadGuardOptions{}, false)
	regErr, ok := err.(*Error)
	if !ok || regErr.Code != "E_REG_LOCK_PACKAGE_ID_INVALID" {
		t.Fatalf("err = %v, want E_REG_LOCK_PACKAGE_ID_INVALID", err)
	}
}

func TestVerifyDetectsArchiveMismatch(t *testing.T) {
	dir := t.TempDir()
	indexPath := writeTempFile(t, dir, "index.json", `{
		"schema": "ddn.registry.snapshot.v1",
		"entries": [{"scope":"s","name":"n","version":"1.0.0","archive_sha256":"sha256:aaa"}]
	}`)
	lockPath := writeTempFile(t, dir, "ddn.lock", `{
		"schema_version": "v1",
		"packages": [{"id":"s/n","version":"1.0.0","archive_sha256":"sha256:bbb"}]
	}`)

	_, err := RunVerify(indexPath, lockPath, ReadGuardOptions{}, false)
	regErr, ok := err.(*Error)
	if !ok || regErr.Code != "E_REG_ARCHIVE_SHA256_MISMATCH" {
		t.Fatalf("err = %v, want E_REG_ARCHIVE_SHA256_MISMATCH", err)
	}
}

func TestFrozenLockfileRequiresSnapshotMeta(t *testing.T) {
	dir := t.TempDir()
	indexPath := writeTempFile(t, dir, "index.json", snapshotDuplicateYanked)
	guard := ReadGuardOptions{FrozenLockfile: true}
	if _, err := LoadEntriesWithGuard(indexPath, guard); err == nil {
		t.Fatal("expected E_REG_SNAPSHOT_MISSING when frozen-lockfile has no snapshot metadata")
	}

	indexWithSnapshot := writeTempFile(t, dir, "index_snap.json", `{
		"schema": "ddn.registry.snapshot.v1",
		"snapshot_id": "snap-1",
		"index_root_hash": "blake3:deadbeef",
		"entries": []
	}`)
	if _, err := LoadEntriesWithGuard(indexWithSnapshot, guard); err != nil {
		t.Fatalf("unexpected error with snapshot metadata present: %v", err)
	}
}

func TestBuildVersionsResponseSortsNewestFirst(t *testing.T) {
	entries := []Entry{
		{Scope: "s", Name: "n", Version: "1.0.0"},
		{Scope: "s", Name: "n", Version: "2.1.0"},
		{Scope: "s", Name: "n", Version: "1.5.0"},
	}
	resp, err := BuildVersionsResponse(entries, "s", "n", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2.1.0", "1.5.0", "1.0.0"}
	if len(resp.Versions) != len(want) {
		t.Fatalf("versions = %v, want %v", resp.Versions, want)
	}
	for i, v := range want {
		if resp.Versions[i].Version != v {
			t.Errorf("versions[%d] = %s, want %s", i, resp.Versions[i].Version, v)
		}
	}
}

func TestBuildSearchResponseFiltersByQuery(t *testing.T) {
	entries := []Entry{
		{Scope: "표준", Name: "역학", Version: "1.0.0", Summary: "physics"},
		{Scope: "표준", Name: "문자열", Version: "1.0.0", Summary: "strings"},
	}
	resp, err := BuildSearchResponse(entries, "역학", 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "역학" {
		t.Fatalf("items = %+v, want exactly 역학", resp.Items)
	}
}
