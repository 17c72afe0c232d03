package registry

import (
	"encoding/json"
	"fmt"
)

// ReadGuardOptions is the frozen-snapshot / trust-root assertion set a
// caller can require of an index before trusting its contents (spec
// §4.12 "Frozen-lockfile"; flag names from spec §6's CLI surface
// table, validation order from gaji_registry.rs's build_read_guard).
type ReadGuardOptions struct {
	FrozenLockfile      bool
	ExpectSnapshotID    string
	ExpectIndexRootHash string
	ExpectTrustRootHash string
	RequireTrustRoot    bool
}

func (g ReadGuardOptions) enabled() bool {
	return g.FrozenLockfile || g.ExpectSnapshotID != "" || g.ExpectIndexRootHash != "" ||
		g.ExpectTrustRootHash != "" || g.RequireTrustRoot
}

// BuildReadGuard folds a lock file's own pinned registry_snapshot/
// trust_root values into guard wherever the caller left the
// corresponding Expect* field unset, then enforces that
// frozen-lockfile has enough to check against.
func BuildReadGuard(lockPath string, guard ReadGuardOptions) (ReadGuardOptions, error) {
	if lockPath == "" {
		return guard, nil
	}
	meta, err := readLockGuardMeta(lockPath)
	if err != nil {
		return ReadGuardOptions{}, err
	}
	if guard.ExpectSnapshotID == "" {
		guard.ExpectSnapshotID = meta.SnapshotID
	}
	if guard.ExpectIndexRootHash == "" {
		guard.ExpectIndexRootHash = meta.IndexRootHash
	}
	if guard.ExpectTrustRootHash == "" {
		guard.ExpectTrustRootHash = meta.TrustRootHash
	}
	if guard.FrozenLockfile && (guard.ExpectSnapshotID == "" || guard.ExpectIndexRootHash == "") {
		return ReadGuardOptions{}, newErr("E_REG_SNAPSHOT_MISSING",
			"frozen-lockfile requires ddn.lock registry_snapshot(snapshot_id/index_root_hash)",
			"", "ddn.lock에 registry_snapshot.snapshot_id/index_root_hash를 채우세요.")
	}
	return guard, nil
}

func validateIndexReadGuard(root map[string]json.RawMessage, guard ReadGuardOptions) error {
	if !guard.enabled() {
		return nil
	}
	meta := snapshotMetaFromRoot(root)

	if guard.FrozenLockfile && (meta.SnapshotID == "" || meta.IndexRootHash == "") {
		return newErr("E_REG_SNAPSHOT_MISSING",
			"frozen-lockfile requires registry_snapshot(snapshot_id/index_root_hash)",
			"", "index에 snapshot_id/index_root_hash를 포함시키세요.")
	}

	if guard.ExpectSnapshotID != "" {
		if meta.SnapshotID == "" {
			return newErr("E_REG_SNAPSHOT_MISSING", "registry_snapshot.snapshot_id is missing", "", "index snapshot_id를 채우세요.")
		}
		if meta.SnapshotID != guard.ExpectSnapshotID {
			return newErr("E_REG_SNAPSHOT_MISMATCH",
				fmt.Sprintf("expected=%s actual=%s", guard.ExpectSnapshotID, meta.SnapshotID),
				"", "요구 snapshot_id와 index snapshot_id를 일치시키세요.")
		}
	}

	if guard.ExpectIndexRootHash != "" {
		if meta.IndexRootHash == "" {
			return newErr("E_REG_INDEX_ROOT_HASH_MISMATCH", "expected=<given> actual=<missing>", "", "index_root_hash를 index에 포함시키세요.")
		}
		if meta.IndexRootHash != guard.ExpectIndexRootHash {
			return newErr("E_REG_INDEX_ROOT_HASH_MISMATCH",
				fmt.Sprintf("expected=%s actual=%s", guard.ExpectIndexRootHash, meta.IndexRootHash),
				"", "요구 index_root_hash와 실제 값을 일치시키세요.")
		}
	}

	if guard.RequireTrustRoot && meta.TrustRootHash == "" {
		return newErr("E_REG_TRUST_ROOT_INVALID", "trust_root.hash is missing", "", "index에 trust_root.hash를 포함시키세요.")
	}
	if guard.ExpectTrustRootHash != "" {
		if meta.TrustRootHash == "" {
			return newErr("E_REG_TRUST_ROOT_INVALID", "trust_root.hash is missing", "", "index에 trust_root.hash를 포함시키세요.")
		}
		if meta.TrustRootHash != guard.ExpectTrustRootHash {
			return newErr("E_REG_TRUST_ROOT_INVALID",
				fmt.Sprintf("expected=%s actual=%s", guard.ExpectTrustRootHash, meta.TrustRootHash),
				"", "요구 trust_root_hash와 index trust_root.hash를 일치시키세요.")
		}
	}
	return nil
}
