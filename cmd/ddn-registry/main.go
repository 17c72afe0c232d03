// Command ddn-registry is the read-path CLI surface spec §6 names:
// registry versions|entry|search|verify|audit-verify, plus download and
// the publish/yank commands stubbed as E_REG_NOT_IMPLEMENTED (spec.md
// treats registry-publish auth and the download filesystem harness as
// external collaborators, out of scope for the core).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tongosu/ddonilang/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ddn-registry",
		Short:         "Inspect and verify a ddonilang package registry index",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(
		newVersionsCmd(),
		newEntryCmd(),
		newSearchCmd(),
		newVerifyCmd(),
		newAuditVerifyCmd(),
		newNotImplementedCmd("download"),
		newNotImplementedCmd("publish"),
		newNotImplementedCmd("yank"),
	)
	return root
}

func newNotImplementedCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: name + " is not implemented by this read-path CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return &registry.Error{
				Code:    "E_REG_NOT_IMPLEMENTED",
				Message: name + " is handled by the external publish/download harness",
				Hint:    "레지스트리 배포/다운로드 하네스를 사용하세요.",
			}
		},
	}
}

func printJSON(v any) error {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(text))
	return nil
}

func readGuardFlags(cmd *cobra.Command) registry.ReadGuardOptions {
	frozen, _ := cmd.Flags().GetBool("frozen-lockfile")
	snapshotID, _ := cmd.Flags().GetString("expect-snapshot-id")
	indexRootHash, _ := cmd.Flags().GetString("expect-index-root-hash")
	trustRootHash, _ := cmd.Flags().GetString("expect-trust-root-hash")
	requireTrustRoot, _ := cmd.Flags().GetBool("require-trust-root")
	return registry.ReadGuardOptions{
		FrozenLockfile:      frozen,
		ExpectSnapshotID:    snapshotID,
		ExpectIndexRootHash: indexRootHash,
		ExpectTrustRootHash: trustRootHash,
		RequireTrustRoot:    requireTrustRoot,
	}
}

func addReadGuardFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("frozen-lockfile", false, "require the index to carry a matching registry_snapshot")
	cmd.Flags().String("expect-snapshot-id", "", "require registry_snapshot.snapshot_id to equal this value")
	cmd.Flags().String("expect-index-root-hash", "", "require index_root_hash to equal this value")
	cmd.Flags().String("expect-trust-root-hash", "", "require trust_root.hash to equal this value")
	cmd.Flags().Bool("require-trust-root", false, "require a trust_root.hash to be present")
}

func resolveGuard(cmd *cobra.Command, lockPath string) (registry.ReadGuardOptions, error) {
	guard := readGuardFlags(cmd)
	return registry.BuildReadGuard(lockPath, guard)
}

func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "list every version of a package",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetString("index")
			lock, _ := cmd.Flags().GetString("lock")
			scope, _ := cmd.Flags().GetString("scope")
			name, _ := cmd.Flags().GetString("name")
			includeYanked, _ := cmd.Flags().GetBool("include-yanked")

			guard, err := resolveGuard(cmd, lock)
			if err != nil {
				return err
			}
			entries, err := registry.LoadEntriesWithGuard(index, guard)
			if err != nil {
				return err
			}
			resp, err := registry.BuildVersionsResponse(entries, scope, name, includeYanked)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().String("index", "", "path to the registry index snapshot")
	cmd.Flags().String("lock", "", "path to ddn.lock (used to seed read-guard defaults)")
	cmd.Flags().String("scope", "", "package scope")
	cmd.Flags().String("name", "", "package name")
	cmd.Flags().Bool("include-yanked", false, "include yanked versions")
	addReadGuardFlags(cmd)
	return cmd
}

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "show one package version's index entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetString("index")
			lock, _ := cmd.Flags().GetString("lock")
			scope, _ := cmd.Flags().GetString("scope")
			name, _ := cmd.Flags().GetString("name")
			version, _ := cmd.Flags().GetString("version")

			guard, err := resolveGuard(cmd, lock)
			if err != nil {
				return err
			}
			entries, err := registry.LoadEntriesWithGuard(index, guard)
			if err != nil {
				return err
			}
			resp, err := registry.BuildEntryResponse(entries, scope, name, version)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().String("index", "", "path to the registry index snapshot")
	cmd.Flags().String("lock", "", "path to ddn.lock (used to seed read-guard defaults)")
	cmd.Flags().String("scope", "", "package scope")
	cmd.Flags().String("name", "", "package name")
	cmd.Flags().String("version", "", "package version")
	addReadGuardFlags(cmd)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "search packages by scope/name substring",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetString("index")
			lock, _ := cmd.Flags().GetString("lock")
			query, _ := cmd.Flags().GetString("query")
			includeYanked, _ := cmd.Flags().GetBool("include-yanked")

			guard, err := resolveGuard(cmd, lock)
			if err != nil {
				return err
			}
			entries, err := registry.LoadEntriesWithGuard(index, guard)
			if err != nil {
				return err
			}
			resp, err := registry.BuildSearchResponse(entries, query, limit, includeYanked)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().String("index", "", "path to the registry index snapshot")
	cmd.Flags().String("lock", "", "path to ddn.lock (used to seed read-guard defaults)")
	cmd.Flags().String("query", "", "substring to match against scope/name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results (0 = unlimited)")
	cmd.Flags().Bool("include-yanked", false, "include yanked packages")
	addReadGuardFlags(cmd)
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "verify ddn.lock pins against the registry index",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetString("index")
			lock, _ := cmd.Flags().GetString("lock")
			denyYankedLocked, _ := cmd.Flags().GetBool("deny-yanked-locked")
			out, _ := cmd.Flags().GetString("out")

			guard, err := resolveGuard(cmd, lock)
			if err != nil {
				return err
			}
			report, err := registry.RunVerify(index, lock, guard, denyYankedLocked)
			if err != nil {
				return err
			}
			if out != "" {
				if err := registry.WriteVerifyReport(out, report); err != nil {
					return err
				}
			}
			return printJSON(report)
		},
	}
	cmd.Flags().String("index", "", "path to the registry index snapshot")
	cmd.Flags().String("lock", "", "path to ddn.lock")
	cmd.Flags().Bool("deny-yanked-locked", false, "fail if any matched pin is yanked in either document")
	cmd.Flags().String("out", "", "write the verify report as JSON to this path")
	addReadGuardFlags(cmd)
	return cmd
}

func newAuditVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit-verify",
		Short: "verify the registry audit log's hash chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			auditLog, _ := cmd.Flags().GetString("audit-log")
			out, _ := cmd.Flags().GetString("audit-out")
			expectLastHash, _ := cmd.Flags().GetString("expect-audit-last-hash")

			report, err := registry.RunAuditVerify(auditLog)
			if err != nil {
				return err
			}
			if err := registry.EnsureExpectedAuditLastHash(report, expectLastHash); err != nil {
				return err
			}
			if out != "" {
				if err := registry.WriteAuditVerifyReport(out, report); err != nil {
					return err
				}
			}
			return printJSON(report)
		},
	}
	cmd.Flags().String("audit-log", "", "path to the audit log (JSON-Lines)")
	cmd.Flags().String("audit-out", "", "write the audit-verify report as JSON to this path")
	cmd.Flags().String("expect-audit-last-hash", "", "require the chain's final row_hash to equal this value")
	return cmd
}
