package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the catalog database and search index",
	Long: `Walk the whole library, reconcile the catalog database with what is
on disk, and index every prompt for full-text search.

Normally this happens incrementally before each search; index forces a
full pass, which is useful after bulk edits or if the index looks stale.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	mgr, err := newManager(ctx, root, false)
	if err != nil {
		return err
	}
	defer mgr.Stop()

	result, err := mgr.Rebuild(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d prompts (%d updated)\n", result.TotalDiscovered, len(result.FilesNeedingIndex))
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	for _, e := range result.WalkErrors {
		fmt.Printf("  ❌ %s: %v\n", e.Path, e.Err)
	}
	return nil
}
