package cli

import (
	"fmt"
	"os"

	"github.com/promptdex/promptdex/internal/render"
	"github.com/spf13/cobra"
)

var (
	searchLimit    int
	searchCategory string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the library",
	Long: `Search prompt titles, descriptions, usage notes, tags, and bodies.

The search index lives under .promptdex/ in the library root and is
refreshed before every query, so results always reflect what is on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict to one category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	filter, err := parseCategoryFlag(searchCategory)
	if err != nil {
		return err
	}

	limit := searchLimit
	autoIndex := true
	if cfg, cfgErr := loadConfig(); cfgErr == nil {
		if limit <= 0 && cfg.SearchLimit > 0 {
			limit = cfg.SearchLimit
		}
		autoIndex = cfg.AutoIndex
	}
	if limit <= 0 {
		limit = 10
	}

	ctx := cmd.Context()
	mgr, err := newManager(ctx, root, false)
	if err != nil {
		return err
	}
	defer mgr.Stop()

	if autoIndex {
		if err := mgr.Refresh(ctx, 0); err != nil {
			return fmt.Errorf("failed to refresh index: %w", err)
		}
	}

	results, err := mgr.Search(ctx, args[0], filter, limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	return render.SearchResults(os.Stdout, results)
}
