package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/config"
	"github.com/promptdex/promptdex/internal/library"
	"github.com/spf13/cobra"
)

var flagLibrary string

var rootCmd = &cobra.Command{
	Use:   "promptdex",
	Short: "Promptdex - a catalog for your prompt template library",
	Long: `Promptdex indexes a directory of prompt templates organized by category
and gives you fast listing, search, and chain suggestions over it.

Workflow:
  promptdex init                  Scaffold a new library with starter prompts
  promptdex list                  Show the catalog grouped by category
  promptdex show IDEA_ANALYSIS    Print a single prompt
  promptdex search "market"       Full-text search across the library
  promptdex chains                Show suggested prompt chains
  promptdex toc                   Generate a markdown table of contents

Commands:
  init        Scaffold a library (categories, starter prompts, chains.yaml)
  index       Rebuild the catalog database and search index
  list        List prompts grouped by category
  show        Print a single prompt by id
  search      Full-text search over titles, descriptions, and bodies
  chains      List, show, and check suggested chains
  toc         Render the catalog as markdown
  watch       Keep the index fresh while you edit prompts
  stats       Show library statistics
  config      Show or change configuration
  version     Show version info`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLibrary, "library", "", "path to the prompt library root (default: auto-detect)")
}

// resolveRoot picks the library root from the --library flag, the saved
// configuration, or upward detection from the working directory.
func resolveRoot() (string, error) {
	explicit := flagLibrary
	if explicit == "" {
		if cfg, err := loadConfig(); err == nil && cfg.LibraryRoot != "" {
			explicit = cfg.LibraryRoot
		}
	}
	return library.FindRoot(explicit)
}

func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return mgr.Load()
}

// newManager assembles a catalog manager for the given library root,
// backed by the per-library database under .promptdex/.
func newManager(ctx context.Context, root string, enableWatcher bool) (*catalog.Manager, error) {
	dbPath, err := config.LibraryDBPath(root)
	if err != nil {
		return nil, err
	}

	libraryID, err := config.LibraryID(root)
	if err != nil {
		return nil, err
	}

	return catalog.NewManager(ctx, catalog.ManagerConfig{
		DBPath:        dbPath,
		LibraryID:     libraryID,
		Root:          root,
		EnableWatcher: enableWatcher,
	})
}

// parseCategoryFlag validates an optional --category value.
func parseCategoryFlag(value string) (catalog.Category, error) {
	if value == "" {
		return "", nil
	}
	cat, ok := catalog.ParseCategory(value)
	if !ok {
		return "", fmt.Errorf("unknown category %q (valid: %v)", value, catalog.Categories)
	}
	return cat, nil
}
