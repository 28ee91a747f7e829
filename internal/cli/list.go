package cli

import (
	"fmt"
	"os"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
	"github.com/promptdex/promptdex/internal/render"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listFormat   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts grouped by category",
	Long: `List every prompt in the library, grouped by category in the standard
order (critical, business, ideation, automation, personal, utility).
Empty categories are shown so gaps in the library are visible.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only show one category")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "", "output format: term or markdown")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(root)
	if err != nil {
		return err
	}

	filter, err := parseCategoryFlag(listCategory)
	if err != nil {
		return err
	}
	if filter != "" {
		return listOneCategory(cat, filter)
	}

	format := listFormat
	if format == "" {
		if cfg, cfgErr := loadConfig(); cfgErr == nil {
			format = cfg.DefaultFormat
		}
	}

	if format == "markdown" || format == "md" {
		manifest, mErr := chain.LoadManifest(root)
		if mErr != nil {
			return mErr
		}
		return render.Markdown(os.Stdout, cat, manifest.Chains)
	}
	return render.Terminal(os.Stdout, cat)
}

func listOneCategory(cat *catalog.Catalog, filter catalog.Category) error {
	prompts := cat.ByCategory(filter)
	if len(prompts) == 0 {
		fmt.Printf("No prompts in category %s\n", filter)
		return nil
	}
	for _, p := range prompts {
		fmt.Printf("%-28s %s\n", p.ID, p.Title)
	}
	return nil
}
