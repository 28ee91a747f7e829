package cli

import (
	"fmt"
	"os"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
	"github.com/promptdex/promptdex/internal/render"
	"github.com/spf13/cobra"
)

var tocOut string

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Render the catalog as a markdown table of contents",
	Long: `Render the whole catalog as markdown: one section per category with a
table of prompts, followed by the suggested chains. Useful for keeping a
README or index page in sync with the library.`,
	RunE: runToc,
}

func init() {
	tocCmd.Flags().StringVarP(&tocOut, "out", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(tocCmd)
}

func runToc(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(root)
	if err != nil {
		return err
	}

	manifest, err := chain.LoadManifest(root)
	if err != nil {
		return err
	}

	if tocOut == "" {
		return render.Markdown(os.Stdout, cat, manifest.Chains)
	}

	f, err := os.Create(tocOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tocOut, err)
	}
	defer f.Close()

	if err := render.Markdown(f, cat, manifest.Chains); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", tocOut)
	return nil
}
