package cli

import (
	"os"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/render"
	"github.com/spf13/cobra"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a single prompt by id",
	Long: `Print a prompt's metadata and body. The id is the filename without
its extension, e.g. "IDEA_ANALYSIS" for ideation/IDEA_ANALYSIS.md.

With --raw only the prompt body is printed, with no metadata header or
styling, ready to pipe into another tool.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print only the prompt body, no styling")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(root)
	if err != nil {
		return err
	}

	p, err := cat.Get(args[0])
	if err != nil {
		return err
	}

	return render.Prompt(os.Stdout, p, showRaw)
}
