package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/library"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Scaffold a new prompt library",
	Long: `Scaffold a prompt library at the given path (default: current directory).

Creates:
  critical/ business/ ideation/ automation/ personal/ utility/
  chains.yaml       # Suggested chain definitions
  starter prompts   # A small set of ready-to-use templates

Existing files are never overwritten, so init is safe to re-run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("failed to create library root: %w", err)
	}

	if err := library.Scaffold(abs); err != nil {
		return err
	}

	starters, err := library.StarterPromptIDs()
	if err != nil {
		return err
	}

	fmt.Printf("Initialized prompt library at %s\n", abs)
	fmt.Println()
	fmt.Println("Categories:")
	for _, c := range catalog.Categories {
		fmt.Printf("  %s/\n", c)
	}
	fmt.Println()
	fmt.Printf("Starter prompts: %d installed\n", len(starters))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Drop your prompt templates into the category directories")
	fmt.Println("  2. Run: promptdex list")

	return nil
}
