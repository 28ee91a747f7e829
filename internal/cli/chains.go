package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
	"github.com/promptdex/promptdex/internal/render"
	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List suggested prompt chains",
	Long: `List the suggested chains defined in chains.yaml at the library root,
falling back to the built-in defaults when no manifest exists.

Chains that reference prompts missing from the library are still shown;
the missing references are reported as advisory notes, never errors.`,
	RunE: runChainsList,
}

var chainsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one chain and its prompts",
	Args:  cobra.ExactArgs(1),
	RunE:  runChainsShow,
}

var chainsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check chains against the catalog",
	Long: `Report every chain step that references a prompt id not present in
the library. Exits non-zero when issues are found, for use in CI.`,
	RunE: runChainsCheck,
}

func init() {
	chainsCmd.AddCommand(chainsShowCmd)
	chainsCmd.AddCommand(chainsCheckCmd)
	rootCmd.AddCommand(chainsCmd)
}

func loadChainsAndCatalog() (*chain.Manifest, *catalog.Catalog, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, nil, err
	}

	manifest, err := chain.LoadManifest(root)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load(root)
	if err != nil {
		return nil, nil, err
	}

	return manifest, cat, nil
}

func runChainsList(cmd *cobra.Command, args []string) error {
	manifest, cat, err := loadChainsAndCatalog()
	if err != nil {
		return err
	}

	issues := chain.Check(manifest.Chains, cat.Registry)
	return render.Chains(os.Stdout, manifest.Chains, issues)
}

func runChainsShow(cmd *cobra.Command, args []string) error {
	manifest, cat, err := loadChainsAndCatalog()
	if err != nil {
		return err
	}

	c, err := manifest.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", c.Name)
	if c.Description != "" {
		fmt.Printf("%s\n", c.Description)
	}
	fmt.Println()
	for i, id := range c.Prompts {
		marker := " "
		title := ""
		if p, pErr := cat.Get(id); pErr == nil {
			title = p.Title
		} else {
			marker = "!"
			title = "(missing from library)"
		}
		fmt.Printf("  %d. %s %-28s %s\n", i+1, marker, id, title)
	}
	return nil
}

func runChainsCheck(cmd *cobra.Command, args []string) error {
	manifest, cat, err := loadChainsAndCatalog()
	if err != nil {
		return err
	}

	issues := chain.Check(manifest.Chains, cat.Registry)
	if len(issues) == 0 {
		fmt.Printf("All %d chains resolve against the catalog.\n", len(manifest.Chains))
		return nil
	}

	var b strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&b, "  %s\n", issue)
	}
	return fmt.Errorf("%d unresolved chain references:\n%s", len(issues), b.String())
}
