package cli

import (
	"fmt"
	"strconv"

	"github.com/promptdex/promptdex/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value and persist it.

Keys:
  library_root    default library path used when --library is not given
  default_format  list output format: term or markdown
  search_limit    default number of search results
  auto_index      whether search refreshes the index first (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	mgr, err := config.NewManager()
	if err != nil {
		return err
	}

	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	fmt.Printf("config file:    %s", mgr.GetConfigPath())
	if !mgr.Exists() {
		fmt.Print(" (not created yet, showing defaults)")
	}
	fmt.Println()
	fmt.Printf("library_root:   %s\n", orUnset(cfg.LibraryRoot))
	fmt.Printf("default_format: %s\n", cfg.DefaultFormat)
	fmt.Printf("search_limit:   %d\n", cfg.SearchLimit)
	fmt.Printf("auto_index:     %t\n", cfg.AutoIndex)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	mgr, err := config.NewManager()
	if err != nil {
		return err
	}
	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	switch key {
	case "library_root":
		cfg.LibraryRoot = value
	case "default_format":
		if value != "term" && value != "markdown" {
			return fmt.Errorf("default_format must be term or markdown")
		}
		cfg.DefaultFormat = value
	case "search_limit":
		n, convErr := strconv.Atoi(value)
		if convErr != nil || n <= 0 {
			return fmt.Errorf("search_limit must be a positive integer")
		}
		cfg.SearchLimit = n
	case "auto_index":
		b, convErr := strconv.ParseBool(value)
		if convErr != nil {
			return fmt.Errorf("auto_index must be true or false")
		}
		cfg.AutoIndex = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := mgr.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
