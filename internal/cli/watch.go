package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index fresh while you edit prompts",
	Long: `Run the catalog manager in the foreground: watch the library for file
changes, re-index edited prompts after a short debounce, and run a
periodic safety scan. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	mgr, err := newManager(ctx, root, true)
	if err != nil {
		return err
	}
	defer mgr.Stop()

	if _, err := mgr.Rebuild(ctx); err != nil {
		return err
	}
	if err := mgr.Start(); err != nil {
		return err
	}

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", root)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	fmt.Println("Stopping...")
	return nil
}
