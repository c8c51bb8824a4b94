package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearForce bool

// clearCmd wipes all aggregates and the baseline ledger.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored stats and baselines",
	Long: "Empty the stats database: every player aggregate and every source " +
		"baseline is removed. Run 'pokerth-tracker import' afterwards to rebuild.",
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !clearForce {
		fmt.Fprintf(os.Stderr, "This will permanently clear all stats in: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.WithWriteLock(db.ClearAll); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Cleared: %s\n", cfg.DBPath)
	return nil
}
