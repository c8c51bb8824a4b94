package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/report"
)

var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Show the detailed stat widget for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, name := range args {
		s, err := db.GetPlayer(name)
		if err != nil {
			return fmt.Errorf("query player %q: %w", name, err)
		}
		if s == nil {
			fmt.Fprintf(os.Stderr, "No data found for player %q\n", name)
			continue
		}
		report.PrintPlayerWidget(os.Stdout, s)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
