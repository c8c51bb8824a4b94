package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/report"
)

var showFocus string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored aggregate stats for all players",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocus, "player", "", "highlight this player's row")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.AllPlayers()
	if err != nil {
		return fmt.Errorf("query players: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(os.Stdout, "No stats stored yet. Run 'pokerth-tracker import' to build them.")
		return nil
	}

	report.PrintHUDTable(stats, showFocus)
	return nil
}
