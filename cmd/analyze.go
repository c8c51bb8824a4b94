package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/accumulator"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/report"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/source"
)

var analyzeFocus string

// analyzeCmd computes stats for a single session log without touching the
// database. Useful for inspecting a log before importing it.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <session.pdb>",
	Short: "Compute stats for one session log, without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFocus, "player", "", "highlight this player's row")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := newLogger()

	dir := source.NewDir(filepath.Dir(path), logger)
	sess, err := dir.Read(path)
	if err != nil {
		return fmt.Errorf("read session log: %w", err)
	}

	byName := accumulator.Accumulate(sess, classifier.DefaultRules())
	stats := make([]model.PlayerStats, 0, len(byName))
	for _, s := range byName {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalHands != stats[j].TotalHands {
			return stats[i].TotalHands > stats[j].TotalHands
		}
		return stats[i].Name < stats[j].Name
	})

	report.PrintSessionSummary(cmd.OutOrStdout(), sess)
	report.PrintHUDTable(stats, analyzeFocus)
	return nil
}
