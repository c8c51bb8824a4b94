package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/source"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List session logs and their import state",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	dir := source.NewDir(cfg.LogDir, logger)
	logs, err := dir.ListLogs()
	if err != nil {
		return fmt.Errorf("list session logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintf(os.Stdout, "No session logs found in %s\n", cfg.LogDir)
		return nil
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	baselines, err := db.ListBaselines()
	if err != nil {
		return fmt.Errorf("list baselines: %w", err)
	}
	byPath := make(map[string]int64, len(baselines))
	for _, b := range baselines {
		byPath[b.SourcePath] = b.LastActionID
	}

	latest, err := dir.LatestLog()
	if err != nil && !errors.Is(err, source.ErrNoLogs) {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-12s  %-10s  %-8s  %s\n",
		"LOG", "DATE", "POKERTH", "STATE", "LAST_ACTION")
	for _, path := range logs {
		date, version := "?", "?"
		if info, err := dir.ReadInfo(path); err == nil {
			date = info.Date
			version = info.Version
		}
		state := "new"
		lastAction := "—"
		if id, ok := byPath[path]; ok {
			state = "imported"
			lastAction = fmt.Sprintf("%d", id)
		}
		if path == latest {
			state += " *"
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-12s  %-10s  %-8s  %s\n",
			filepath.Base(path), date, version, state, lastAction)
	}
	fmt.Fprintln(os.Stdout, "\n* newest log (the one 'track' follows)")
	return nil
}
