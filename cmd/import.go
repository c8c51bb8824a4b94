package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/report"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/source"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/tracker"
)

var importCmd = &cobra.Command{
	Use:   "import [log-dir]",
	Short: "Rebuild aggregate stats from every session log",
	Long: "Clear the stats database, then re-read every PokerTH session log in " +
		"the log directory and rebuild all per-player aggregates from scratch.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.LogDir = args[0]
	}
	logger := newLogger()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	im := tracker.NewImporter(db, source.NewDir(cfg.LogDir, logger), classifier.DefaultRules(), logger)
	res, err := im.Run(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Imported %d session log(s) from %s\n", res.Imported, cfg.LogDir)
	for _, path := range res.Failed {
		fmt.Fprintf(os.Stdout, "  failed: %s\n", path)
	}

	stats, err := db.AllPlayers()
	if err != nil {
		return fmt.Errorf("read back stats: %w", err)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintHUDTable(stats, "")
	return nil
}
