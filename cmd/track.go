package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/report"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/source"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/tracker"
)

var (
	trackInterval time.Duration
	trackFocus    string
)

var trackCmd = &cobra.Command{
	Use:   "track [log-dir]",
	Short: "Follow the running game and show live stats",
	Long: "Poll the newest PokerTH session log and print the combined HUD " +
		"(career totals plus the running session) whenever new hands appear. " +
		"The session delta is merged into the database once, on exit.",
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().DurationVar(&trackInterval, "interval", 0, "poll interval (default from POKERTH_TRACKER_POLL_INTERVAL, 2s)")
	trackCmd.Flags().StringVar(&trackFocus, "player", "", "highlight this player's row")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.LogDir = args[0]
	}
	if trackInterval > 0 {
		cfg.PollInterval = trackInterval
	}
	logger := newLogger()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	onUpdate := func(stats []model.PlayerStats) {
		fmt.Fprintf(os.Stdout, "\n--- %s ---\n", time.Now().Format("15:04:05"))
		report.PrintHUDTable(stats, trackFocus)
	}

	t := tracker.New(db, source.NewDir(cfg.LogDir, logger), classifier.DefaultRules(), logger, onUpdate)

	fmt.Fprintf(os.Stdout, "Tracking %s every %s. Ctrl-C to stop and save.\n", cfg.LogDir, cfg.PollInterval)
	if err := t.Run(ctx, cfg.PollInterval); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	fmt.Fprintln(os.Stdout, "Session saved.")
	return nil
}
