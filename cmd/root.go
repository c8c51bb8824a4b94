package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/config"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/store"
)

var (
	dbPath  string
	logDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pokerth-tracker",
	Short: "PokerTH hand history statistics tracker",
	Long: "Compute and track per-player poker statistics (VPIP, PFR, AF, 3-bet, " +
		"c-bet, WTSD, W$SD) from PokerTH session logs, in batch or live.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to stats database (default $HOME/.pokerth_tracker/stats.db)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "PokerTH session log directory (default $HOME/.pokerth/log)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig resolves the environment-backed configuration, then lets the
// persistent flags win.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func openStore(cfg config.Config) (*store.DB, error) {
	if err := cfg.EnsureDBDir(); err != nil {
		return nil, err
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}
	return db, nil
}
