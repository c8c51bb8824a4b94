// Package config resolves runtime settings from environment variables with
// sensible defaults rooted in the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. Flags may override individual fields
// after Load.
type Config struct {
	// LogDir is the directory PokerTH writes its session logs to.
	LogDir string `env:"POKERTH_TRACKER_LOG_DIR"`

	// DBPath is the aggregate stats database file.
	DBPath string `env:"POKERTH_TRACKER_DB"`

	// PollInterval is how often the live tracker re-reads the newest log.
	PollInterval time.Duration `env:"POKERTH_TRACKER_POLL_INTERVAL" envDefault:"2s"`
}

// Load reads the environment and fills in home-relative defaults for any
// path left unset: PokerTH's own log directory and a tracker-owned state
// directory for the database.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.LogDir == "" || cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		if cfg.LogDir == "" {
			cfg.LogDir = filepath.Join(home, ".pokerth", "log")
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(home, ".pokerth_tracker", "stats.db")
		}
	}

	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	return cfg, nil
}

// EnsureDBDir creates the parent directory of the database path.
func (c Config) EnsureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return nil
}
