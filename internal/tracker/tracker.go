package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/accumulator"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/source"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/store"
)

// ErrNoSources is returned when the log directory holds nothing to import.
var ErrNoSources = errors.New("no sources found")

// ErrNoData is returned for a source with no hands in it.
var ErrNoData = errors.New("no data in source")

// Tracker follows the actively growing session log. Every poll re-runs the
// accumulator over the whole source and keeps an in-memory current total;
// the presented view is persisted + current − baseline, computed field-wise
// and never written back. Only Commit durably merges the delta, exactly
// once, no matter how many polls ran.
type Tracker struct {
	store *store.DB
	src   SessionSource
	rules classifier.Ruleset
	log   zerolog.Logger

	// onUpdate, when set, receives the fresh combined view after every
	// poll that saw new records.
	onUpdate func([]model.PlayerStats)

	mu           sync.Mutex
	currentPath  string
	current      map[string]model.Counters
	baseline     map[string]model.Counters
	lastActionID int64
	tablePlayers []string
}

// New returns a Tracker over the given store and source. onUpdate may be nil.
func New(db *store.DB, src SessionSource, rules classifier.Ruleset, log zerolog.Logger, onUpdate func([]model.PlayerStats)) *Tracker {
	return &Tracker{
		store:    db,
		src:      src,
		rules:    rules,
		log:      log.With().Str("component", "tracker").Logger(),
		onUpdate: onUpdate,
	}
}

// Run polls on the fixed interval until ctx is cancelled, then commits the
// active source's delta. The first poll happens immediately.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	t.poll()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), t.poll); err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	c.Start()
	t.log.Info().Dur("interval", interval).Msg("live tracking started")

	<-ctx.Done()
	stop := c.Stop()
	<-stop.Done()

	t.log.Info().Msg("live tracking stopped, committing session delta")
	return t.Commit()
}

// poll refreshes the current total from the newest session log. Every
// failure in here is transient by design: logged, then retried on the next
// tick.
func (t *Tracker) poll() {
	path, err := t.src.LatestLog()
	if err != nil {
		if errors.Is(err, source.ErrNoLogs) {
			t.log.Debug().Msg("no session log yet")
		} else {
			t.log.Warn().Err(err).Msg("locating session log failed")
		}
		return
	}

	t.mu.Lock()
	switched := path != t.currentPath
	t.mu.Unlock()

	if switched {
		if err := t.switchTo(path); err != nil {
			t.log.Warn().Err(err).Str("path", path).Msg("switching session log failed")
			return
		}
	}

	if err := t.Poll(); err != nil {
		t.log.Warn().Err(err).Str("path", path).Msg("poll failed, retrying next tick")
	}
}

// switchTo commits the previously tracked source, then starts tracking path
// against its persisted baseline (all-zero when the source was never
// imported).
func (t *Tracker) switchTo(path string) error {
	t.mu.Lock()
	hadPrevious := t.currentPath != ""
	t.mu.Unlock()

	if hadPrevious {
		if err := t.Commit(); err != nil {
			return fmt.Errorf("commit previous source: %w", err)
		}
	}

	base, err := t.store.GetBaseline(path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentPath = path
	t.current = nil
	t.lastActionID = 0
	t.tablePlayers = nil
	if base != nil {
		t.baseline = base.Stats
		t.log.Info().Str("path", path).Int64("baseline_action_id", base.LastActionID).
			Msg("tracking session log against existing baseline")
	} else {
		t.baseline = nil
		t.log.Info().Str("path", path).Msg("tracking new session log")
	}
	return nil
}

// Poll re-accumulates the active source. Cheap: bounded by one session's
// action count. Skips the recompute when the source's highest sequence id
// has not advanced.
func (t *Tracker) Poll() error {
	t.mu.Lock()
	path := t.currentPath
	lastSeen := t.lastActionID
	primed := t.current != nil
	t.mu.Unlock()

	if path == "" {
		return nil
	}

	sess, err := t.src.Read(path)
	if err != nil {
		return err
	}
	if primed && sess.MaxActionID <= lastSeen {
		return nil
	}

	stats := accumulator.Accumulate(sess, t.rules)
	current := make(map[string]model.Counters, len(stats))
	for name, s := range stats {
		current[name] = s.Counters
	}

	t.mu.Lock()
	t.current = current
	t.lastActionID = sess.MaxActionID
	t.tablePlayers = sess.TablePlayers
	t.mu.Unlock()

	t.log.Debug().Str("path", path).Int64("max_action_id", sess.MaxActionID).
		Int("players", len(sess.TablePlayers)).Msg("session log re-accumulated")

	if t.onUpdate != nil {
		view, err := t.View()
		if err != nil {
			return err
		}
		t.onUpdate(view)
	}
	return nil
}

// View returns the combined record for every player at the current table:
// persisted totals plus the active source's growth since its baseline. It
// reads the store but never writes it; the result is discarded after each
// presentation refresh.
func (t *Tracker) View() ([]model.PlayerStats, error) {
	t.mu.Lock()
	players := append([]string(nil), t.tablePlayers...)
	current := t.current
	baseline := t.baseline
	path := t.currentPath
	t.mu.Unlock()

	out := make([]model.PlayerStats, 0, len(players))
	for _, name := range players {
		combined := model.PlayerStats{Name: name}

		persisted, err := t.store.GetPlayer(name)
		if err != nil {
			return nil, err
		}
		if persisted != nil {
			combined.Counters = persisted.Counters
		}

		delta, clamped := current[name].Diff(baseline[name])
		if clamped {
			t.log.Warn().Str("player", name).Str("path", path).
				Msg("baseline exceeds current totals, clamping view delta to zero")
		}
		combined.Counters.Add(delta)
		out = append(out, combined)
	}
	return out, nil
}

// Commit durably merges the active source's delta (current − baseline,
// clamped at zero) into the store and overwrites the source's baseline with
// the current totals. Safe to call when nothing was polled; repeated live
// polling never changes persisted totals, only this does.
func (t *Tracker) Commit() error {
	t.mu.Lock()
	path := t.currentPath
	current := t.current
	baseline := t.baseline
	lastActionID := t.lastActionID
	t.mu.Unlock()

	if path == "" || current == nil {
		return nil
	}

	return t.store.WithWriteLock(func() error {
		deltas := make(map[string]model.Counters)
		for name, cur := range current {
			delta, clamped := cur.Diff(baseline[name])
			if clamped {
				t.log.Warn().Str("player", name).Str("path", path).
					Msg("baseline exceeds current totals, clamping committed delta to zero")
			}
			if delta.IsZero() {
				continue
			}
			deltas[name] = delta
		}

		if len(deltas) > 0 {
			if err := t.store.MergeAll(deltas); err != nil {
				return fmt.Errorf("commit session delta: %w", err)
			}
		}
		if err := t.store.PutBaseline(path, lastActionID, current); err != nil {
			return fmt.Errorf("update baseline: %w", err)
		}

		t.mu.Lock()
		t.baseline = current
		t.mu.Unlock()

		t.log.Info().Str("path", path).Int("players", len(deltas)).
			Int64("last_action_id", lastActionID).Msg("session delta committed")
		return nil
	})
}
