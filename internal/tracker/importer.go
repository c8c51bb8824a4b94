// Package tracker orchestrates the two write paths over the stats store:
// one-shot batch import of closed session logs and live tracking of the
// session log the game is still appending to. Both paths keep the same
// invariant: a source's persisted contribution always equals the last full
// accumulation committed for it, no matter how often it is re-read.
package tracker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/accumulator"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/store"
)

// SessionSource is the read contract the tracker needs from the log
// directory. *source.Dir implements it.
type SessionSource interface {
	Read(path string) (*model.SessionLog, error)
	ListLogs() ([]string, error)
	LatestLog() (string, error)
}

// Importer rebuilds the aggregate store from every session log in the
// directory.
type Importer struct {
	store *store.DB
	src   SessionSource
	rules classifier.Ruleset
	log   zerolog.Logger
}

// NewImporter returns an Importer over the given store and source.
func NewImporter(db *store.DB, src SessionSource, rules classifier.Ruleset, log zerolog.Logger) *Importer {
	return &Importer{
		store: db,
		src:   src,
		rules: rules,
		log:   log.With().Str("component", "importer").Logger(),
	}
}

// ImportResult reports how a batch import went.
type ImportResult struct {
	Imported int
	Failed   []string
}

// Run clears the store once, then accumulates and merges every session log,
// writing a baseline per source. Sources in one batch are assumed disjoint
// in content, so each full accumulation merges directly. A failing source is
// skipped and reported; the rest of the batch continues. Cancellation is
// honored between sources, never mid-source, so the store is always left at
// the state of the last fully merged source with no partial baseline.
func (im *Importer) Run(ctx context.Context) (ImportResult, error) {
	var res ImportResult

	logs, err := im.src.ListLogs()
	if err != nil {
		return res, err
	}
	if len(logs) == 0 {
		return res, fmt.Errorf("import: %w", ErrNoSources)
	}

	err = im.store.WithWriteLock(func() error {
		if err := im.store.ClearAll(); err != nil {
			return fmt.Errorf("clear store before import: %w", err)
		}

		for i, path := range logs {
			select {
			case <-ctx.Done():
				im.log.Warn().Int("imported", res.Imported).Int("remaining", len(logs)-i).
					Msg("import cancelled between sources")
				return ctx.Err()
			default:
			}

			im.log.Info().Int("current", i+1).Int("total", len(logs)).Str("path", path).
				Msg("importing session log")

			if err := im.importOne(path); err != nil {
				im.log.Error().Err(err).Str("path", path).
					Msg("import failed for source, continuing with others")
				res.Failed = append(res.Failed, path)
				continue
			}
			res.Imported++
		}
		return nil
	})
	return res, err
}

func (im *Importer) importOne(path string) error {
	sess, err := im.src.Read(path)
	if err != nil {
		return err
	}
	if len(sess.Hands) == 0 {
		return fmt.Errorf("%w: %s", ErrNoData, path)
	}

	stats := accumulator.Accumulate(sess, im.rules)
	deltas := make(map[string]model.Counters, len(stats))
	for name, s := range stats {
		deltas[name] = s.Counters
	}

	if err := im.store.MergeAll(deltas); err != nil {
		return err
	}
	return im.store.PutBaseline(path, sess.MaxActionID, deltas)
}
