package store

import (
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const counterColumns = `total_hands, vpip_hands, pfr_hands, total_bets, total_calls,
	three_bet_opportunities, three_bet_made, cbet_opportunities, cbet_made,
	fold_to_3bet_opportunities, fold_to_3bet_made,
	fold_to_cbet_opportunities, fold_to_cbet_made,
	hands_saw_flop, hands_went_to_showdown, showdowns_won`

// MergePlayer adds delta field-wise into the persisted record for the
// player, creating it when absent. The single upsert statement makes the
// read-modify-write atomic, so concurrent merges never lose updates.
// The import and commit paths always merge whole sessions and use MergeAll,
// the transactional batch form of this operation.
func (db *DB) MergePlayer(name string, delta model.Counters) error {
	args := append([]any{name}, counterArgs(delta)...)
	_, err := db.conn.Exec(`
		INSERT INTO player_stats (player_name, `+counterColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(player_name) DO UPDATE SET
			total_hands = total_hands + excluded.total_hands,
			vpip_hands = vpip_hands + excluded.vpip_hands,
			pfr_hands = pfr_hands + excluded.pfr_hands,
			total_bets = total_bets + excluded.total_bets,
			total_calls = total_calls + excluded.total_calls,
			three_bet_opportunities = three_bet_opportunities + excluded.three_bet_opportunities,
			three_bet_made = three_bet_made + excluded.three_bet_made,
			cbet_opportunities = cbet_opportunities + excluded.cbet_opportunities,
			cbet_made = cbet_made + excluded.cbet_made,
			fold_to_3bet_opportunities = fold_to_3bet_opportunities + excluded.fold_to_3bet_opportunities,
			fold_to_3bet_made = fold_to_3bet_made + excluded.fold_to_3bet_made,
			fold_to_cbet_opportunities = fold_to_cbet_opportunities + excluded.fold_to_cbet_opportunities,
			fold_to_cbet_made = fold_to_cbet_made + excluded.fold_to_cbet_made,
			hands_saw_flop = hands_saw_flop + excluded.hands_saw_flop,
			hands_went_to_showdown = hands_went_to_showdown + excluded.hands_went_to_showdown,
			showdowns_won = showdowns_won + excluded.showdowns_won,
			last_updated = CURRENT_TIMESTAMP`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("merge player %s: %w", name, err)
	}
	return nil
}

// MergeAll merges a batch of deltas in one transaction, so readers never
// observe a partial merge.
func (db *DB) MergeAll(deltas map[string]model.Counters) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO player_stats (player_name, ` + counterColumns + `)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(player_name) DO UPDATE SET
			total_hands = total_hands + excluded.total_hands,
			vpip_hands = vpip_hands + excluded.vpip_hands,
			pfr_hands = pfr_hands + excluded.pfr_hands,
			total_bets = total_bets + excluded.total_bets,
			total_calls = total_calls + excluded.total_calls,
			three_bet_opportunities = three_bet_opportunities + excluded.three_bet_opportunities,
			three_bet_made = three_bet_made + excluded.three_bet_made,
			cbet_opportunities = cbet_opportunities + excluded.cbet_opportunities,
			cbet_made = cbet_made + excluded.cbet_made,
			fold_to_3bet_opportunities = fold_to_3bet_opportunities + excluded.fold_to_3bet_opportunities,
			fold_to_3bet_made = fold_to_3bet_made + excluded.fold_to_3bet_made,
			fold_to_cbet_opportunities = fold_to_cbet_opportunities + excluded.fold_to_cbet_opportunities,
			fold_to_cbet_made = fold_to_cbet_made + excluded.fold_to_cbet_made,
			hands_saw_flop = hands_saw_flop + excluded.hands_saw_flop,
			hands_went_to_showdown = hands_went_to_showdown + excluded.hands_went_to_showdown,
			showdowns_won = showdowns_won + excluded.showdowns_won,
			last_updated = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, delta := range deltas {
		if _, err := stmt.Exec(append([]any{name}, counterArgs(delta)...)...); err != nil {
			return fmt.Errorf("merge player %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// GetPlayer returns the persisted record for a player, or nil when the
// player has never been merged.
func (db *DB) GetPlayer(name string) (*model.PlayerStats, error) {
	row := db.conn.QueryRow(
		"SELECT player_name, "+counterColumns+" FROM player_stats WHERE player_name = ?", name)
	s, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", name, err)
	}
	return s, nil
}

// AllPlayers returns every persisted record, most-played first.
func (db *DB) AllPlayers() ([]model.PlayerStats, error) {
	rows, err := db.conn.Query(
		"SELECT player_name, " + counterColumns + " FROM player_stats ORDER BY total_hands DESC, player_name")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerStats
	for rows.Next() {
		s, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ClearAll resets every player record and discards the whole baseline
// ledger in a single transaction.
func (db *DB) ClearAll() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM player_stats"); err != nil {
		return fmt.Errorf("clear player stats: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM source_baselines"); err != nil {
		return fmt.Errorf("clear baselines: %w", err)
	}
	return tx.Commit()
}

// ---- Baseline ledger ----

// Baseline is one source's ledger entry: the counter snapshot from the last
// durable merge and the position marker for resuming reads.
type Baseline struct {
	SourcePath   string
	LastActionID int64
	Stats        map[string]model.Counters
}

// GetBaseline returns the ledger entry for a source, or nil when the source
// has never been merged.
func (db *DB) GetBaseline(sourcePath string) (*Baseline, error) {
	var b Baseline
	var blob string
	err := db.conn.QueryRow(
		"SELECT source_path, last_action_id, snapshot_json FROM source_baselines WHERE source_path = ?",
		sourcePath).Scan(&b.SourcePath, &b.LastActionID, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get baseline %s: %w", sourcePath, err)
	}
	if err := json.UnmarshalFromString(blob, &b.Stats); err != nil {
		return nil, fmt.Errorf("decode baseline snapshot %s: %w", sourcePath, err)
	}
	return &b, nil
}

// PutBaseline replaces a source's ledger entry wholesale. Called only when
// the source's computed totals have just been durably merged.
func (db *DB) PutBaseline(sourcePath string, lastActionID int64, stats map[string]model.Counters) error {
	blob, err := json.MarshalToString(stats)
	if err != nil {
		return fmt.Errorf("encode baseline snapshot: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO source_baselines (source_path, last_action_id, snapshot_json)
		VALUES (?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			last_action_id = excluded.last_action_id,
			snapshot_json = excluded.snapshot_json,
			last_processed = CURRENT_TIMESTAMP`,
		sourcePath, lastActionID, blob)
	if err != nil {
		return fmt.Errorf("put baseline %s: %w", sourcePath, err)
	}
	return nil
}

// BaselineInfo is a lightweight ledger row for listings.
type BaselineInfo struct {
	SourcePath    string
	LastActionID  int64
	LastProcessed string
}

// ListBaselines returns every ledger entry, most recently processed first.
func (db *DB) ListBaselines() ([]BaselineInfo, error) {
	rows, err := db.conn.Query(`
		SELECT source_path, last_action_id, last_processed
		FROM source_baselines ORDER BY last_processed DESC`)
	if err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	defer rows.Close()

	var out []BaselineInfo
	for rows.Next() {
		var b BaselineInfo
		if err := rows.Scan(&b.SourcePath, &b.LastActionID, &b.LastProcessed); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ---- scan helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.PlayerStats, error) {
	var s model.PlayerStats
	err := row.Scan(
		&s.Name,
		&s.TotalHands, &s.VPIPHands, &s.PFRHands, &s.TotalBets, &s.TotalCalls,
		&s.ThreeBetOpportunities, &s.ThreeBetMade,
		&s.CBetOpportunities, &s.CBetMade,
		&s.FoldTo3BetOpportunities, &s.FoldTo3BetMade,
		&s.FoldToCBetOpportunities, &s.FoldToCBetMade,
		&s.HandsSawFlop, &s.HandsWentToShowdown, &s.ShowdownsWon,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func counterArgs(c model.Counters) []any {
	return []any{
		c.TotalHands, c.VPIPHands, c.PFRHands, c.TotalBets, c.TotalCalls,
		c.ThreeBetOpportunities, c.ThreeBetMade,
		c.CBetOpportunities, c.CBetMade,
		c.FoldTo3BetOpportunities, c.FoldTo3BetMade,
		c.FoldToCBetOpportunities, c.FoldToCBetMade,
		c.HandsSawFlop, c.HandsWentToShowdown, c.ShowdownsWon,
	}
}
