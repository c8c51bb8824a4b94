// Package source reads PokerTH session logs (.pdb files): append-only SQLite
// databases written by the game client. Reads are read-only and must
// tolerate the game process appending concurrently, so every open uses a
// busy timeout and the whole read retries with backoff when the writer holds
// the lock.
package source

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

// ErrNoLogs is returned when the log directory holds no session logs.
var ErrNoLogs = errors.New("no session logs found")

// ErrLocked is returned when a session log stayed locked by its writer for
// every retry attempt. Callers treat it as transient and try again on the
// next poll.
var ErrLocked = errors.New("session log locked by writer")

// logPattern matches the file names PokerTH gives its session logs.
const logPattern = "pokerth-log-*.pdb"

const (
	readAttempts = 3
	readBackoff  = 250 * time.Millisecond
	busyTimeout  = 2000 // ms, matches the game client's own lock windows
)

// Dir reads session logs out of one PokerTH log directory.
type Dir struct {
	path string
	log  zerolog.Logger
}

// NewDir returns a Dir over the given log directory.
func NewDir(path string, log zerolog.Logger) *Dir {
	return &Dir{path: path, log: log.With().Str("component", "source").Logger()}
}

// Path returns the log directory path.
func (d *Dir) Path() string { return d.path }

// ListLogs returns every session log in the directory, sorted by name so
// batch imports walk sessions in creation order.
func (d *Dir) ListLogs() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.path, logPattern))
	if err != nil {
		return nil, fmt.Errorf("scan log dir: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// LatestLog returns the most recently modified session log, the one the game
// is currently writing. Returns ErrNoLogs when the directory has none.
func (d *Dir) LatestLog() (string, error) {
	logs, err := d.ListLogs()
	if err != nil {
		return "", err
	}
	latest := ""
	var latestMod time.Time
	for _, p := range logs {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if latest == "" || fi.ModTime().After(latestMod) {
			latest = p
			latestMod = fi.ModTime()
		}
	}
	if latest == "" {
		return "", ErrNoLogs
	}
	return latest, nil
}

// Read loads a full snapshot of one session log. The file is re-opened on
// each call so a connection never pins a stale view of a growing log.
func (d *Dir) Read(path string) (*model.SessionLog, error) {
	var lastErr error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(readBackoff * time.Duration(attempt))
		}
		log, err := readOnce(path, d.log)
		if err == nil {
			return log, nil
		}
		if !isLocked(err) {
			return nil, err
		}
		d.log.Debug().Str("path", path).Int("attempt", attempt+1).Msg("session log locked, retrying")
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrLocked, lastErr)
}

// ReadInfo loads only the session metadata row of one log, cheap enough for
// listings that must not parse every action of every log.
func (d *Dir) ReadInfo(path string) (model.SessionInfo, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, busyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return model.SessionInfo{}, fmt.Errorf("open session log: %w", err)
	}
	defer conn.Close()

	out := &model.SessionLog{Path: path}
	if err := readSessionInfo(conn, out); err != nil {
		return model.SessionInfo{}, fmt.Errorf("read session info: %w", err)
	}
	return out.Info, nil
}

func readOnce(path string, logger zerolog.Logger) (*model.SessionLog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, busyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	defer conn.Close()

	out := &model.SessionLog{
		Path:  path,
		Seats: make(map[string]map[int64]int),
		Hands: make(map[model.HandKey]*model.HandActions),
	}

	if err := readSessionInfo(conn, out); err != nil {
		return nil, err
	}
	if err := readSeats(conn, out); err != nil {
		return nil, err
	}
	if err := readActions(conn, out, logger); err != nil {
		return nil, err
	}
	readTablePlayers(out)
	return out, nil
}

func readSessionInfo(conn *sql.DB, out *model.SessionLog) error {
	row := conn.QueryRow("SELECT PokerTH_Version, Date, Time, LogVersion FROM Session LIMIT 1")
	err := row.Scan(&out.Info.Version, &out.Info.Date, &out.Info.Time, &out.Info.LogVersion)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

func readSeats(conn *sql.DB, out *model.SessionLog) error {
	rows, err := conn.Query("SELECT Player, UniqueGameID, Seat FROM Player")
	if err != nil {
		return fmt.Errorf("read seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var gameID int64
		var seat int
		if err := rows.Scan(&name, &gameID, &seat); err != nil {
			return fmt.Errorf("scan seat row: %w", err)
		}
		if out.Seats[name] == nil {
			out.Seats[name] = make(map[int64]int)
		}
		out.Seats[name][gameID] = seat
	}
	return rows.Err()
}

func readActions(conn *sql.DB, out *model.SessionLog, logger zerolog.Logger) error {
	rows, err := conn.Query(`
		SELECT ActionID, UniqueGameID, HandID, BeRo, Player, Action, Amount
		FROM Action ORDER BY ActionID`)
	if err != nil {
		return fmt.Errorf("read actions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.ActionRecord
		var seat sql.NullInt64
		var round int64
		var amount sql.NullInt64
		if err := rows.Scan(&a.ActionID, &a.GameID, &a.HandID, &round, &seat, &a.Verb, &amount); err != nil {
			return fmt.Errorf("scan action row: %w", err)
		}
		if a.ActionID > out.MaxActionID {
			out.MaxActionID = a.ActionID
		}
		a.Round = model.BettingRound(round)
		// Malformed records are skipped, never fatal for the whole source.
		if !seat.Valid || !a.Round.Valid() {
			logger.Warn().Int64("action_id", a.ActionID).Str("path", out.Path).
				Msg("skipping malformed action record")
			continue
		}
		a.Seat = int(seat.Int64)
		a.Amount = amount.Int64

		key := model.HandKey{GameID: a.GameID, HandID: a.HandID}
		hand := out.Hands[key]
		if hand == nil {
			hand = &model.HandActions{}
			out.Hands[key] = hand
		}
		hand.Append(a)
	}
	return rows.Err()
}

// readTablePlayers derives the current table: the players seated in the
// highest game id, in seat order.
func readTablePlayers(out *model.SessionLog) {
	var maxGame int64 = -1
	for _, games := range out.Seats {
		for gameID := range games {
			if gameID > maxGame {
				maxGame = gameID
			}
		}
	}
	if maxGame < 0 {
		return
	}
	type seated struct {
		name string
		seat int
	}
	var table []seated
	for name, games := range out.Seats {
		if seat, ok := games[maxGame]; ok {
			table = append(table, seated{name, seat})
		}
	}
	sort.Slice(table, func(i, j int) bool { return table[i].seat < table[j].seat })
	out.TablePlayers = make([]string, len(table))
	for i, s := range table {
		out.TablePlayers[i] = s.name
	}
}

// isLocked reports whether the error is SQLite lock contention from the
// concurrent writer.
func isLocked(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}
