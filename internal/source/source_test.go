package source

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

// fixtureAction mirrors one Action row; bero and seat are any so tests can
// insert NULLs and out-of-range values.
type fixtureAction struct {
	id   int64
	hand int64
	bero any
	seat any
	verb string
}

// writeSessionLog creates a real .pdb file with the PokerTH schema, one
// session row and a two-player game 1 (alice seat 0, bob seat 1).
func writeSessionLog(t *testing.T, dir, name string, actions []fixtureAction) string {
	t.Helper()
	path := filepath.Join(dir, name)
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE Session (PokerTH_Version TEXT, Date TEXT, Time TEXT, LogVersion INTEGER)`,
		`CREATE TABLE Player (UniqueGameID INTEGER, Seat INTEGER, Player TEXT)`,
		`CREATE TABLE Action (ActionID INTEGER, UniqueGameID INTEGER, HandID INTEGER, BeRo INTEGER, Player INTEGER, Action TEXT, Amount INTEGER)`,
		`INSERT INTO Session VALUES ('1.9.1', '2026-08-30', '21:15:00', 2)`,
		`INSERT INTO Player VALUES (1, 0, 'alice'), (1, 1, 'bob')`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			t.Fatalf("fixture statement %q: %v", s, err)
		}
	}
	for _, a := range actions {
		if _, err := conn.Exec(
			`INSERT INTO Action VALUES (?, 1, ?, ?, ?, ?, 0)`,
			a.id, a.hand, a.bero, a.seat, a.verb,
		); err != nil {
			t.Fatalf("insert action %d: %v", a.id, err)
		}
	}
	return path
}

func TestReadSkipsMalformedRecords(t *testing.T) {
	// Rows 4 (NULL seat) and 5 (unknown betting round) are malformed; the
	// rest of the hand must survive and still classify.
	path := writeSessionLog(t, t.TempDir(), "pokerth-log-a.pdb", []fixtureAction{
		{1, 1, 0, 0, "bets 120"},
		{2, 1, 0, 1, "calls 120"},
		{3, 1, 1, 0, "bets 200"},
		{4, 1, 1, nil, "folds"},
		{5, 1, 9, 1, "checks"},
	})
	dir := NewDir(filepath.Dir(path), zerolog.Nop())

	sess, err := dir.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	hand := sess.Hands[model.HandKey{GameID: 1, HandID: 1}]
	if hand == nil {
		t.Fatal("hand 1/1 missing")
	}
	if got := len(hand.Preflop); got != 2 {
		t.Errorf("preflop actions = %d, want 2", got)
	}
	if got := len(hand.Flop); got != 1 {
		t.Errorf("flop actions = %d, want 1 (NULL-seat row skipped)", got)
	}

	// Malformed rows still advance the resume marker; otherwise a poll
	// would re-read forever when the newest row is broken.
	if sess.MaxActionID != 5 {
		t.Errorf("MaxActionID = %d, want 5", sess.MaxActionID)
	}

	sig := classifier.Classify(classifier.DefaultRules(), 0, hand)
	if !sig.PFR || !sig.CBetMade {
		t.Errorf("surviving actions no longer classify: %+v", sig)
	}
}

func TestReadSessionInfoSeatsAndTablePlayers(t *testing.T) {
	path := writeSessionLog(t, t.TempDir(), "pokerth-log-b.pdb", []fixtureAction{
		{1, 1, 0, 0, "bets 120"},
		{2, 1, 0, 1, "folds"},
	})

	// A later game with swapped seats; the table view must follow it.
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO Player VALUES (2, 0, 'bob'), (2, 1, 'alice')`); err != nil {
		t.Fatalf("insert game 2 seats: %v", err)
	}
	conn.Close()

	dir := NewDir(filepath.Dir(path), zerolog.Nop())
	sess, err := dir.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if sess.Info.Version != "1.9.1" || sess.Info.Date != "2026-08-30" {
		t.Errorf("session info = %+v", sess.Info)
	}
	if seat, ok := sess.SeatOf("alice", 1); !ok || seat != 0 {
		t.Errorf("alice game 1 seat = %d,%v, want 0,true", seat, ok)
	}
	if seat, ok := sess.SeatOf("alice", 2); !ok || seat != 1 {
		t.Errorf("alice game 2 seat = %d,%v, want 1,true", seat, ok)
	}
	want := []string{"bob", "alice"}
	if len(sess.TablePlayers) != 2 || sess.TablePlayers[0] != want[0] || sess.TablePlayers[1] != want[1] {
		t.Errorf("table players = %v, want %v (newest game, seat order)", sess.TablePlayers, want)
	}
}

func TestListLogsAndLatest(t *testing.T) {
	base := t.TempDir()
	older := writeSessionLog(t, base, "pokerth-log-2026-08-29.pdb", nil)
	newer := writeSessionLog(t, base, "pokerth-log-2026-08-30.pdb", nil)
	if err := os.WriteFile(filepath.Join(base, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write decoy: %v", err)
	}

	// Pin mtimes so "most recently modified" is deterministic.
	now := time.Now()
	if err := os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	dir := NewDir(base, zerolog.Nop())
	logs, err := dir.ListLogs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 || logs[0] != older || logs[1] != newer {
		t.Errorf("logs = %v, want [%s %s]", logs, older, newer)
	}

	latest, err := dir.LatestLog()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != newer {
		t.Errorf("latest = %s, want %s", latest, newer)
	}
}

func TestLatestLogEmptyDirectory(t *testing.T) {
	dir := NewDir(t.TempDir(), zerolog.Nop())
	if _, err := dir.LatestLog(); !errors.Is(err, ErrNoLogs) {
		t.Errorf("err = %v, want ErrNoLogs", err)
	}
}

func TestIsLockedClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{errors.New("database table is locked"), true},
		{errors.New("SQLITE_BUSY: database busy"), true},
		{errors.New("no such table: Action"), false},
	}
	for _, c := range cases {
		if got := isLocked(c.err); got != c.want {
			t.Errorf("isLocked(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestReadReturnsErrLockedAfterRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the busy timeout on every attempt")
	}
	path := writeSessionLog(t, t.TempDir(), "pokerth-log-c.pdb", []fixtureAction{
		{1, 1, 0, 0, "bets 120"},
	})

	// Hold an exclusive transaction for the duration of the read, the way
	// the game client does while flushing.
	ctx := context.Background()
	locker, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open locker: %v", err)
	}
	defer locker.Close()
	lockConn, err := locker.Conn(ctx)
	if err != nil {
		t.Fatalf("locker conn: %v", err)
	}
	defer lockConn.Close()
	if _, err := lockConn.ExecContext(ctx, "BEGIN EXCLUSIVE"); err != nil {
		t.Fatalf("acquire exclusive lock: %v", err)
	}
	defer lockConn.ExecContext(ctx, "ROLLBACK")

	dir := NewDir(filepath.Dir(path), zerolog.Nop())
	_, err = dir.Read(path)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("err = %v, want ErrLocked after exhausting retries", err)
	}
}
