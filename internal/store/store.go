// Package store persists the cross-source aggregate stats and the per-source
// baseline ledger in one SQLite database. The two live together because
// clear-all must reset both atomically: an import replay starting from a
// half-cleared state would double count.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the stats database. Reads may run concurrently; logical write
// operations (a whole batch import, a live commit) serialize through
// WithWriteLock.
type DB struct {
	conn *sql.DB

	// writeMu guards multi-statement write operations. Individual
	// statements are already atomic in SQLite, but import's clear-all
	// racing a live commit would corrupt totals.
	writeMu sync.Mutex
}

// Open opens (or creates) the stats database at the given path and applies
// the schema. WAL keeps readers unblocked while the tracker commits.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(2000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// WithWriteLock runs fn as the single in-flight write operation. Batch
// import and live commit both wrap their whole sequence in it.
func (db *DB) WithWriteLock(fn func() error) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	return fn()
}
