package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite" // Register driver

	"github.com/simonhull/clipdur/internal/types"
)

// sqliteStore appends rows inside a single transaction that is committed
// on Close and rolled back on Abort, so a failed run leaves no rows behind.
type sqliteStore struct {
	path  string
	runID string
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS clips (
	run_id        TEXT    NOT NULL,
	clip          TEXT    NOT NULL,
	path          TEXT    NOT NULL,
	duration_ms   INTEGER NOT NULL,
	decode_failed BOOLEAN NOT NULL DEFAULT 0,
	read_failed   BOOLEAN NOT NULL DEFAULT 0
)`

func newSQLite(path, runID string) (*sqliteStore, error) {
	fail := func(err error) (*sqliteStore, error) {
		return nil, &types.StoreError{Path: path, Op: "create", Err: err}
	}

	// A store is created fresh for every run, like the text formats.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fail(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fail(err)
	}
	// Single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return fail(fmt.Errorf("create schema: %w", err))
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return fail(err)
	}
	stmt, err := tx.Prepare(`INSERT INTO clips (run_id, clip, path, duration_ms, decode_failed, read_failed) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return fail(err)
	}

	return &sqliteStore{path: path, runID: runID, db: db, tx: tx, stmt: stmt}, nil
}

// Append implements Store.
func (s *sqliteStore) Append(r types.Result) error {
	// SQLite integers are signed 64-bit.
	if r.Millis > math.MaxInt64 {
		return &types.StoreError{Path: s.path, Op: "append", Err: fmt.Errorf("duration %d overflows INTEGER", r.Millis)}
	}
	if _, err := s.stmt.Exec(s.runID, r.Name(), r.Path, int64(r.Millis), r.DecodeFailed, r.ReadFailed); err != nil {
		return &types.StoreError{Path: s.path, Op: "append", Err: err}
	}
	return nil
}

// Close implements Store. It commits the run's rows.
func (s *sqliteStore) Close() error {
	err := s.stmt.Close()
	if err == nil {
		err = s.tx.Commit()
	} else {
		s.tx.Rollback()
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &types.StoreError{Path: s.path, Op: "close", Err: err}
	}
	return nil
}

// Abort implements Aborter. It rolls back every row appended by the run.
func (s *sqliteStore) Abort() error {
	s.stmt.Close()
	err := s.tx.Rollback()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &types.StoreError{Path: s.path, Op: "abort", Err: err}
	}
	return nil
}
