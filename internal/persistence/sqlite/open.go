// SPDX-License-Identifier: MIT

// Package sqlite opens, migrates and verifies the SQLite databases behind
// the document store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// Config defines SQLite operational parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// DefaultConfig returns the configuration used by the document store.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}

// dsn builds a modernc DSN. Pragmas ride in the DSN so that every pooled
// connection gets them.
func dsn(path string, readOnly bool, busy time.Duration, pragmas ...string) string {
	s := "file:" + path + "?"
	if readOnly {
		s += "mode=ro&"
	}
	s += fmt.Sprintf("_pragma=busy_timeout(%d)", busy.Milliseconds())
	for _, p := range pragmas {
		s += "&_pragma=" + p
	}
	return s
}

// Open initializes a read-write pool in WAL mode and checks that the file
// is usable.
func Open(path string, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path, false, cfg.BusyTimeout,
		"journal_mode(WAL)", "synchronous(NORMAL)", "foreign_keys(ON)"))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}

// SchemaVersion reads PRAGMA user_version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("sqlite: read user_version: %w", err)
	}
	return v, nil
}

// Migrate applies the steps past the current user_version, each in its own
// transaction that also bumps user_version. Step i brings the schema to
// version i+1. It returns the version found and the version reached.
func Migrate(ctx context.Context, db *sql.DB, steps []string) (from, to int, err error) {
	from, err = SchemaVersion(ctx, db)
	if err != nil {
		return 0, 0, err
	}
	if from > len(steps) {
		return from, from, fmt.Errorf("sqlite: schema version %d is newer than this binary (%d)", from, len(steps))
	}

	for v := from; v < len(steps); v++ {
		if err := applyStep(ctx, db, steps[v], v+1); err != nil {
			return from, v, fmt.Errorf("sqlite: migrate to version %d: %w", v+1, err)
		}
	}
	return from, len(steps), nil
}

func applyStep(ctx context.Context, db *sql.DB, stmt string, version int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}
