// SPDX-License-Identifier: MIT

package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/persistence/sqlite"
)

// documentMigrations brings the documents table to the version at index+1.
var documentMigrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		location   TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// SQLiteStore keeps documents as rows of a single table keyed by location.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at dbPath and migrates it.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite store: empty database path")
	}
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	from, to, err := sqlite.Migrate(context.Background(), db, documentMigrations)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: %w", err)
	}
	if from != to {
		logger := gilog.WithComponent("docstore")
		logger.Info().
			Str(gilog.FieldEvent, "docstore.migrated").
			Str(gilog.FieldBackend, BackendSQLite).
			Int("from", from).
			Int("to", to).
			Msg("document schema migrated")
	}
	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) ReadText(ctx context.Context, location string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE location = ?`, location).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return body, nil
}

func (s *SQLiteStore) WriteText(ctx context.Context, location string, data []byte) error {
	if location == "" {
		return fmt.Errorf("empty location")
	}
	if data == nil {
		data = []byte{}
	}
	query := `
	INSERT INTO documents (location, body, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(location) DO UPDATE SET
		body = excluded.body,
		updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, location, data, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	return nil
}

// Verify runs an integrity check over the database file.
func (s *SQLiteStore) Verify(ctx context.Context, mode sqlite.Mode) (sqlite.Report, error) {
	return sqlite.Verify(ctx, s.path, mode)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
