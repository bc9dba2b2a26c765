// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Mode selects how thorough Verify is.
type Mode string

const (
	// ModeQuick runs PRAGMA quick_check: O(N), skips index content checks.
	ModeQuick Mode = "quick"
	// ModeFull runs PRAGMA integrity_check.
	ModeFull Mode = "full"
)

// ErrInvalidMode is returned by ParseMode for unknown modes.
var ErrInvalidMode = errors.New("invalid verify mode")

// ParseMode accepts "quick" or "full", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeQuick, ModeFull:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q: use quick or full", ErrInvalidMode, s)
	}
}

func (m Mode) pragma() string {
	if m == ModeFull {
		return "PRAGMA integrity_check"
	}
	return "PRAGMA quick_check"
}

// Report is the outcome of Verify.
type Report struct {
	Path          string
	Mode          Mode
	SchemaVersion int
	// Issues lists the problems SQLite reported; empty when healthy.
	Issues []string
}

// OK reports whether no problems were found.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Verify checks the database at path over a read-only connection. An error
// means the check could not run; problems found by the check are in the
// report.
func Verify(ctx context.Context, path string, mode Mode) (Report, error) {
	rep := Report{Path: path, Mode: mode}
	if _, err := os.Stat(path); err != nil {
		return rep, fmt.Errorf("sqlite: stat %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", dsn(path, true, 2*time.Second))
	if err != nil {
		return rep, fmt.Errorf("sqlite: open %s read-only: %w", path, err)
	}
	defer db.Close()

	if rep.SchemaVersion, err = SchemaVersion(ctx, db); err != nil {
		return rep, err
	}

	rows, err := db.QueryContext(ctx, mode.pragma())
	if err != nil {
		return rep, fmt.Errorf("sqlite: %s: %w", mode.pragma(), err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return rep, fmt.Errorf("sqlite: scan check result: %w", err)
		}
		results = append(results, line)
	}
	if err := rows.Err(); err != nil {
		return rep, fmt.Errorf("sqlite: read check results: %w", err)
	}

	switch {
	case len(results) == 0:
		rep.Issues = []string{"integrity check returned no rows"}
	case len(results) == 1 && strings.EqualFold(results[0], "ok"):
	default:
		rep.Issues = results
	}
	return rep, nil
}
