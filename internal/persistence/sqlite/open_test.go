// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSteps = []string{
	`CREATE TABLE docs (location TEXT PRIMARY KEY, body BLOB)`,
	`ALTER TABLE docs ADD COLUMN updated_at TEXT`,
}

func TestOpen_AppliesPragmas(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "docs.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "docs.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	from, to, err := Migrate(ctx, db, testSteps[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, 1, to)

	from, to, err = Migrate(ctx, db, testSteps)
	require.NoError(t, err)
	assert.Equal(t, 1, from)
	assert.Equal(t, 2, to)
	_, err = db.Exec(`INSERT INTO docs VALUES ('games.json', '[]', 'now')`)
	require.NoError(t, err)

	from, to, err = Migrate(ctx, db, testSteps)
	require.NoError(t, err)
	assert.Equal(t, 2, from)
	assert.Equal(t, 2, to)

	_, _, err = Migrate(ctx, db, testSteps[:1])
	assert.ErrorContains(t, err, "newer than this binary")
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "docs.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	_, to, err := Migrate(ctx, db, []string{testSteps[0], `NOT SQL`})
	require.Error(t, err)
	assert.Equal(t, 1, to)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" FULL ")
	require.NoError(t, err)
	assert.Equal(t, ModeFull, m)

	_, err = ParseMode("deep")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestVerify_Healthy(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "healthy.sqlite")
	db, err := Open(path, DefaultConfig())
	require.NoError(t, err)
	_, _, err = Migrate(ctx, db, testSteps)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	for _, mode := range []Mode{ModeQuick, ModeFull} {
		rep, err := Verify(ctx, path, mode)
		require.NoError(t, err, mode)
		assert.True(t, rep.OK(), mode)
		assert.Equal(t, 2, rep.SchemaVersion)
		assert.Equal(t, mode, rep.Mode)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	_, err := Verify(context.Background(), filepath.Join(t.TempDir(), "missing.sqlite"), ModeQuick)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
