// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLive_Reload(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	coll := NewCollection(store, "games.json")
	live := NewLive(coll)
	assert.Same(t, coll, live.Collection())
	assert.True(t, live.LoadedAt().IsZero())
	assert.Empty(t, live.Records())

	assert.ErrorIs(t, live.Reload(ctx), docstore.ErrNotFound)

	doc := `[
		{"UUID": "` + uuidA + `", "name": "first"},
		{"UUID": "` + uuidA + `", "name": "second"},
		{"name": "anonymous", "gameID": -1}
	]`
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(doc)))
	require.NoError(t, live.Reload(ctx))

	assert.Len(t, live.Records(), 3)
	assert.Len(t, live.Diagnostics(), 2)
	assert.False(t, live.LoadedAt().IsZero())
	assert.Equal(t, float64(3), metrics.GetCatalogRecords())

	r, ok := live.Find(uuid.MustParse(uuidA))
	require.True(t, ok)
	name, _ := r.Name()
	assert.Equal(t, "first", name)

	_, ok = live.Find(uuid.MustParse(uuidB))
	assert.False(t, ok)
}

func TestLive_KeepsSnapshotOnError(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	live := NewLive(NewCollection(store, "games.json"))

	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+uuidA+`"}]`)))
	require.NoError(t, live.Reload(ctx))
	assert.NoError(t, live.LastError())

	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`{"not": "an array"}`)))
	assert.ErrorIs(t, live.Reload(ctx), ErrNotArray)
	assert.ErrorIs(t, live.LastError(), ErrNotArray)

	records := live.Records()
	require.Len(t, records, 1)
	assert.Equal(t, uuidA, records[0].UUID().String())

	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[]`)))
	require.NoError(t, live.Reload(ctx))
	assert.NoError(t, live.LastError())
	assert.Empty(t, live.Records())
}

func TestLive_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	live := NewLive(NewCollection(store, "games.json"))
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+uuidA+`", "name": "orig"}]`)))
	require.NoError(t, live.Reload(ctx))

	live.Records()[0].SetName("changed")
	r, _ := live.Find(uuid.MustParse(uuidA))
	r.SetName("changed too")

	again, _ := live.Find(uuid.MustParse(uuidA))
	name, _ := again.Name()
	assert.Equal(t, "orig", name)
}

func TestLive_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	live := NewLive(NewCollection(store, "games.json"))
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+uuidA+`"}]`)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = live.Reload(ctx)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = live.Records()
				_, _ = live.Find(uuid.MustParse(uuidA))
				_ = live.Diagnostics()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, live.Records(), 1)
}

func TestLive_WatchUnsupported(t *testing.T) {
	live := NewLive(NewCollection(docstore.NewMemoryStore(), "games.json"))
	assert.ErrorIs(t, live.Watch(context.Background()), ErrWatchUnsupported)
}

func TestLive_WatchReloadsOnReplace(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()
	root := t.TempDir()
	fs, err := docstore.NewFileStore(root)
	require.NoError(t, err)
	coll := NewCollection(docstore.Instrument(docstore.BackendFile, fs), "games.json")
	require.NoError(t, coll.Write(ctx, []*game.Record{game.New()}))

	live := NewLive(coll)
	live.SetDebounce(20 * time.Millisecond)
	require.NoError(t, live.Reload(ctx))
	require.Len(t, live.Records(), 1)

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- live.Watch(watchCtx) }()

	// Give the watcher time to register before changing the file.
	require.Eventually(t, func() bool {
		assert.NoError(t, coll.Write(ctx, []*game.Record{game.New(), game.New(), game.New()}))
		return len(live.Records()) == 3
	}, 5*time.Second, 100*time.Millisecond)

	// Files next to the catalog do not trigger reloads.
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.json"), []byte(`{}`), 0o600))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
