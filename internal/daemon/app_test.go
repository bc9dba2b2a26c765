// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testUUID = "8f14e45f-ceea-467f-a0e6-b6e9c1b3b3a7"

func TestRun_RequiresCatalog(t *testing.T) {
	assert.ErrorIs(t, New(nil, nil, Options{}).Run(context.Background()), ErrMissingCatalog)
}

func TestRun_LoadsAndReloadsOnSignal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+testUUID+`"}]`)))
	live := catalog.NewLive(catalog.NewCollection(store, "games.json"))

	// Watch on a memory store is disabled with a warning, not an error.
	app := New(live, nil, Options{Watch: true})
	app.reloadSignal = syscall.SIGUSR1

	// Catch SIGUSR1 in the test too, so an early signal cannot kill the process.
	sink := make(chan os.Signal, 8)
	signal.Notify(sink, syscall.SIGUSR1)
	defer signal.Stop(sink)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- app.Run(runCtx) }()

	require.Eventually(t, func() bool { return len(live.Records()) == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, store.WriteText(ctx, "games.json", []byte(`[{"UUID": "`+testUUID+`"}, {}]`)))
	require.Eventually(t, func() bool {
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
		return len(live.Records()) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_InitialLoadFailureIsNotFatal(t *testing.T) {
	live := catalog.NewLive(catalog.NewCollection(docstore.NewMemoryStore(), "games.json"))
	app := New(live, nil, Options{})
	app.reloadSignal = nil

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Run(ctx))
	assert.True(t, live.LoadedAt().IsZero())
}
