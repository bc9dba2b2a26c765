// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// ErrWatchUnsupported is returned by Watch when the collection is not backed
// by files.
var ErrWatchUnsupported = errors.New("watching requires the file backend")

// DefaultDebounce is the quiet period after a file event before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Live holds the most recent successfully loaded snapshot of a collection.
// Readers never observe a partially loaded catalog.
type Live struct {
	coll     *Collection
	debounce time.Duration

	reloadMu sync.Mutex // serializes Reload

	mu       sync.RWMutex
	records  []*game.Record
	byUUID   map[uuid.UUID]*game.Record
	diags    []Diagnostic
	loadedAt time.Time
	lastErr  error
}

// NewLive creates an empty snapshot of coll. Call Reload to populate it.
func NewLive(coll *Collection) *Live {
	return &Live{coll: coll, debounce: DefaultDebounce, byUUID: map[uuid.UUID]*game.Record{}}
}

// SetDebounce overrides the watch debounce period.
func (l *Live) SetDebounce(d time.Duration) { l.debounce = d }

// Collection returns the underlying collection.
func (l *Live) Collection() *Collection { return l.coll }

// Reload reads the collection and swaps the snapshot. On error the previous
// snapshot is kept.
func (l *Live) Reload(ctx context.Context) error {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()

	records, diags, err := l.coll.Read(ctx)
	if err != nil {
		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return err
	}

	byUUID := make(map[uuid.UUID]*game.Record, len(records))
	for _, r := range records {
		if !r.HasUUID() {
			continue
		}
		if _, dup := byUUID[r.UUID()]; !dup {
			byUUID[r.UUID()] = r
		}
	}

	l.mu.Lock()
	l.records = records
	l.byUUID = byUUID
	l.diags = diags
	l.loadedAt = time.Now()
	l.lastErr = nil
	l.mu.Unlock()

	metrics.SetCatalogRecords(len(records))
	return nil
}

// Records returns copies of the snapshot records in document order.
func (l *Live) Records() []*game.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*game.Record, len(l.records))
	for i, r := range l.records {
		out[i] = r.Clone()
	}
	return out
}

// Find returns a copy of the first record with identifier id.
func (l *Live) Find(id uuid.UUID) (*game.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.byUUID[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Diagnostics returns the diagnostics of the last successful load.
func (l *Live) Diagnostics() []Diagnostic {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Diagnostic(nil), l.diags...)
}

// LoadedAt returns when the snapshot was last replaced, zero if never.
func (l *Live) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// LastError returns the error of the most recent reload, nil if it succeeded
// or none has run.
func (l *Live) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// Watch reloads the snapshot whenever the collection file changes, until ctx
// is cancelled. The file's directory is watched so that atomic replacement
// by rename is seen.
func (l *Live) Watch(ctx context.Context) error {
	fs, ok := docstore.Unwrap(l.coll.Store()).(*docstore.FileStore)
	if !ok {
		return ErrWatchUnsupported
	}
	path, err := fs.Resolve(l.coll.Location())
	if err != nil {
		return err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch catalog directory: %w", err)
	}

	logger := gilog.WithComponentFromContext(ctx, "catalog")
	logger.Info().
		Str(gilog.FieldEvent, "catalog.watcher_started").
		Str(gilog.FieldLocation, l.coll.Location()).
		Msg("watching catalog for changes")

	debounce := time.NewTimer(l.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str(gilog.FieldEvent, "catalog.watcher_stopped").Msg("catalog watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug().
					Str(gilog.FieldEvent, "catalog.file_changed").
					Str("op", event.Op.String()).
					Msg("catalog file changed")
				debounce.Reset(l.debounce)
			}

		case <-debounce.C:
			if err := l.Reload(ctx); err != nil {
				logger.Error().
					Err(err).
					Str(gilog.FieldEvent, "catalog.auto_reload_failed").
					Msg("automatic catalog reload failed")
				continue
			}
			logger.Info().
				Str(gilog.FieldEvent, "catalog.reloaded").
				Int(gilog.FieldRecords, len(l.Records())).
				Msg("catalog reloaded")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().
				Err(err).
				Str(gilog.FieldEvent, "catalog.watcher_error").
				Msg("catalog watcher error")
		}
	}
}
