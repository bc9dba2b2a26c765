// SPDX-License-Identifier: MIT

// Package daemon runs the long-lived catalog server: the HTTP surface, the
// optional file watcher and the SIGHUP reload trigger.
package daemon

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrootRISCassembler/GameInfo/internal/api"
	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrMissingCatalog is returned by Run when no live catalog was supplied.
var ErrMissingCatalog = errors.New("daemon: live catalog is required")

// Options selects the optional subsystems.
type Options struct {
	// Watch reloads the catalog when its file changes.
	Watch bool
}

// App owns the background subsystems of the server.
type App struct {
	live         *catalog.Live
	server       *api.Server
	opts         Options
	logger       zerolog.Logger
	reloadSignal os.Signal
}

// New wires an App. server may be nil to run only the reload machinery.
func New(live *catalog.Live, server *api.Server, opts Options) *App {
	return &App{
		live:         live,
		server:       server,
		opts:         opts,
		logger:       gilog.WithComponent("daemon"),
		reloadSignal: syscall.SIGHUP,
	}
}

// Run loads the catalog and starts all subsystems. It blocks until ctx is
// cancelled or a subsystem fails.
func (a *App) Run(ctx context.Context) error {
	if a.live == nil {
		return ErrMissingCatalog
	}

	// An unreadable catalog at startup is not fatal: /readyz reports it and
	// a later reload can recover.
	if err := a.live.Reload(ctx); err != nil {
		a.logger.Warn().
			Err(err).
			Str(gilog.FieldEvent, "catalog.initial_load_failed").
			Str(gilog.FieldLocation, a.live.Collection().Location()).
			Msg("initial catalog load failed")
	} else {
		a.logger.Info().
			Str(gilog.FieldEvent, "catalog.loaded").
			Int(gilog.FieldRecords, len(a.live.Records())).
			Int("diagnostics", len(a.live.Diagnostics())).
			Msg("catalog loaded")
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error { return a.server.Run(ctx) })
	}

	if a.opts.Watch {
		g.Go(func() error {
			err := a.live.Watch(ctx)
			if errors.Is(err, catalog.ErrWatchUnsupported) {
				a.logger.Warn().
					Err(err).
					Str(gilog.FieldEvent, "catalog.watcher_disabled").
					Msg("catalog watcher disabled")
				return nil
			}
			return err
		})
	}

	if a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(gilog.FieldEvent, "catalog.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading catalog")
					if err := a.live.Reload(ctx); err != nil {
						a.logger.Warn().
							Err(err).
							Str(gilog.FieldEvent, "catalog.reload_failed").
							Msg("catalog reload failed")
					}
				}
			}
		})
	}

	return g.Wait()
}
