// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrootRISCassembler/GameInfo/internal/api"
	"github.com/chrootRISCassembler/GameInfo/internal/api/middleware"
	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/daemon"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/telemetry"
	"github.com/chrootRISCassembler/GameInfo/internal/version"
	"github.com/spf13/cobra"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		listen string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "serve [location]",
		Short: "Serve a catalog over HTTP",
		Long: `Load the catalog (the argument, or catalog.location from config) and serve
it read-only over HTTP. SIGHUP reloads the catalog; with --watch the file
backend reloads on change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if len(args) == 1 {
				cfg.Catalog.Location = args[0]
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if cmd.Flags().Changed("watch") {
				cfg.Catalog.Watch = watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := gilog.WithComponent("serve")

			tp, err := telemetry.NewProvider(ctx, cfg.TelemetryOptions(version.Version))
			if err != nil {
				return err
			}
			defer func() {
				if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Warn().Err(err).Msg("telemetry shutdown failed")
				}
			}()

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			live := catalog.NewLive(catalog.NewCollection(store, cfg.Catalog.Location))
			live.SetDebounce(cfg.Catalog.Debounce)

			tracing := ""
			if cfg.Telemetry.Enabled {
				tracing = "gameinfo"
			}
			server := api.New(api.Config{
				Listen:          cfg.Server.Listen,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				EnableRateLimit: cfg.Server.RateLimit.Enabled,
				RateLimit: middleware.RateLimitConfig{
					Requests: cfg.Server.RateLimit.Requests,
					Window:   cfg.Server.RateLimit.Window,
				},
				TracingService: tracing,
			}, live)

			logger.Info().
				Str("version", version.Version).
				Str(gilog.FieldBackend, cfg.Store.Backend).
				Str(gilog.FieldLocation, cfg.Catalog.Location).
				Str("listen", cfg.Server.Listen).
				Msg("starting gameinfo server")

			return daemon.New(live, server, daemon.Options{Watch: cfg.Catalog.Watch}).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when the catalog file changes")
	return cmd
}
