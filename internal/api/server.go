// SPDX-License-Identifier: MIT

// Package api serves the game catalog over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/api/middleware"
	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/health"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the HTTP server.
type Config struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	EnableRateLimit bool
	RateLimit       middleware.RateLimitConfig

	// TracingService names the server in traces; empty disables tracing.
	TracingService string
}

// Server exposes a live catalog snapshot.
type Server struct {
	cfg    Config
	live   *catalog.Live
	health *health.Manager
	router chi.Router
}

// New builds the server and its routes. Readiness requires a loaded
// snapshot and a readable collection document.
func New(cfg Config, live *catalog.Live) *Server {
	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewCatalogChecker(live))
	coll := live.Collection()
	hm.RegisterChecker(health.NewDocumentChecker("store", coll.Store(), coll.Location()))

	s := &Server{cfg: cfg, live: live, health: hm}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:   true,
		TracingService:  s.cfg.TracingService,
		EnableLogging:   true,
		EnableRateLimit: s.cfg.EnableRateLimit,
		RateLimit:       s.cfg.RateLimit,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Get("/games/{uuid}", s.handleGetGame)
		r.Post("/games/{uuid}/query", s.handleQueryGame)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Post("/reload", s.handleReload)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.URL.Path)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger := gilog.WithComponent("api")
	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(gilog.FieldEvent, "server.started").
			Str("addr", ln.Addr().String()).
			Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	logger.Info().Str(gilog.FieldEvent, "server.stopped").Msg("HTTP server stopped")
	return nil
}
