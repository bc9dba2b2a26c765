// SPDX-License-Identifier: MIT

// Package health answers the liveness and readiness probes of the catalog
// server.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"golang.org/x/sync/errgroup"
)

// Status is the state of one component or of the whole server.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) severity() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	}
	return 0
}

// worse returns whichever of s and o is more severe.
func (s Status) worse(o Status) Status {
	if o.severity() > s.severity() {
		return o
	}
	return s
}

// CheckResult is the outcome of one Checker.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body of the liveness probe.
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptimeSeconds"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse is the body of the readiness probe.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker probes one component.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager owns the registered checkers. Register everything before serving.
type Manager struct {
	version  string
	started  time.Time
	checkers []Checker
}

func NewManager(version string) *Manager {
	return &Manager{version: version, started: time.Now()}
}

func (m *Manager) RegisterChecker(c Checker) {
	m.checkers = append(m.checkers, c)
}

// evaluate runs every checker concurrently and returns the worst status.
func (m *Manager) evaluate(ctx context.Context) (Status, map[string]CheckResult) {
	var (
		mu      sync.Mutex
		overall = StatusHealthy
		results = make(map[string]CheckResult, len(m.checkers))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range m.checkers {
		c := c
		g.Go(func() error {
			res := c.Check(gctx)
			mu.Lock()
			results[c.Name()] = res
			overall = overall.worse(res.Status)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return overall, results
}

// Health answers liveness. A process that can respond is alive, so the
// component checks only run when verbose is requested.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(time.Since(m.started).Seconds()),
		Timestamp: time.Now(),
	}
	if verbose && len(m.checkers) > 0 {
		resp.Status, resp.Checks = m.evaluate(ctx)
	}
	return resp
}

// Ready answers readiness. Only an unhealthy component makes the server
// not ready.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{Status: StatusHealthy, Timestamp: time.Now()}
	if len(m.checkers) > 0 {
		resp.Status, resp.Checks = m.evaluate(ctx)
	}
	resp.Ready = resp.Status != StatusUnhealthy
	return resp
}

// ServeHealth always answers 200; the status is in the body.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"
	resp := m.Health(r.Context(), verbose)
	writeProbe(r.Context(), w, "health", http.StatusOK, resp)
}

// ServeReady answers 503 while the server is not ready.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	resp := m.Ready(r.Context())
	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
	}
	writeProbe(r.Context(), w, "readiness", code, resp)
	if !resp.Ready {
		logger := gilog.WithComponentFromContext(r.Context(), "health")
		logger.Debug().
			Str(gilog.FieldEvent, "readiness.not_ready").
			Str("status", string(resp.Status)).
			Msg("server not ready")
	}
}

func writeProbe(ctx context.Context, w http.ResponseWriter, probe string, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := gilog.WithComponentFromContext(ctx, "health")
		logger.Warn().Err(err).
			Str(gilog.FieldEvent, probe+".encode_failed").
			Msg("failed to write probe response")
	}
}
