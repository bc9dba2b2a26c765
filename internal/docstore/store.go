// SPDX-License-Identifier: MIT

// Package docstore reads and writes raw JSON document text by location. It is
// the only layer that touches storage; decoding happens elsewhere.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/chrootRISCassembler/GameInfo/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned by ReadText when nothing is stored at a location.
var ErrNotFound = errors.New("document not found")

// Store reads and writes whole documents. Each call is atomic: a read
// returns the complete text or fails, a write replaces the whole document.
type Store interface {
	ReadText(ctx context.Context, location string) ([]byte, error)
	WriteText(ctx context.Context, location string, data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Root is the directory documents live under for the file backend.
	Root string

	// Path is the database file (sqlite) or directory (badger).
	Path string

	Redis RedisConfig
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // key prefix prepended to every location

	// BreakerThreshold consecutive failures open the circuit; 0 disables it.
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Open creates the configured backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendFile:
		s, err = NewFileStore(cfg.Root)
	case BackendSQLite:
		s, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
		if err == nil && cfg.Redis.BreakerThreshold > 0 {
			s = WithBreaker(s, NewBreaker(BackendRedis, cfg.Redis.BreakerThreshold, cfg.Redis.BreakerReset))
		}
	case BackendBadger:
		s, err = OpenBadgerStore(cfg.Path)
	case BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown document store backend: %s (supported: file, sqlite, redis, badger, memory)", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	return Instrument(backend, s), nil
}

// Instrument wraps s so that every operation is counted and traced.
func Instrument(backend string, s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{backend: backend, next: s}
}

type instrumented struct {
	backend string
	next    Store
}

func (i *instrumented) ReadText(ctx context.Context, location string) ([]byte, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "docstore.read", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	data, err := i.next.ReadText(ctx, location)
	span.SetAttributes(telemetry.DocumentAttributes(i.backend, location, len(data))...)
	telemetry.RecordError(span, err)
	metrics.RecordDocstoreOp(i.backend, "read", err)
	return data, err
}

func (i *instrumented) WriteText(ctx context.Context, location string, data []byte) error {
	ctx, span := telemetry.Tracer().Start(ctx, "docstore.write", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := i.next.WriteText(ctx, location, data)
	span.SetAttributes(telemetry.DocumentAttributes(i.backend, location, len(data))...)
	telemetry.RecordError(span, err)
	metrics.RecordDocstoreOp(i.backend, "write", err)
	return err
}

func (i *instrumented) Close() error { return i.next.Close() }

// Unwrap returns the backend behind the instrumentation.
func (i *instrumented) Unwrap() Store { return i.next }

// Backend returns the backend name the store was opened with.
func (i *instrumented) Backend() string { return i.backend }

// BackendOf reports the backend name of a store returned by Open or Instrument.
func BackendOf(s Store) string {
	if b, ok := s.(interface{ Backend() string }); ok {
		return b.Backend()
	}
	return ""
}

// Unwrap strips instrumentation and guards from s.
func Unwrap(s Store) Store {
	for {
		u, ok := s.(interface{ Unwrap() Store })
		if !ok {
			return s
		}
		s = u.Unwrap()
	}
}
