// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/rs/zerolog"
)

// Validate checks cross-field constraints. Every problem is reported; the
// returned error wraps ErrInvalid.
func Validate(cfg Config) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			add("log.level: unknown level %q", cfg.Log.Level)
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "", docstore.BackendFile, docstore.BackendMemory:
	case docstore.BackendSQLite, docstore.BackendBadger:
		if cfg.Store.Path == "" {
			add("store.path: required for the %s backend", cfg.Store.Backend)
		}
	case docstore.BackendRedis:
		if cfg.Store.Redis.Addr == "" {
			add("store.redis.addr: required for the redis backend")
		}
		if cfg.Store.Redis.DB < 0 {
			add("store.redis.db: must not be negative")
		}
		if cfg.Store.Redis.BreakerThreshold < 0 {
			add("store.redis.breakerThreshold: must not be negative")
		}
		if cfg.Store.Redis.BreakerReset < 0 {
			add("store.redis.breakerReset: must not be negative")
		}
	default:
		add("store.backend: unknown backend %q", cfg.Store.Backend)
	}

	if cfg.Catalog.Location == "" {
		add("catalog.location: must not be empty")
	}
	if cfg.Catalog.Debounce < 0 {
		add("catalog.debounce: must not be negative")
	}

	if cfg.Server.Listen == "" {
		add("server.listen: must not be empty")
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		if rl.Requests <= 0 {
			add("server.rateLimit.requests: must be positive")
		}
		if rl.Window <= 0 {
			add("server.rateLimit.window: must be positive")
		}
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			add("telemetry.exporter: must be grpc or http, got %q", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint: required when telemetry is enabled")
		}
	}
	if r := cfg.Telemetry.SamplingRate; r < 0 || r > 1 {
		add("telemetry.samplingRate: must be within [0, 1], got %v", r)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
