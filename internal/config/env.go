// SPDX-License-Identifier: MIT

package config

import (
	"strconv"
	"strings"
	"time"

	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "GAMEINFO_"

func (l *Loader) mergeEnv(cfg *Config) {
	cfg.Log.Level = l.envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Console = l.envBool("LOG_CONSOLE", cfg.Log.Console)

	cfg.Store.Backend = l.envString("STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Root = l.envString("STORE_ROOT", cfg.Store.Root)
	cfg.Store.Path = l.envString("STORE_PATH", cfg.Store.Path)
	cfg.Store.Redis.Addr = l.envString("REDIS_ADDR", cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = l.envString("REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = l.envInt("REDIS_DB", cfg.Store.Redis.DB)
	cfg.Store.Redis.Prefix = l.envString("REDIS_PREFIX", cfg.Store.Redis.Prefix)
	cfg.Store.Redis.BreakerThreshold = l.envInt("REDIS_BREAKER_THRESHOLD", cfg.Store.Redis.BreakerThreshold)
	cfg.Store.Redis.BreakerReset = l.envDuration("REDIS_BREAKER_RESET", cfg.Store.Redis.BreakerReset)

	cfg.Catalog.Location = l.envString("CATALOG_LOCATION", cfg.Catalog.Location)
	cfg.Catalog.Signature = l.envString("CATALOG_SIGNATURE", cfg.Catalog.Signature)
	cfg.Catalog.Watch = l.envBool("CATALOG_WATCH", cfg.Catalog.Watch)
	cfg.Catalog.Debounce = l.envDuration("CATALOG_DEBOUNCE", cfg.Catalog.Debounce)

	cfg.Server.Listen = l.envString("LISTEN", cfg.Server.Listen)
	cfg.Server.ReadTimeout = l.envDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.RateLimit.Enabled = l.envBool("RATELIMIT_ENABLED", cfg.Server.RateLimit.Enabled)
	cfg.Server.RateLimit.Requests = l.envInt("RATELIMIT_REQUESTS", cfg.Server.RateLimit.Requests)
	cfg.Server.RateLimit.Window = l.envDuration("RATELIMIT_WINDOW", cfg.Server.RateLimit.Window)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString("TELEMETRY_ENVIRONMENT", cfg.Telemetry.Environment)
}

// lookup returns the value of GAMEINFO_<key> when it is set and non-empty.
func (l *Loader) lookup(key string) (string, string, bool) {
	full := EnvPrefix + key
	l.ConsumedEnvKeys[full] = struct{}{}
	v, ok := l.lookupEnv(full)
	if !ok || v == "" {
		return full, "", false
	}
	return full, v, true
}

func logger() *zerolog.Logger {
	l := gilog.WithComponent("config")
	return &l
}

func (l *Loader) envString(key, current string) string {
	full, v, ok := l.lookup(key)
	if !ok {
		return current
	}
	ev := logger().Debug().Str("key", full).Str("source", "environment")
	lower := strings.ToLower(full)
	if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
		ev.Bool("sensitive", true).Msg("using environment variable")
	} else {
		ev.Str("value", v).Msg("using environment variable")
	}
	return v
}

func (l *Loader) envInt(key string, current int) int {
	full, v, ok := l.lookup(key)
	if !ok {
		return current
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		l.warnInvalid(full, v, err)
		return current
	}
	return i
}

func (l *Loader) envBool(key string, current bool) bool {
	full, v, ok := l.lookup(key)
	if !ok {
		return current
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.warnInvalid(full, v, err)
		return current
	}
	return b
}

func (l *Loader) envDuration(key string, current time.Duration) time.Duration {
	full, v, ok := l.lookup(key)
	if !ok {
		return current
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.warnInvalid(full, v, err)
		return current
	}
	return d
}

func (l *Loader) envFloat(key string, current float64) float64 {
	full, v, ok := l.lookup(key)
	if !ok {
		return current
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.warnInvalid(full, v, err)
		return current
	}
	return f
}

func (l *Loader) warnInvalid(key, value string, err error) {
	logger().Warn().
		Err(err).
		Str("key", key).
		Str("value", value).
		Msg("invalid environment value, keeping configured value")
}
