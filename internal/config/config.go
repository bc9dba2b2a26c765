// SPDX-License-Identifier: MIT

// Package config loads gameinfo configuration.
//
// Precedence: ENV > File > Defaults. The file is strict YAML: unknown keys
// and multiple documents are rejected.
package config

import (
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/telemetry"
)

// Config is the complete runtime configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Root    string      `yaml:"root"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`

	// BreakerThreshold consecutive failures open the circuit; 0 disables it.
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
}

// CatalogConfig names the documents served.
type CatalogConfig struct {
	Location  string        `yaml:"location"`
	Signature string        `yaml:"signature"`
	Watch     bool          `yaml:"watch"`
	Debounce  time.Duration `yaml:"debounce"`
}

// ServerConfig configures the HTTP read surface.
type ServerConfig struct {
	Listen          string          `yaml:"listen"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Store: StoreConfig{
			Backend: docstore.BackendFile,
			Redis: RedisConfig{
				Addr:             "localhost:6379",
				Prefix:           "gameinfo:",
				BreakerThreshold: 5,
				BreakerReset:     30 * time.Second,
			},
		},
		Catalog: CatalogConfig{
			Location: "games.json",
			Debounce: 500 * time.Millisecond,
		},
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:  true,
				Requests: 100,
				Window:   time.Minute,
			},
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}

// StoreOptions converts the store section for docstore.Open.
func (c Config) StoreOptions() docstore.Config {
	return docstore.Config{
		Backend: c.Store.Backend,
		Root:    c.Store.Root,
		Path:    c.Store.Path,
		Redis: docstore.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,

			BreakerThreshold: c.Store.Redis.BreakerThreshold,
			BreakerReset:     c.Store.Redis.BreakerReset,
		},
	}
}

// LogOptions converts the log section for log.Configure.
func (c Config) LogOptions() gilog.Config {
	return gilog.Config{Level: c.Log.Level, Console: c.Log.Console}
}

// TelemetryOptions converts the telemetry section for telemetry.NewProvider.
func (c Config) TelemetryOptions(version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    "gameinfo",
		ServiceVersion: version,
		Environment:    c.Telemetry.Environment,
		ExporterType:   c.Telemetry.Exporter,
		Endpoint:       c.Telemetry.Endpoint,
		SamplingRate:   c.Telemetry.SamplingRate,
	}
}
