// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid classifies configurations that parse but fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	lookupEnv  func(string) (string, bool)

	// ConsumedEnvKeys records every environment key that was consulted.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader for the YAML file at configPath. An empty path
// means defaults and environment only.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		lookupEnv:       os.LookupEnv,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load reads configuration with precedence ENV > File > Defaults and
// validates the result.
func Load(configPath string) (Config, error) {
	return NewLoader(configPath).Load()
}

// Load runs the loader.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.mergeFile(&cfg, l.configPath); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	}

	l.mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile decodes the YAML file over cfg so that absent keys keep their
// current values.
func (l *Loader) mergeFile(cfg *Config, path string) error {
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if err == io.EOF {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error (unknown key): %w", err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}
