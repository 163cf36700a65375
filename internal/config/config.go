// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

// Package config loads identityd configuration from a YAML file, ACORN_*
// environment variables, and command-line flags, in ascending precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables consumed here.
// ACORN_DATABASE_URL maps to database_url; a double underscore descends
// into nested keys (ACORN_LOG__FORMAT -> log.format).
const envPrefix = "ACORN_"

// Config holds the runtime configuration for the identity subsystem.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url"`

	// SessionSecret signs session cookies in the surrounding web layer.
	// The core only carries the value.
	SessionSecret string `koanf:"session_secret"`

	Log           LogConfig           `koanf:"log"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Format is "json" or "text".
	Format string `koanf:"format"`
}

// ObservabilityConfig controls the health/metrics endpoint.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// Load reads configuration. path may be empty (no file); flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Defaults, lowest precedence.
	defaults := map[string]any{
		"log.format":         "json",
		"observability.addr": "localhost:9090",
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("operation", "set default").
				With("key", key).
				Wrap(err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load config file").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "load environment").
			Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envToKey maps ACORN_LOG__FORMAT to log.format.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks required values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if c.SessionSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session_secret is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log format must be json or text")
	}
	return nil
}
