// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the serve command's settings.
type Config struct {
	// ListenAddr is the HTTP API listen address.
	ListenAddr string `koanf:"listen-addr"`

	// MetricsAddr is the metrics/health HTTP address. Empty disables
	// the observability server.
	MetricsAddr string `koanf:"metrics-addr"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`

	// TokenTTLSeconds is how long issued tokens stay valid.
	TokenTTLSeconds int `koanf:"token-ttl"`

	// MessageCap bounds the in-memory chat log.
	MessageCap int `koanf:"message-cap"`

	// RecentLimit is the window returned by the message list endpoint.
	RecentLimit int `koanf:"recent-limit"`

	// AllowedOrigins are CORS origins for the browser client.
	AllowedOrigins []string `koanf:"allowed-origins"`

	// Control enables the unix control socket.
	Control bool `koanf:"control"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		MetricsAddr:     "127.0.0.1:9100",
		LogFormat:       "json",
		TokenTTLSeconds: 3600,
		MessageCap:      1000,
		RecentLimit:     100,
		AllowedOrigins:  []string{"*"},
		Control:         true,
	}
}

// RegisterFlags declares every config key as a flag on the set, with
// the built-in defaults. Load reads the same set back, so a flag left
// at its default never overrides a file value.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String("listen-addr", def.ListenAddr, "HTTP API listen address")
	flags.String("metrics-addr", def.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("log-format", def.LogFormat, "log format (json or text)")
	flags.Int("token-ttl", def.TokenTTLSeconds, "token time-to-live in seconds")
	flags.Int("message-cap", def.MessageCap, "maximum stored chat messages")
	flags.Int("recent-limit", def.RecentLimit, "messages returned by the list endpoint")
	flags.StringSlice("allowed-origins", def.AllowedOrigins, "CORS allowed origins")
	flags.Bool("control", def.Control, "enable the unix control socket")
}

// Load merges defaults, the optional YAML file at path, and any
// changed flags, then validates the result.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_UNREADABLE").
				With("path", path).
				Wrap(err)
		}
	}

	// Changed flags win over the file; unchanged flags only fill keys
	// the file left unset.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen-addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("token-ttl must be positive, got %d", c.TokenTTLSeconds)
	}
	if c.MessageCap <= 0 {
		return fmt.Errorf("message-cap must be positive, got %d", c.MessageCap)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent-limit must be positive, got %d", c.RecentLimit)
	}
	return nil
}

// TokenTTL returns the token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}
