// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package config loads the back-office configuration from an optional YAML
// file and command-line flags.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DatabaseURLEnv is consulted when database.url is not configured.
const DatabaseURLEnv = "DATABASE_URL"

// Config is the full back-office configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Static   StaticConfig   `koanf:"static"`
	CORS     CORSConfig     `koanf:"cors"`
	Storage  string         `koanf:"storage"`
}

// HTTPConfig configures the web listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Format string `koanf:"format" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// SessionConfig configures login sessions.
type SessionConfig struct {
	TTL        time.Duration `koanf:"ttl"`
	CookieName string        `koanf:"cookie_name"`
}

// StaticConfig points at the directory served under /style and /js.
type StaticConfig struct {
	Dir string `koanf:"dir"`
}

// CORSConfig lists the origins allowed to call the app cross-site.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Defaults returns the configuration used when neither file nor flags set
// a key.
func Defaults() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: "127.0.0.1:8080"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		Log:     LogConfig{Format: "json", Level: "info"},
		Database: DatabaseConfig{
			ConnectTimeout: 30 * time.Second,
		},
		Session: SessionConfig{
			TTL:        24 * time.Hour,
			CookieName: "poseiden_session",
		},
		Static:  StaticConfig{Dir: "static"},
		CORS:    CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}},
		Storage: StoragePostgres,
	}
}

// flagKeys maps flag names to configuration keys. Flags not listed here
// are ignored by Load.
var flagKeys = map[string]string{
	"http-addr":                "http.addr",
	"metrics-addr":             "metrics.addr",
	"log-format":               "log.format",
	"log-level":                "log.level",
	"database-url":             "database.url",
	"database-connect-timeout": "database.connect_timeout",
	"session-ttl":              "session.ttl",
	"session-cookie-name":      "session.cookie_name",
	"static-dir":               "static.dir",
	"cors-allowed-origins":     "cors.allowed_origins",
	"storage":                  "storage",
}

// RegisterFlags adds the server flags to fs with their default values.
// log-format is left to the caller since it is usually a persistent flag.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("http-addr", d.HTTP.Addr, "web listen address")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("database-url", "", "PostgreSQL URL (default: $"+DatabaseURLEnv+")")
	fs.Duration("database-connect-timeout", d.Database.ConnectTimeout, "how long to wait for the database at startup")
	fs.Duration("session-ttl", d.Session.TTL, "login session lifetime")
	fs.String("session-cookie-name", d.Session.CookieName, "session cookie name")
	fs.String("static-dir", d.Static.Dir, "directory served under /style and /js")
	fs.StringSlice("cors-allowed-origins", d.CORS.AllowedOrigins, "origins allowed for cross-site requests")
	fs.String("storage", d.Storage, "record storage backend (postgres or memory)")
}

// Load builds a Config from the YAML file at path (skipped when empty) and
// the flags in fs (skipped when nil). A flag the user set always wins; an
// unset flag only supplies its default for keys the file left unset.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
		if err := ValidateDocument(data); err != nil {
			return nil, oops.With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv(DatabaseURLEnv)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	return &cfg, nil
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	invalid := func(key, format string, args ...any) error {
		return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
	}

	if c.HTTP.Addr == "" {
		return invalid("http.addr", "http.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			return invalid("database.url", "database.url or %s is required for postgres storage", DatabaseURLEnv)
		}
	case StorageMemory:
	default:
		return invalid("storage", "storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.Database.ConnectTimeout <= 0 {
		return invalid("database.connect_timeout", "database.connect_timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return invalid("session.ttl", "session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return invalid("session.cookie_name", "session.cookie_name is required")
	}
	return nil
}
