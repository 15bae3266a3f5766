// Package config loads vectorcad settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. an optional TOML file
//  3. environment variables prefixed with VECTORCAD_
//
// Environment keys map onto the dotted config keys by replacing the dots
// with underscores, so VECTORCAD_SNAP_GRID_SIZE sets snap.grid_size and
// VECTORCAD_TRANSFORM_LOG_MAX_ENTRIES sets transform_log.max_entries.
package config

import (
	"github.com/matzehuels/vectorcad/pkg/events"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VECTORCAD_"

// Config is the full application configuration.
type Config struct {
	Log          LogConfig          `koanf:"log" toml:"log"`
	Interaction  interaction.Config `koanf:"interaction" toml:"interaction"`
	Snap         snap.Options       `koanf:"snap" toml:"snap"`
	Ortho        OrthoConfig        `koanf:"ortho" toml:"ortho"`
	TransformLog TransformLogConfig `koanf:"transform_log" toml:"transform_log"`
	Events       EventsConfig       `koanf:"events" toml:"events"`
	Server       ServerConfig       `koanf:"server" toml:"server"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `koanf:"level" toml:"level"`
}

// OrthoConfig holds the persistent axis lock.
type OrthoConfig struct {
	Persistent bool `koanf:"persistent" toml:"persistent"`
}

// TransformLogConfig sizes the session's transform log.
type TransformLogConfig struct {
	Enabled    bool `koanf:"enabled" toml:"enabled"`
	MaxEntries int  `koanf:"max_entries" toml:"max_entries"`
	MaxIDs     int  `koanf:"max_ids" toml:"max_ids"`
}

// EventsConfig configures the Redis stream publisher. An empty RedisURL
// disables publishing.
type EventsConfig struct {
	RedisURL string `koanf:"redis_url" toml:"redis_url"`
	Stream   string `koanf:"stream" toml:"stream"`
	MaxLen   int64  `koanf:"max_len" toml:"max_len"`
	// RetryAttempts bounds how often a flush is tried when Redis is
	// unreachable.
	RetryAttempts int `koanf:"retry_attempts" toml:"retry_attempts"`
}

// ServerConfig configures the debug server.
type ServerConfig struct {
	Addr string `koanf:"addr" toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:         LogConfig{Level: "info"},
		Interaction: interaction.DefaultConfig(),
		Snap:        snap.DefaultOptions(),
		TransformLog: TransformLogConfig{
			MaxEntries: interaction.DefaultLogMaxEntries,
			MaxIDs:     interaction.DefaultLogMaxIDs,
		},
		Events: EventsConfig{
			Stream:        events.DefaultStream,
			MaxLen:        events.DefaultMaxLen,
			RetryAttempts: 3,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8321"},
	}
}

// SessionOptions returns the interaction options described by c.
func (c Config) SessionOptions() []interaction.Option {
	return []interaction.Option{
		interaction.WithConfig(c.Interaction),
		interaction.WithSnapOptions(c.Snap),
		interaction.WithOrtho(c.Ortho.Persistent),
	}
}

// PublisherOptions returns the Redis publisher options described by c.
func (c Config) PublisherOptions() []events.PublisherOption {
	return []events.PublisherOption{
		events.WithStream(c.Events.Stream),
		events.WithMaxLen(c.Events.MaxLen),
		events.WithRetry(c.Events.RetryAttempts, events.DefaultRetryDelay),
	}
}
