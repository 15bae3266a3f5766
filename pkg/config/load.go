package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/vectorcad/pkg/errors"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	env bool
}

// WithoutEnv skips the environment layer.
func WithoutEnv() Option {
	return func(o *loadOptions) { o.env = false }
}

// Load builds the configuration from defaults, the TOML file at path (when
// path is not empty) and the environment, then validates it.
func Load(path string, opts ...Option) (Config, error) {
	o := &loadOptions{env: true}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	defaults, err := toml.Marshal(Default())
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "encode defaults")
	}
	if err := k.Load(rawBytes(defaults), TOML()); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "load defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), TOML()); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
		}
	}

	if o.env {
		lookup := envLookup(k.Keys())
		err := k.Load(env.Provider(".", env.Opt{
			Prefix: EnvPrefix,
			TransformFunc: func(key, value string) (string, any) {
				key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
				if known, ok := lookup[key]; ok {
					return known, value
				}
				return strings.ReplaceAll(key, "_", "."), value
			},
		}), nil)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envLookup maps underscore-joined keys back to their dotted form so that
// field names containing underscores survive the round trip.
func envLookup(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}

// =============================================================================
// koanf adapters
// =============================================================================

type tomlParser struct{}

// TOML returns a koanf parser backed by BurntSushi/toml.
func TOML() koanf.Parser { return tomlParser{} }

func (tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type rawBytes []byte

func (b rawBytes) ReadBytes() ([]byte, error) { return b, nil }

func (rawBytes) Read() (map[string]any, error) {
	return nil, stderrors.New("raw bytes provider does not support Read")
}
