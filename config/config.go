// Package config carries the runtime configuration for the amqpex CLI:
// logging, output format and the optional telemetry endpoint. Values come
// from defaults, an optional YAML file and AMQPEX_-prefixed environment
// variables, in that order.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "AMQPEX_"

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// OutputConfig controls how built records are rendered.
type OutputConfig struct {
	Format string `koanf:"format"` // hex, base64 or cbor
}

// TelemetryConfig controls the Prometheus exposition endpoint.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// Config is the root CLI configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Output    OutputConfig    `koanf:"output"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Output:    OutputConfig{Format: "hex"},
		Telemetry: TelemetryConfig{Enabled: false, Port: 9419},
	}
}

// Load merges defaults, the optional YAML file at path and AMQPEX_
// environment variables. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its closed value set.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Output.Format {
	case "hex", "base64", "cbor":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Telemetry.Port < 1 || c.Telemetry.Port > 65535 {
		return fmt.Errorf("invalid telemetry port %d", c.Telemetry.Port)
	}
	return nil
}

// BuildLogger constructs the zap logger described by the Log section.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
