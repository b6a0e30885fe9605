// Package config loads the crewkitd configuration from an optional YAML file
// with CREWKIT_ prefixed environment overrides layered on top.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root crewkitd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Registry RegistryConfig `koanf:"registry"`
	Retry    RetryConfig    `koanf:"retry"`
	Personas PersonasConfig `koanf:"personas"`
	Backends BackendsConfig `koanf:"backends"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// RegistryConfig configures the agent registry store.
type RegistryConfig struct {
	Path string `koanf:"path"`
}

// RetryConfig is the default retry budget applied to new sessions.
type RetryConfig struct {
	MaxRetries      int `koanf:"max_retries"`
	IntervalSeconds int `koanf:"interval_seconds"`
}

// PersonasConfig locates the persona catalog file.
type PersonasConfig struct {
	Path string `koanf:"path"`
}

// BackendsConfig configures the AI backend adapters. Bindings maps persona
// name to provider ("anthropic", "openai", "mock").
type BackendsConfig struct {
	AnthropicModel string            `koanf:"anthropic_model"`
	OpenAIModel    string            `koanf:"openai_model"`
	Bindings       map[string]string `koanf:"bindings"`
}

// Load reads configuration with baked-in defaults, an optional YAML file, and
// CREWKIT_ env overrides (CREWKIT_SERVER_ADDR -> server.addr).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"server.addr":              ":8080",
		"server.shutdown_timeout":  "10s",
		"log.level":                "info",
		"log.format":               "json",
		"registry.path":            "data/registry.db",
		"retry.max_retries":        2,
		"retry.interval_seconds":   1,
		"personas.path":            "personas.yaml",
		"backends.anthropic_model": "",
		"backends.openai_model":    "",
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("CREWKIT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "CREWKIT_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Interval returns the retry pause as a duration.
func (r RetryConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}
