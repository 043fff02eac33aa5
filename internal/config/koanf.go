// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// priority order; the first file found is used.
var DefaultConfigPaths = []string{
	"evget.yaml",
	"evget.yml",
	"/etc/evget/evget.yaml",
	"/etc/evget/evget.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "EVGET_CONFIG_PATH"

// defaultConfig returns evget's built-in defaults, matching spec.md
// section 6's CLI defaults (-n 100, -s 60).
func defaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			StoreNEvents:      100,
			StoreAfterSeconds: 60 * time.Second,
		},
		Sinks: nil,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables (in that order of increasing priority), then
// validates the result. cmd/evlist applies CLI flags on top of the
// returned Config, since CLI flags take final priority per spec.md
// section 6.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("EVGET_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps EVGET_PIPELINE_STORE_N_EVENTS -> pipeline.store_n_events.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, "EVGET_")
	key = strings.ToLower(key)
	return strings.Replace(key, "_", ".", 1)
}
