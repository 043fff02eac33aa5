// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config holds evget's layered application configuration:
// defaults, then an optional YAML file, then environment variables,
// then CLI flags (applied by cmd/evlist on top of the loaded Config).
// Grounded on internal/config/config.go + koanf.go + config_validate.go's
// struct-with-koanf-tags / layered-load / validator.v10 pattern.
package config

import "time"

// Config holds all of evget's configuration.
//
// Configuration loading order:
//  1. Defaults (defaultConfig)
//  2. Optional YAML config file
//  3. Environment variables (EVGET_ prefix)
//  4. CLI flags, applied last by cmd/evlist directly onto the loaded values
type Config struct {
	Pipeline PipelineConfig `koanf:"pipeline" validate:"required"`
	Sinks    []SinkConfig   `koanf:"sinks" validate:"dive"`
	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
}

// PipelineConfig holds the storage manager's dual-trigger batching
// thresholds, per spec.md section 6's -n/-s CLI surface.
type PipelineConfig struct {
	// StoreNEvents is the count trigger: flush once a merged batch
	// reaches this many records.
	StoreNEvents int `koanf:"store_n_events" validate:"gte=1"`

	// StoreAfterSeconds is the time trigger: flush unconditionally after
	// this many seconds, even if StoreNEvents has not been reached.
	StoreAfterSeconds time.Duration `koanf:"store_after_seconds" validate:"gte=0"`
}

// SinkKind identifies which sink implementation a SinkConfig resolves to.
type SinkKind int

const (
	SinkJSONStdout SinkKind = iota
	SinkJSONFile
	SinkDatabase
)

// SinkConfig describes one output destination, resolved from a -o LOC
// value per spec.md section 6: "-" selects JSON to stdout, a path
// ending in a known sqlite extension selects the database sink,
// anything else selects JSON-to-file in append mode.
type SinkConfig struct {
	Location string `koanf:"location" validate:"required"`
}

// Kind classifies Location into a SinkKind per spec.md section 6's LOC rules.
func (s SinkConfig) Kind() SinkKind {
	return sinkKindOf(s.Location)
}

var databaseExtensions = []string{".sqlite", ".sqlite3", ".db", ".db3", ".s3db", ".sl3"}

func sinkKindOf(location string) SinkKind {
	if location == "-" {
		return SinkJSONStdout
	}
	for _, ext := range databaseExtensions {
		if hasSuffix(location, ext) {
			return SinkDatabase
		}
	}
	return SinkJSONFile
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// LoggingConfig configures internal/logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}
