// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/config"
)

func TestParseFlagsShortAndLongFormsWriteSameField(t *testing.T) {
	short, err := parseFlags([]string{"-n", "50"})
	require.NoError(t, err)
	assert.Equal(t, 50, short.storeNEvents)
	assert.True(t, short.storeNEventsSet)

	long, err := parseFlags([]string{"--store-n-events", "50"})
	require.NoError(t, err)
	assert.Equal(t, 50, long.storeNEvents)
	assert.True(t, long.storeNEventsSet)
}

func TestParseFlagsLeavesUnsetFieldsUnflagged(t *testing.T) {
	cli, err := parseFlags([]string{"-o", "-"})
	require.NoError(t, err)
	assert.False(t, cli.storeNEventsSet)
	assert.False(t, cli.storeAfterSecondsSet)
}

func TestParseFlagsRepeatsOutputAcrossBothSpellings(t *testing.T) {
	cli, err := parseFlags([]string{"-o", "-", "--output", "events.db"})
	require.NoError(t, err)
	assert.Equal(t, []string(outputs{"-", "events.db"}), []string(cli.outputs))
}

func TestParseFlagsVersionFlag(t *testing.T) {
	cli, err := parseFlags([]string{"-v"})
	require.NoError(t, err)
	assert.True(t, cli.version)

	cli, err = parseFlags([]string{"--version"})
	require.NoError(t, err)
	assert.True(t, cli.version)
}

func TestParseFlagsMetricsAddr(t *testing.T) {
	cli, err := parseFlags([]string{"--metrics-addr", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cli.metricsAddr)
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"--not-a-flag"})
	require.Error(t, err)
}

func TestApplyCLIOverridesOnlyAppliesExplicitFlags(t *testing.T) {
	cfg := &config.Config{
		Pipeline: config.PipelineConfig{StoreNEvents: 100, StoreAfterSeconds: 60 * time.Second},
	}

	applyCLIOverrides(cfg, &cliFlags{})
	assert.Equal(t, 100, cfg.Pipeline.StoreNEvents)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StoreAfterSeconds)

	applyCLIOverrides(cfg, &cliFlags{storeNEvents: 5, storeNEventsSet: true})
	assert.Equal(t, 5, cfg.Pipeline.StoreNEvents)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StoreAfterSeconds)

	applyCLIOverrides(cfg, &cliFlags{storeAfterSeconds: 30, storeAfterSecondsSet: true})
	assert.Equal(t, 30*time.Second, cfg.Pipeline.StoreAfterSeconds)
}
