// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mmalenic/evget/internal/config"
	"github.com/mmalenic/evget/internal/logging"
	"github.com/mmalenic/evget/internal/sink/dbsink"
	"github.com/mmalenic/evget/internal/sink/jsonsink"
	"github.com/mmalenic/evget/internal/storage"
)

// resolvedSinks is the result of turning every -o LOC into a live
// storage.Sink, per spec.md section 6's LOC rules.
type resolvedSinks struct {
	sinks []storage.Sink
	// closers holds every resource (open file, database connection) that
	// must be released on shutdown, in acquisition order.
	closers []io.Closer
	// stdout is true if any LOC was "-": per spec.md section 6, JSON to
	// stdout disables logging so the two streams never interleave.
	stdout bool
}

func (r *resolvedSinks) closeAll() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			logging.Warn().Err(err).Msg("evlist: error closing sink")
		}
	}
}

// buildSinks resolves every location in locations to a storage.Sink, in
// the order given; the storage.Manager fans writes out in this same
// order (SPEC_FULL.md section 4.10/4.11).
func buildSinks(ctx context.Context, locations []string) (*resolvedSinks, error) {
	result := &resolvedSinks{}

	for _, loc := range locations {
		kind := (config.SinkConfig{Location: loc}).Kind()

		switch kind {
		case config.SinkJSONStdout:
			result.stdout = true
			result.sinks = append(result.sinks, storage.NewJSONSink(jsonsink.New(os.Stdout)))

		case config.SinkJSONFile:
			f, err := os.OpenFile(loc, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				result.closeAll()
				return nil, fmt.Errorf("evlist: open output file %s: %w", loc, err)
			}
			result.closers = append(result.closers, f)
			result.sinks = append(result.sinks, storage.NewJSONSink(jsonsink.New(f)))

		case config.SinkDatabase:
			sink, err := dbsink.Init(ctx, loc)
			if err != nil {
				result.closeAll()
				return nil, fmt.Errorf("evlist: open database sink %s: %w", loc, err)
			}
			result.closers = append(result.closers, sink)
			result.sinks = append(result.sinks, sink)
		}
	}

	return result, nil
}
