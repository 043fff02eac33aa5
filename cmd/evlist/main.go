// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command evlist captures raw input events from a windowing-subsystem
// backend, normalises them via internal/transform, and persists them to
// one or more sinks via internal/storage. It wires together every core
// component (C3-C13) behind the CLI surface and exit-code contract of
// SPEC_FULL.md section 6, in the spirit of the teacher's cmd/server
// main.go's configuration-then-wiring-then-supervise shape, flattened
// to the single internal/scheduler runtime this module uses in place of
// the teacher's internal/supervisor tree.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmalenic/evget/internal/config"
	"github.com/mmalenic/evget/internal/logging"
	"github.com/mmalenic/evget/internal/metrics"
	"github.com/mmalenic/evget/internal/pipeline"
	"github.com/mmalenic/evget/internal/scheduler"
	"github.com/mmalenic/evget/internal/storage"
	"github.com/mmalenic/evget/internal/transform"
)

// version is reported by -v/--version per SPEC_FULL.md section 6.
const version = "0.1.0"

const licenseNotice = `evget %s
Copyright the evget contributors
License: GNU Affero General Public License v3.0 or later (AGPL-3.0-or-later)
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it
under the terms of the license.`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI entry point as a pure function of argv,
// returning the process exit code per spec.md section 6: 0 success, 1
// internal error, >1 CLI usage errors.
func run(args []string) int {
	cli, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if cli.version {
		fmt.Println(versionNotice())
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "evlist: load configuration: %v\n", err)
		return 2
	}
	applyCLIOverrides(cfg, cli)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolved, err := buildSinks(ctx, cli.outputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	defer resolved.closeAll()

	if resolved.stdout {
		cfg.Logging.Level = "disabled"
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	src, querier, err := initBackend()
	if err != nil {
		logging.Error().Err(err).Msg("evlist: initialize input backend")
		return 1
	}

	transformer, err := transform.New(querier)
	if err != nil {
		logging.Error().Err(err).Msg("evlist: initialize transformer")
		return 1
	}

	sched := scheduler.New(ctx, "evlist")
	manager := storage.New(sched, cfg.Pipeline.StoreNEvents, cfg.Pipeline.StoreAfterSeconds, resolved.sinks...)
	listener := storage.NewListener(transformer, manager)
	pipe := pipeline.New(src, listener)

	retCode := 0
	sched.SpawnResult("pipeline", pipe.Start, &retCode)

	var metricsServer *http.Server
	if cli.metricsAddr != "" {
		metricsServer = startMetricsServer(sched, cli.metricsAddr, &retCode)
	}

	waitForShutdown(cancel, sched)

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("evlist: error shutting down metrics server")
		}
	}

	return retCode
}

func versionNotice() string {
	return fmt.Sprintf(licenseNotice, version)
}

// applyCLIOverrides writes any explicitly-given CLI flag onto cfg,
// which otherwise already holds config.Load's defaults/file/env
// layering, per spec.md section 6's "CLI flags take final priority".
func applyCLIOverrides(cfg *config.Config, cli *cliFlags) {
	if cli.storeNEventsSet {
		cfg.Pipeline.StoreNEvents = cli.storeNEvents
	}
	if cli.storeAfterSecondsSet {
		cfg.Pipeline.StoreAfterSeconds = time.Duration(cli.storeAfterSeconds) * time.Second
	}
}

// startMetricsServer spawns an HTTP server exposing internal/metrics's
// registry at addr, under sched so a listen failure stops the runtime
// and sets retCode, per SPEC_FULL.md section 4.12/6's --metrics-addr.
func startMetricsServer(sched *scheduler.Scheduler, addr string, retCode *int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	sched.SpawnResult("metrics-server", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- server.ListenAndServe() }()

		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("evlist: metrics server: %w", err)
			}
			return nil
		}
	}, retCode)

	return server
}

// waitForShutdown blocks until SIGINT/SIGTERM or the scheduler stops on
// its own (e.g. a spawned task failed), mirroring the teacher's
// cmd/server main.go signal-then-Join shape.
func waitForShutdown(cancel context.CancelFunc, sched *scheduler.Scheduler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("evlist: received shutdown signal")
		sched.Stop()
		cancel()
	}()

	sched.Join()
}
