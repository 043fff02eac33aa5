// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"strings"
)

// outputs accumulates every -o/--output value in the order given,
// since the CLI surface allows the flag to repeat (one sink per LOC).
type outputs []string

func (o *outputs) String() string {
	return strings.Join(*o, ",")
}

func (o *outputs) Set(value string) error {
	*o = append(*o, value)
	return nil
}

// cliFlags holds the one-shot run parameters parsed by the standard
// library flag package, per SPEC_FULL.md section 6: -n/-s/-o/-v stay on
// flag rather than internal/config (koanf), since they are run
// parameters, not durable settings.
type cliFlags struct {
	storeNEvents      int
	storeNEventsSet   bool
	storeAfterSeconds    int
	storeAfterSecondsSet bool
	outputs              outputs
	version           bool
	metricsAddr       string
}

// parseFlags parses args (excluding the program name) into a cliFlags.
// Both the short and long spellings of each flag write into the same
// variable; flag.Visit afterward tells us which of -n/-s was actually
// given, so CLI values only override config-loaded defaults when the
// user supplied them.
func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("evlist", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: evlist [flags]\n\n")
		fs.PrintDefaults()
	}

	cli := &cliFlags{}
	fs.IntVar(&cli.storeNEvents, "n", 0, "count trigger: flush once a batch reaches this many records (default 100)")
	fs.IntVar(&cli.storeNEvents, "store-n-events", 0, "long form of -n")
	fs.IntVar(&cli.storeAfterSeconds, "s", 0, "time trigger: flush after this many seconds (default 60)")
	fs.IntVar(&cli.storeAfterSeconds, "store-after-seconds", 0, "long form of -s")
	fs.Var(&cli.outputs, "o", "output sink location, repeatable: '-' for JSON to stdout, a database path, or a file path")
	fs.Var(&cli.outputs, "output", "long form of -o")
	fs.BoolVar(&cli.version, "v", false, "print version, license, and copyright, then exit")
	fs.BoolVar(&cli.version, "version", false, "long form of -v")
	fs.StringVar(&cli.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n", "store-n-events":
			cli.storeNEventsSet = true
		case "s", "store-after-seconds":
			cli.storeAfterSecondsSet = true
		}
	})

	return cli, nil
}
