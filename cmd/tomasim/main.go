// Package main provides the command-line driver for the Tomasulo
// simulator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/tomasim/config"
	"github.com/sarchlab/tomasim/tomasulo"
	"github.com/sarchlab/tomasim/trace"
)

var (
	configPath = flag.String("config", "", "Path to a JSON simulator configuration file")
	r          = flag.Uint64("r", 0, "CDB slot count (\"ROB size\"); overrides -config when > 0")
	k0         = flag.Uint64("k0", 0, "Number of type-0 functional units; overrides -config when > 0")
	k1         = flag.Uint64("k1", 0, "Number of type-1 functional units; overrides -config when > 0")
	k2         = flag.Uint64("k2", 0, "Number of type-2 functional units; overrides -config when > 0")
	f          = flag.Uint64("f", 0, "Fetch width; overrides -config when > 0")
	debug      = flag.Bool("debug", false, "Write the per-stage-transition diagnostic trace to stderr")
	logJSON    = flag.Bool("log-json", false, "Emit operational log messages as JSON instead of text")
	maxCycles  = flag.Uint64("max-cycles", 0, "Abort if the simulation exceeds this many cycles (0 = unlimited)")
)

// errCycleLimitExceeded is returned when -max-cycles is set and the
// simulation has not drained within that many cycles. It is a CLI-level
// operational guard, not part of the core engine's semantics: the
// engine's own Done() has no cycle ceiling.
var errCycleLimitExceeded = errors.New("simulation exceeded -max-cycles without draining")

func main() {
	flag.Parse()

	var handler slog.Handler
	if *logJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomasim [options] <trace-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	tracePath := flag.Arg(0)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	reader, err := trace.NewFileReader(tracePath)
	if err != nil {
		logger.Error("failed to read trace", "path", tracePath, "error", err)
		os.Exit(1)
	}

	var opts []tomasulo.SimulatorOption
	if *debug {
		opts = append(opts, tomasulo.WithDebugTrace(os.Stderr))
	}

	sim := tomasulo.NewSimulator(cfg.EngineConfig(), reader, opts...)

	if err := run(sim, *maxCycles); err != nil {
		logger.Error("simulation did not complete", "error", err)
		os.Exit(1)
	}

	sim.WriteReport(os.Stdout)

	stats := sim.Stats()
	fmt.Printf("\n")
	fmt.Printf("Cycles:                    %d\n", stats.CycleCount)
	fmt.Printf("Retired instructions:      %d\n", stats.RetiredInstructions)
	fmt.Printf("Avg instructions retired:  %.4f\n", stats.AvgInstRetired)
	fmt.Printf("Avg instructions fired:    %.4f\n", stats.AvgInstFired)
	fmt.Printf("Avg dispatch-queue size:   %.4f\n", stats.AvgDispSize)
	fmt.Printf("Max dispatch-queue size:   %d\n", stats.MaxDispSize)

	logger.Info("simulation complete",
		"cycles", stats.CycleCount,
		"retired", stats.RetiredInstructions)
}

// loadConfig resolves the effective configuration: -config (or the
// default) overridden field-by-field by any -r/-k0/-k1/-k2/-f flag the
// caller set to a non-zero value.
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if *r > 0 {
		cfg.CDBSlots = *r
	}
	if *k0 > 0 {
		cfg.FUCounts[0] = *k0
	}
	if *k1 > 0 {
		cfg.FUCounts[1] = *k1
	}
	if *k2 > 0 {
		cfg.FUCounts[2] = *k2
	}
	if *f > 0 {
		cfg.FetchWidth = *f
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("resolved configuration",
		"cdb_slots", cfg.CDBSlots, "fu_counts", cfg.FUCounts, "fetch_width", cfg.FetchWidth)

	return cfg, nil
}

// run drives sim to completion, enforcing limit as an operational cycle
// ceiling (0 = unlimited) on top of the engine's own unbounded Done().
func run(sim *tomasulo.Simulator, limit uint64) error {
	var cycles uint64
	for !sim.Done() {
		if limit > 0 && cycles >= limit {
			return errCycleLimitExceeded
		}
		sim.Step()
		cycles++
	}
	return nil
}
