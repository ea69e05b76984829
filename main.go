package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/narjillos/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	dna := flag.String("dna", "", "Genome of every founder (empty = random genomes)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until extinction)")
	population := flag.Int("population", 20, "Number of founders")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	archivePath := flag.String("archive", "", "SQLite file archiving every genome (empty = disabled)")
	inspectAddr := flag.String("inspect-addr", "", "Serve a websocket feed of creatures on this address, e.g. :8080")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for creature snapshots written at each stats window")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	ancestry := flag.Uint64("ancestry", 0, "Print the archived lineage of this genome id and exit (needs -archive)")
	runID := flag.String("run", "", "Archived run to query with -ancestry (empty = latest)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *ancestry != 0 {
		if *archivePath == "" {
			slog.Error("-ancestry needs -archive")
			os.Exit(2)
		}
		if err := printAncestry(os.Stdout, *archivePath, *runID, *ancestry); err != nil {
			slog.Error("ancestry query failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := Options{
		Seed:        rngSeed,
		DNA:         *dna,
		MaxTicks:    *maxTicks,
		Population:  *population,
		OutputDir:   *outputDir,
		ArchivePath: *archivePath,
		InspectAddr: *inspectAddr,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}
	if err := run(ctx, config.Cfg(), opts); err != nil {
		slog.Error("experiment failed", "error", err)
		os.Exit(1)
	}
}
