package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/narjillos/archive"
	"github.com/pthm-cable/narjillos/config"
)

func TestRunWritesOutputs(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("telemetry:\n  stats_window: 10\necosystem:\n  food_pieces: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config.MustInit(cfgPath)
	t.Cleanup(func() { config.MustInit("") })

	dir := t.TempDir()
	opts := Options{
		Seed:        42,
		MaxTicks:    30,
		Population:  3,
		OutputDir:   filepath.Join(dir, "out"),
		ArchivePath: filepath.Join(dir, "archive.db"),
		SnapshotDir: filepath.Join(dir, "snapshots"),
	}
	if err := run(context.Background(), config.Cfg(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(opts.OutputDir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 4 {
		t.Errorf("telemetry.csv has %d lines, want header + 3 windows", len(lines))
	}
	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, name)); err != nil {
			t.Error(err)
		}
	}
	if _, err := os.Stat(filepath.Join(opts.SnapshotDir, "snapshot_30.json")); err != nil {
		t.Error(err)
	}

	store, err := archive.Open(opts.ArchivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runs, err := store.Runs()
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
	if n, err := store.Count(runs[0]); err != nil || n < 3 {
		t.Errorf("archived %d genomes, want at least the 3 founders (%v)", n, err)
	}
	for id := uint64(1); id <= 3; id++ {
		if _, err := store.Genome(runs[0], id); err != nil {
			t.Errorf("founder %d not archived: %v", id, err)
		}
	}
}

func TestRunRejectsBadDNA(t *testing.T) {
	config.MustInit("")
	err := run(context.Background(), config.Cfg(), Options{Seed: 1, Population: 1, DNA: "{1_2"})
	if err == nil {
		t.Fatal("expected an error for malformed founder DNA")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	config.MustInit("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, config.Cfg(), Options{Seed: 1, Population: 2}); err != nil {
		t.Fatal(err)
	}
}
