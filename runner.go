package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/narjillos/archive"
	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/ecosystem"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/inspect"
	"github.com/pthm-cable/narjillos/telemetry"
)

// Options configures one experiment run.
type Options struct {
	Seed        int64
	DNA         string
	MaxTicks    int
	Population  int
	OutputDir   string
	ArchivePath string
	InspectAddr string
	SnapshotDir string
	LogStats    bool
}

// experiment owns everything attached to a running pond.
type experiment struct {
	runID string
	opts  Options
	pond  *ecosystem.Pond
	pool  *genomics.GenePool

	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	archive   *archive.Store

	// Genomes born during one tick, archived together.
	unarchived     []*genomics.Genome
	unarchivedTick uint64
}

func run(ctx context.Context, cfg *config.Config, opts Options) error {
	rng := rand.New(rand.NewSource(opts.Seed))
	pool := genomics.NewGenePoolFromConfig(genomics.NewIDCounter(), cfg)

	x := &experiment{
		runID:     uuid.NewString(),
		opts:      opts,
		pond:      ecosystem.New(cfg, rng, pool),
		pool:      pool,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		lifetimes: telemetry.NewLifetimeTracker(),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
	x.pond.SetPerf(x.perf)
	x.pond.AddListener(x.handle)

	var err error
	if x.output, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return err
	}
	defer x.output.Close()
	if err := x.output.WriteConfig(cfg); err != nil {
		return err
	}

	if opts.ArchivePath != "" {
		if x.archive, err = archive.Open(opts.ArchivePath); err != nil {
			return err
		}
		defer x.archive.Close()
		cfgYAML, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		if err := x.archive.SaveRun(x.runID, opts.Seed, string(cfgYAML)); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
	}

	if opts.InspectAddr != "" {
		srv := x.serveInspect(ctx)
		defer srv.Shutdown(context.Background())
	}

	x.pond.ScatterFood(ecosystem.NewFoodField(opts.Seed, cfg.Ecosystem.Size/8), cfg.Ecosystem.FoodPieces)
	for i := 0; i < opts.Population; i++ {
		g, err := x.founder(rng)
		if err != nil {
			return err
		}
		x.pond.SpawnCreature(g, x.pond.RandomPosition(), rng.Float64()*360, cfg.Energy.Initial)
	}
	x.archiveBorn()

	slog.Info("starting simulation",
		"run_id", x.runID,
		"seed", opts.Seed,
		"population", opts.Population,
		"food", x.pond.FoodCount(),
		"max_ticks", opts.MaxTicks,
	)

	started := time.Now()
	for ctx.Err() == nil {
		x.pond.Tick()
		tick := x.pond.Ticks()
		x.archiveBorn()

		if x.collector.ShouldFlush(tick) {
			x.flushTelemetry(tick)
		}
		if x.pond.CreatureCount() == 0 && x.pond.EggCount() == 0 {
			slog.Info("population extinct", "tick", tick)
			break
		}
		if opts.MaxTicks > 0 && tick >= uint64(opts.MaxTicks) {
			slog.Info("max ticks reached", "tick", tick)
			break
		}
	}

	slog.Info("simulation finished",
		"run_id", x.runID,
		"ticks", humanize.Comma(int64(x.pond.Ticks())),
		"genomes", humanize.Comma(int64(pool.IDs().Current())),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return nil
}

func (x *experiment) founder(rng *rand.Rand) (*genomics.Genome, error) {
	if x.opts.DNA == "" {
		return x.pool.CreateRandom(rng), nil
	}
	g, err := x.pool.Parse(x.opts.DNA)
	if err != nil {
		return nil, fmt.Errorf("founder dna: %w", err)
	}
	return g, nil
}

// handle routes pond events to telemetry and the archive.
func (x *experiment) handle(ev ecosystem.Event) {
	switch ev.Kind {
	case ecosystem.CreatureAdded:
		c := ev.Creature
		x.lifetimes.Register(c.ID(), c.Genome().ParentID(), ev.Tick, len(c.Organs()), c.DNA())
		if x.archive != nil {
			if len(x.unarchived) > 0 && x.unarchivedTick != ev.Tick {
				x.archiveBorn()
			}
			x.unarchived = append(x.unarchived, c.Genome())
			x.unarchivedTick = ev.Tick
		}
	case ecosystem.CreatureRemoved:
		x.collector.RecordDeath()
		stats := x.lifetimes.Remove(ev.Creature.ID(), ev.Tick, ev.Distance)
		if err := x.output.WriteLifetime(stats); err != nil {
			slog.Error("failed to write lifetime", "error", err)
		}
	case ecosystem.FoodEaten:
		x.collector.RecordMeal(ev.Energy)
		x.lifetimes.RecordMeal(ev.Creature.ID(), ev.Energy)
	case ecosystem.EggLaid:
		x.collector.RecordEggLaid()
		x.lifetimes.RecordChild(ev.Creature.ID())
	case ecosystem.EggHatched:
		x.collector.RecordBirth()
	}
}

// archiveBorn writes the genomes queued since the last call.
func (x *experiment) archiveBorn() {
	if x.archive == nil || len(x.unarchived) == 0 {
		return
	}
	if err := x.archive.SaveGenomes(x.runID, x.unarchived, x.unarchivedTick); err != nil {
		slog.Error("failed to archive genomes", "count", len(x.unarchived), "error", err)
	}
	x.unarchived = x.unarchived[:0]
}

// flushTelemetry closes the current stats window.
func (x *experiment) flushTelemetry(tick uint64) {
	population := x.pond.Creatures()
	for _, c := range population {
		x.lifetimes.UpdateEnergy(c.ID(), c.EnergyValue())
	}

	stats := x.collector.Flush(tick, population, x.pond.EggCount(), x.pond.FoodCount())
	perfStats := x.perf.Stats()

	if x.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	} else {
		slog.Info("status",
			"tick", humanize.Comma(int64(tick)),
			"creatures", stats.Creatures,
			"eggs", stats.Eggs,
			"food", stats.Food,
			"ticks_per_sec", humanize.Ftoa(float64(int(perfStats.TicksPerSecond))),
		)
	}

	if err := x.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := x.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if x.opts.SnapshotDir != "" {
		snapshot := telemetry.NewSnapshot(x.runID, x.opts.Seed, tick, x.pool.IDs().Current(), population)
		if _, err := telemetry.SaveSnapshot(snapshot, x.opts.SnapshotDir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
}

// serveInspect starts the websocket feed. The returned server is shut down
// by the caller.
func (x *experiment) serveInspect(ctx context.Context) *http.Server {
	hub := inspect.NewHub()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWs)
	srv := &http.Server{Addr: x.opts.InspectAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("inspect server failed", "error", err)
		}
	}()
	go inspect.Feed(ctx, hub, x.observe, 200*time.Millisecond)

	slog.Info("inspect feed listening", "addr", x.opts.InspectAddr)
	return srv
}

// observe is called from the feed goroutine.
func (x *experiment) observe() (uint64, []*creature.Creature) {
	return x.pond.Ticks(), x.pond.Creatures()
}
