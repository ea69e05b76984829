package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/narjillos/config"
)

// ---------- collector ----------

func TestCollectorFlush(t *testing.T) {
	population := testPopulation(t, 4)
	c := NewCollector(100)

	c.RecordBirth()
	c.RecordEggLaid()
	c.RecordEggLaid()
	c.RecordMeal(300)
	c.RecordMeal(200)
	c.RecordDeath()

	if c.ShouldFlush(99) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(100) {
		t.Error("should flush at the window end")
	}

	stats := c.Flush(100, population, 2, 17)
	if stats.Creatures != 4 || stats.Eggs != 2 || stats.Food != 17 {
		t.Errorf("population counts %+v", stats)
	}
	if stats.Births != 1 || stats.Deaths != 1 || stats.EggsLaid != 2 || stats.Meals != 2 || stats.Eaten != 500 {
		t.Errorf("event counts %+v", stats)
	}
	if stats.EnergyMean != 2500 {
		t.Errorf("energy mean = %v, want 2500", stats.EnergyMean)
	}
	if stats.GenesMean != 2 || stats.OrgansMean < 1 {
		t.Errorf("genes %v organs %v", stats.GenesMean, stats.OrgansMean)
	}
	if stats.TypicalDNA != testDNA || stats.TypicalID != population[0].ID() {
		t.Errorf("typical %d %s", stats.TypicalID, stats.TypicalDNA)
	}

	next := c.Flush(200, nil, 0, 0)
	if next.WindowStartTick != 100 || next.Births != 0 || next.Meals != 0 || next.TypicalDNA != "" {
		t.Errorf("counters should reset: %+v", next)
	}
}

// ---------- lifetimes ----------

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 3, 100, 5, testDNA)
	lt.RecordChild(7)
	lt.RecordMeal(7, 40)
	lt.UpdateEnergy(7, 900)
	lt.UpdateEnergy(7, 500)
	lt.RecordMeal(99, 10)

	s := lt.Remove(7, 250, 1234.5)
	if s == nil {
		t.Fatal("expected stats")
	}
	if s.Children != 1 || s.Meals != 1 || s.Eaten != 40 || s.PeakEnergy != 900 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.DeathTick != 250 || s.Distance != 1234.5 || s.ParentID != 3 {
		t.Errorf("unexpected stats %+v", s)
	}
	if lt.Count() != 0 || lt.Remove(7, 300, 0) != nil {
		t.Error("creature should no longer be tracked")
	}
}

// ---------- output ----------

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := uint64(1000); tick <= 3000; tick += 1000 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick, Creatures: 5}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, 3000); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteLifetime(&LifetimeStats{ID: 1, DNA: testDNA}); err != nil {
		t.Fatal(err)
	}
	config.MustInit("")
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,creatures") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header should be written once")
	}

	for _, name := range []string{"perf.csv", "lifetimes.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
