package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCreatures)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseEggs)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v avg %v max %v out of order", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if _, ok := stats.PhasePct[PhaseCreatures]; !ok {
		t.Error("expected creatures phase to be tracked")
	}
	if _, ok := stats.PhasePct[PhaseEggs]; !ok {
		t.Error("expected eggs phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCleanup)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(1 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyAndNil(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.PhasePct == nil {
		t.Error("empty collector should return zero stats with a non-nil map")
	}

	var pc *PerfCollector
	pc.StartTick()
	pc.StartPhase(PhaseCreatures)
	pc.EndTick()
	if pc.Stats().TicksPerSecond != 0 {
		t.Error("nil collector should report nothing")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseCreatures: 80, PhaseEggs: 5},
	}
	row := s.ToCSV(42)
	if row.WindowEnd != 42 || row.AvgTickUS != 1500 || row.CreaturesPct != 80 || row.EggsPct != 5 {
		t.Errorf("unexpected row %+v", row)
	}
}
