package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for one ecosystem tick.
const (
	PhaseCreatures = "creatures"
	PhaseEggs      = "eggs"
	PhaseCleanup   = "cleanup"
	PhaseTelemetry = "telemetry"
)

var phases = []string{PhaseCreatures, PhaseEggs, PhaseCleanup, PhaseTelemetry}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window. A nil collector
// ignores every call.
type PerfCollector struct {
	samples     []PerfSample
	next        int
	count       int
	current     map[string]time.Duration
	tickStart   time.Time
	phaseStart  time.Time
	activePhase string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(phases))
	p.activePhase = ""
}

// StartPhase ends the running phase, if any, and starts timing another.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.activePhase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.activePhase != "" {
		p.current[p.activePhase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.activePhase = ""

	p.samples[p.next] = PerfSample{TickDuration: now.Sub(p.tickStart), Phases: p.current}
	p.next = (p.next + 1) % len(p.samples)
	p.count = min(p.count+1, len(p.samples))
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	PhasePct        map[string]float64
	TicksPerSecond  float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p == nil || p.count == 0 {
		return PerfStats{PhasePct: map[string]float64{}}
	}

	ticks := make([]float64, p.count)
	phaseSum := make(map[string]float64)
	for i := 0; i < p.count; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.TickDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += float64(d)
		}
	}

	avg := stat.Mean(ticks, nil)
	total := floats.Sum(ticks)
	pct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		if total > 0 {
			pct[phase] = sum / total * 100
		}
	}
	var tps float64
	if avg > 0 {
		tps = float64(time.Second) / avg
	}

	return PerfStats{
		AvgTickDuration: time.Duration(avg),
		MinTickDuration: time.Duration(floats.Min(ticks)),
		MaxTickDuration: time.Duration(floats.Max(ticks)),
		PhasePct:        pct,
		TicksPerSecond:  tps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	CreaturesPct float64 `csv:"creatures_pct"`
	EggsPct      float64 `csv:"eggs_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		CreaturesPct: s.PhasePct[PhaseCreatures],
		EggsPct:      s.PhasePct[PhaseEggs],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
