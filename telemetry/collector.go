package telemetry

import (
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/genomics"
)

// Collector accumulates events within windows of ticks and produces WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	births   int
	deaths   int
	eggsLaid int
	meals    int
	eaten    float64
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	return &Collector{windowTicks: uint64(max(windowTicks, 1))}
}

// RecordBirth records a hatched creature.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath records a creature removed after dying.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordEggLaid records a new egg.
func (c *Collector) RecordEggLaid() { c.eggsLaid++ }

// RecordMeal records a food piece eaten for the given energy.
func (c *Collector) RecordMeal(energy float64) {
	c.meals++
	c.eaten += energy
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the living population and resets
// counters for the next window.
func (c *Collector) Flush(currentTick uint64, population []*creature.Creature, eggs, food int) WindowStats {
	energies := make([]float64, len(population))
	masses := make([]float64, len(population))
	genomes := make([]*genomics.Genome, len(population))
	var organs, genes float64
	for i, cr := range population {
		energies[i] = cr.EnergyValue()
		masses[i] = cr.Mass()
		genomes[i] = cr.Genome()
		organs += float64(len(cr.Organs()))
		genes += float64(cr.Genome().Len())
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Creatures:       len(population),
		Eggs:            eggs,
		Food:            food,
		Births:          c.births,
		Deaths:          c.deaths,
		EggsLaid:        c.eggsLaid,
		Meals:           c.meals,
		Eaten:           c.eaten,
	}
	stats.EnergyMean, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = ComputeEnergyStats(energies)
	stats.MassMean, stats.MassStd = ComputeSpread(masses)
	if n := len(population); n > 0 {
		stats.OrgansMean = organs / float64(n)
		stats.GenesMean = genes / float64(n)
	}
	if typical := MostTypical(genomes); typical != nil {
		stats.TypicalID = typical.ID()
		stats.TypicalDNA = typical.String()
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.eggsLaid = 0
	c.meals = 0
	c.eaten = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
