package creature

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/physics"
)

// Egg carries an offspring genome and its inherited energy until it hatches.
type Egg struct {
	genome     *genomics.Genome
	position   physics.Vector
	velocity   physics.Vector
	energy     float64
	age        int
	incubation int
	drag       float64
}

func newEgg(g *genomics.Genome, position, velocity physics.Vector, energy float64, p Params) *Egg {
	return &Egg{
		genome:     g,
		position:   position,
		velocity:   velocity,
		energy:     energy,
		incubation: p.EggIncubation,
		drag:       p.EggDrag,
	}
}

// Tick drifts the egg and slows it down.
func (e *Egg) Tick() {
	e.age++
	e.position = r2.Add(e.position, e.velocity)
	e.velocity = r2.Scale(1-e.drag, e.velocity)
}

// IsHatched reports whether incubation is over.
func (e *Egg) IsHatched() bool { return e.age >= e.incubation }

// Hatch creates the creature carried by the egg.
func (e *Egg) Hatch(angle float64) *Creature {
	return New(e.genome, e.position, angle, e.energy)
}

// Genome returns the offspring genome.
func (e *Egg) Genome() *genomics.Genome { return e.genome }

// Position returns where the egg is.
func (e *Egg) Position() physics.Vector { return e.position }

// Velocity returns the egg's current drift.
func (e *Egg) Velocity() physics.Vector { return e.velocity }

// Energy returns the energy the hatchling will start with.
func (e *Egg) Energy() float64 { return e.energy }

// Age returns the number of ticks since the egg was laid.
func (e *Egg) Age() int { return e.age }
