// Package creature implements a living creature: a genome, the body grown
// from it, an energy store, a target to swim toward and the egg-laying cycle.
//
// A creature is advanced only by the simulation thread (Tick, SetTarget,
// FeedOn, LayEgg). Every other method may be called from any goroutine: each
// reads one immutable view published at the end of the last mutation.
package creature

import (
	"math"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/narjillos/body"
	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/embryogenesis"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/physics"
)

// Food is anything a creature can eat.
type Food interface {
	TakeEnergy() float64
	SetEater(c *Creature)
}

// Params holds the creature-level constants.
type Params struct {
	MaxMultiplier          float64
	Lifespan               int
	MovementCost           float64
	GreenFibersExtraEnergy float64
	MatureAge              uint64
	EggMass                float64
	EggIncubation          int
	EggDrag                float64
	LateralViewfield       float64
}

// ParamsFromConfig reads creature constants from the config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MaxMultiplier:          cfg.Energy.MaxMultiplier,
		Lifespan:               cfg.Energy.Lifespan,
		MovementCost:           cfg.Energy.MovementCost,
		GreenFibersExtraEnergy: cfg.Energy.GreenFibersExtraEnergy,
		MatureAge:              uint64(cfg.Reproduction.MatureAge),
		EggMass:                cfg.Reproduction.EggMass,
		EggIncubation:          cfg.Reproduction.EggIncubation,
		EggDrag:                cfg.Reproduction.EggDrag,
		LateralViewfield:       cfg.Steering.LateralViewfield,
	}
}

// Creature is a genome living in a body.
type Creature struct {
	genome *genomics.Genome
	body   *body.Body
	energy *Energy
	params Params

	target     physics.Vector
	age        uint64
	nextEggAge uint64

	view atomic.Pointer[view]
}

// view is the immutable state seen by readers.
type view struct {
	age       uint64
	energy    float64
	maxEnergy float64
	percent   float64
	target    physics.Vector
	dead      bool
	body      *body.Snapshot
}

// New grows a creature from g using the global configuration.
func New(g *genomics.Genome, position physics.Vector, angle, energy float64) *Creature {
	cfg := config.Cfg()
	return Build(g, embryogenesis.New(cfg).Develop(g), position, angle, energy, ParamsFromConfig(cfg))
}

// Build wraps an already grown body.
func Build(g *genomics.Genome, b *body.Body, position physics.Vector, angle, energy float64, p Params) *Creature {
	b.ForcePosition(position, angle)
	c := &Creature{
		genome: g,
		body:   b,
		energy: NewEnergy(energy, p.MaxMultiplier, p.Lifespan),
		params: p,
		target: position,
	}
	c.scheduleNextEgg()
	c.publish()
	return c
}

// Tick advances the creature by one tick and returns the displacement of its
// head. A dead creature does nothing.
func (c *Creature) Tick() physics.Vector {
	if c.energy.IsZero() {
		return physics.Vector{}
	}
	c.age++

	before := c.body.Snapshot()
	signal := steer(before.Position, before.Angle, c.target, c.params.LateralViewfield)
	displacement := c.body.Tick(signal)

	after := c.body.Snapshot()
	spent := r2.Norm(displacement) * after.MetabolicConsumption * c.params.MovementCost
	gained := after.GreenMass * c.params.GreenFibersExtraEnergy
	c.energy.Tick(spent, gained)

	c.publish()
	return displacement
}

// SetTarget sets the point the creature steers toward.
func (c *Creature) SetTarget(p physics.Vector) {
	c.target = p
	c.publish()
}

// FeedOn eats food, gaining its energy up to the creature's cap.
func (c *Creature) FeedOn(food Food) {
	if c.energy.IsZero() {
		return
	}
	c.energy.IncreaseBy(food.TakeEnergy())
	food.SetEater(c)
	c.publish()
}

// LayEgg returns a new egg, or nil if the creature is not ready. While the
// egg cooldown runs nothing changes. A skipped attempt because the creature
// is too young or too weak restarts the cooldown.
func (c *Creature) LayEgg(pool *genomics.GenePool, rng *rand.Rand) *Egg {
	if c.energy.IsZero() || c.age < c.nextEggAge {
		return nil
	}
	if c.age < c.params.MatureAge {
		c.scheduleNextEgg()
		return nil
	}

	head := c.body.Head()
	cost := head.EnergyToChildren + math.Pow(head.EggVelocity*c.params.EggMass, 2)
	if c.energy.Value() <= cost {
		c.scheduleNextEgg()
		return nil
	}
	c.energy.DecreaseBy(cost)

	child := pool.MutateGenome(c.genome, rng)
	c.scheduleNextEgg()
	velocity := physics.Polar(360*rng.Float64(), head.EggVelocity)
	c.publish()
	return newEgg(child, c.body.Snapshot().NeckLocation(), velocity, head.EnergyToChildren, c.params)
}

func (c *Creature) scheduleNextEgg() {
	c.nextEggAge = c.age + uint64(max(c.body.Head().EggInterval, 0))
}

func (c *Creature) publish() {
	c.view.Store(&view{
		age:       c.age,
		energy:    c.energy.Value(),
		maxEnergy: c.energy.MaxForAge(),
		percent:   c.energy.Percent(),
		target:    c.target,
		dead:      c.energy.IsZero(),
		body:      c.body.Snapshot(),
	})
}

// ---------- readers ----------

// ID returns the genome identity.
func (c *Creature) ID() uint64 { return c.genome.ID() }

// Genome returns the creature's genome.
func (c *Creature) Genome() *genomics.Genome { return c.genome }

// DNA returns the canonical genome text.
func (c *Creature) DNA() string { return c.genome.String() }

// Head returns the traits decoded from the head gene.
func (c *Creature) Head() body.HeadTraits { return c.body.Head() }

// Body returns the body snapshot consistent with the other readers.
func (c *Creature) Body() *body.Snapshot { return c.view.Load().body }

// Organs returns the organ geometry. The slice is shared and must not be modified.
func (c *Creature) Organs() []body.OrganView { return c.Body().Organs }

// Position returns where the head starts.
func (c *Creature) Position() physics.Vector { return c.Body().Position }

// Angle returns the head's heading in degrees.
func (c *Creature) Angle() float64 { return c.Body().Angle }

// Radius returns the radius of the circle around the center of mass that holds every organ.
func (c *Creature) Radius() float64 { return c.Body().Radius }

// CenterOfMass returns the mass-weighted center of the organs.
func (c *Creature) CenterOfMass() physics.Vector { return c.Body().CenterOfMass }

// NeckLocation returns where the head meets the rest of the body.
func (c *Creature) NeckLocation() physics.Vector { return c.Body().NeckLocation() }

// Mass returns the total organ mass.
func (c *Creature) Mass() float64 { return c.Body().Mass }

// Age returns the number of ticks lived.
func (c *Creature) Age() uint64 { return c.view.Load().age }

// EnergyValue returns the current energy.
func (c *Creature) EnergyValue() float64 { return c.view.Load().energy }

// MaxEnergy returns the energy cap for the creature's current age.
func (c *Creature) MaxEnergy() float64 { return c.view.Load().maxEnergy }

// EnergyPercent returns energy as a fraction of MaxEnergy.
func (c *Creature) EnergyPercent() float64 { return c.view.Load().percent }

// Target returns the point the creature steers toward.
func (c *Creature) Target() physics.Vector { return c.view.Load().target }

// IsDead reports whether the creature has run out of energy.
func (c *Creature) IsDead() bool { return c.view.Load().dead }
