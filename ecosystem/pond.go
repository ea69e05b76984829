// Package ecosystem hosts creatures, food and eggs in an ECS world and
// drives them one tick at a time.
package ecosystem

import (
	"log/slog"
	"math/rand"
	"slices"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/narjillos/components"
	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/physics"
	"github.com/pthm-cable/narjillos/telemetry"
)

// Pond is a square world of side Size. All mutating methods must be called
// from a single goroutine; Creatures may be called from anywhere.
type Pond struct {
	world *ecs.World

	specimenMap  *ecs.Map1[components.Specimen]
	foodMap      *ecs.Map1[components.Food]
	incubatorMap *ecs.Map1[components.Incubator]

	foodFilter      *ecs.Filter1[components.Food]
	incubatorFilter *ecs.Filter1[components.Incubator]

	// Specimen entities in insertion order
	order []ecs.Entity

	rng        *rand.Rand
	pool       *genomics.GenePool
	size       float64
	foodEnergy float64
	foodRadius float64

	tick      atomic.Uint64
	numFood   int
	numEggs   int
	listeners []Listener
	pending   []Event
	perf      *telemetry.PerfCollector

	creatures atomic.Pointer[[]*creature.Creature]
}

// New creates an empty pond.
func New(cfg *config.Config, rng *rand.Rand, pool *genomics.GenePool) *Pond {
	world := ecs.NewWorld()
	p := &Pond{
		world:           world,
		specimenMap:     ecs.NewMap1[components.Specimen](world),
		foodMap:         ecs.NewMap1[components.Food](world),
		incubatorMap:    ecs.NewMap1[components.Incubator](world),
		foodFilter:      ecs.NewFilter1[components.Food](world),
		incubatorFilter: ecs.NewFilter1[components.Incubator](world),
		rng:             rng,
		pool:            pool,
		size:            cfg.Ecosystem.Size,
		foodEnergy:      cfg.Ecosystem.FoodEnergy,
		foodRadius:      cfg.Ecosystem.FoodRadius,
	}
	p.publish()
	return p
}

// AddListener registers a callback for pond events.
func (p *Pond) AddListener(l Listener) {
	p.listeners = append(p.listeners, l)
}

// SetPerf enables phase timing of Tick. A nil collector disables it.
func (p *Pond) SetPerf(perf *telemetry.PerfCollector) {
	p.perf = perf
}

// RandomPosition returns a uniformly random point inside the pond.
func (p *Pond) RandomPosition() physics.Vector {
	return physics.Vector{X: p.rng.Float64() * p.size, Y: p.rng.Float64() * p.size}
}

// SpawnCreature grows g into a creature and adds it to the pond.
func (p *Pond) SpawnCreature(g *genomics.Genome, position physics.Vector, angle, energy float64) *creature.Creature {
	c := creature.New(g, position, angle, energy)
	p.addCreature(c)
	p.flush()
	p.publish()
	return c
}

// SpawnFood adds a food piece holding the configured energy.
func (p *Pond) SpawnFood(position physics.Vector) *components.FoodPiece {
	piece := components.NewFoodPiece(position, p.foodEnergy)
	p.foodMap.NewEntity(&components.Food{Piece: piece})
	p.numFood++
	p.emit(Event{Kind: FoodAdded, Tick: p.tick.Load(), Food: piece})
	p.flush()
	return piece
}

// ScatterFood spawns n food pieces placed by field.
func (p *Pond) ScatterFood(field *FoodField, n int) {
	for i := 0; i < n; i++ {
		p.SpawnFood(field.Sample(p.rng, p.size))
	}
	slog.Debug("food scattered", "pieces", n, "total", p.numFood)
}

type foodRef struct {
	entity ecs.Entity
	piece  *components.FoodPiece
}

type layRecord struct {
	parent *creature.Creature
	egg    *creature.Egg
}

// Tick advances every creature and egg by one tick.
func (p *Pond) Tick() {
	p.perf.StartTick()
	defer p.perf.EndTick()
	tick := p.tick.Add(1)

	p.perf.StartPhase(telemetry.PhaseCreatures)
	food := p.collectFood()
	var dead []ecs.Entity
	var eaten []ecs.Entity
	var laid []layRecord
	for _, e := range p.order {
		s := p.specimenMap.Get(e)
		c := s.Creature

		if target := nearestFood(food, c.Position()); target != nil {
			c.SetTarget(target.piece.Position())
		}
		s.Distance += r2.Norm(c.Tick())
		if c.IsDead() {
			dead = append(dead, e)
			continue
		}

		for _, f := range food {
			if f.piece.IsEaten() || physics.Distance(c.Position(), f.piece.Position()) > p.foodRadius {
				continue
			}
			energy := f.piece.Energy()
			c.FeedOn(f.piece)
			eaten = append(eaten, f.entity)
			p.emit(Event{Kind: FoodEaten, Tick: tick, Creature: c, Food: f.piece, Energy: energy})
		}

		if egg := c.LayEgg(p.pool, p.rng); egg != nil {
			laid = append(laid, layRecord{parent: c, egg: egg})
		}
	}

	p.perf.StartPhase(telemetry.PhaseEggs)
	var hatched []ecs.Entity
	query := p.incubatorFilter.Query()
	for query.Next() {
		inc := query.Get()
		inc.Egg.Tick()
		if inc.Egg.IsHatched() {
			hatched = append(hatched, query.Entity())
		}
	}

	// Structural changes after all queries are done
	p.perf.StartPhase(telemetry.PhaseCleanup)
	for _, e := range eaten {
		p.world.RemoveEntity(e)
		p.numFood--
	}
	for _, e := range dead {
		s := p.specimenMap.Get(e)
		p.emit(Event{Kind: CreatureRemoved, Tick: tick, Creature: s.Creature, Distance: s.Distance})
		p.world.RemoveEntity(e)
	}
	if len(dead) > 0 {
		p.order = slices.DeleteFunc(p.order, func(e ecs.Entity) bool {
			return slices.Contains(dead, e)
		})
	}
	for _, e := range hatched {
		egg := p.incubatorMap.Get(e).Egg
		p.world.RemoveEntity(e)
		p.numEggs--
		child := egg.Hatch(p.rng.Float64() * 360)
		p.addCreature(child)
		p.emit(Event{Kind: EggHatched, Tick: tick, Creature: child, Egg: egg})
	}
	for _, l := range laid {
		p.incubatorMap.NewEntity(&components.Incubator{Egg: l.egg, Laid: tick})
		p.numEggs++
		p.emit(Event{Kind: EggLaid, Tick: tick, Creature: l.parent, Egg: l.egg})
	}

	p.publish()
	p.perf.StartPhase(telemetry.PhaseTelemetry)
	p.flush()
}

func (p *Pond) collectFood() []foodRef {
	food := make([]foodRef, 0, p.numFood)
	query := p.foodFilter.Query()
	for query.Next() {
		food = append(food, foodRef{entity: query.Entity(), piece: query.Get().Piece})
	}
	return food
}

// nearestFood scans every uneaten piece; ties go to the first one found.
func nearestFood(food []foodRef, from physics.Vector) *foodRef {
	var best *foodRef
	bestDist := 0.0
	for i := range food {
		if food[i].piece.IsEaten() {
			continue
		}
		d := physics.Distance(from, food[i].piece.Position())
		if best == nil || d < bestDist {
			best, bestDist = &food[i], d
		}
	}
	return best
}

func (p *Pond) addCreature(c *creature.Creature) {
	e := p.specimenMap.NewEntity(&components.Specimen{Creature: c, Born: p.tick.Load()})
	p.order = append(p.order, e)
	p.emit(Event{Kind: CreatureAdded, Tick: p.tick.Load(), Creature: c})
}

func (p *Pond) emit(ev Event) {
	p.pending = append(p.pending, ev)
}

// flush delivers queued events once the world is consistent again.
func (p *Pond) flush() {
	events := p.pending
	p.pending = nil
	for _, ev := range events {
		for _, l := range p.listeners {
			l(ev)
		}
	}
}

func (p *Pond) publish() {
	list := make([]*creature.Creature, len(p.order))
	for i, e := range p.order {
		list[i] = p.specimenMap.Get(e).Creature
	}
	p.creatures.Store(&list)
}

// ---------- readers ----------

// Creatures returns the living creatures in insertion order as of the last
// completed tick. Safe for concurrent use.
func (p *Pond) Creatures() []*creature.Creature {
	return *p.creatures.Load()
}

// Specimen returns the bookkeeping for a living creature, or nil.
func (p *Pond) Specimen(c *creature.Creature) *components.Specimen {
	for _, e := range p.order {
		if s := p.specimenMap.Get(e); s.Creature == c {
			return s
		}
	}
	return nil
}

// Food returns the food pieces currently in the pond.
func (p *Pond) Food() []*components.FoodPiece {
	refs := p.collectFood()
	out := make([]*components.FoodPiece, len(refs))
	for i, f := range refs {
		out[i] = f.piece
	}
	return out
}

// Eggs returns the eggs currently incubating.
func (p *Pond) Eggs() []*creature.Egg {
	out := make([]*creature.Egg, 0, p.numEggs)
	query := p.incubatorFilter.Query()
	for query.Next() {
		out = append(out, query.Get().Egg)
	}
	return out
}

// CreatureCount returns the number of live creatures.
func (p *Pond) CreatureCount() int { return len(p.order) }

// FoodCount returns the number of uneaten food pieces.
func (p *Pond) FoodCount() int { return p.numFood }

// EggCount returns the number of eggs waiting to hatch.
func (p *Pond) EggCount() int { return p.numEggs }

// Ticks returns the number of completed ticks. Safe for concurrent use.
func (p *Pond) Ticks() uint64 { return p.tick.Load() }

// Size returns the side of the pond.
func (p *Pond) Size() float64 { return p.size }

// GenePool returns the pool used for offspring.
func (p *Pond) GenePool() *genomics.GenePool { return p.pool }
