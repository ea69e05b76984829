// Package body implements the organ tree of a creature: an arena of organs
// rooted at the head, advanced once per tick by the simulation thread and
// published as immutable snapshots for concurrent readers.
package body

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/nerves"
	"github.com/pthm-cable/narjillos/physics"
)

// Params holds the physics constants of a body.
type Params struct {
	GrowthTicks     int
	MassDensity     float64
	PropulsionScale float64
	RotationScale   float64
	MaxSpeed        float64 // 0 = unlimited
	MaxTurn         float64 // 0 = unlimited
}

// ParamsFromConfig reads body physics from the config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		GrowthTicks:     cfg.Body.GrowthTicks,
		MassDensity:     cfg.Body.MassDensity,
		PropulsionScale: cfg.Body.PropulsionScale,
		RotationScale:   cfg.Body.RotationScale,
		MaxSpeed:        cfg.Body.MaxSpeed,
		MaxTurn:         cfg.Steering.MaxTurn,
	}
}

// Body is a tree of organs stored in construction order, so every parent
// precedes its children. Only the simulation thread may call Sprout, Tick
// and ForcePosition; any goroutine may call Snapshot.
type Body struct {
	params Params
	head   HeadTraits
	organs []organ
	ticks  uint64

	position physics.Vector
	heading  float64
	mass     float64

	snapshot atomic.Pointer[Snapshot]
}

// New creates a body holding only its head.
func New(head OrganSpec, traits HeadTraits, params Params) *Body {
	b := &Body{params: params, head: traits}
	b.add(-1, head)
	b.updateGeometry()
	b.publish()
	return b
}

// Sprout attaches a new organ to parent, republishes the geometry and
// returns the new organ's index.
func (b *Body) Sprout(parent int, spec OrganSpec) int {
	if parent < 0 || parent >= len(b.organs) {
		panic("body: sprout from unknown organ")
	}
	idx := b.add(parent, spec)
	b.updateGeometry()
	b.publish()
	return idx
}

func (b *Body) add(parent int, spec OrganSpec) int {
	if spec.Orientation == 0 {
		spec.Orientation = 1
	}
	if spec.Nerve == nil {
		spec.Nerve = nerves.NewDelayLine(1)
	}
	if spec.Atrophic {
		spec.AdultLength, spec.AdultThickness = 0, 0
		spec.RestAngle, spec.Amplitude, spec.Skew = 0, 0, 0
	}
	idx := len(b.organs)
	b.organs = append(b.organs, organ{
		spec:       spec,
		parent:     parent,
		adultMass:  spec.AdultLength * spec.AdultThickness * spec.AdultThickness * b.params.MassDensity,
		greenRatio: greenRatio(spec.Color),
	})
	if parent >= 0 {
		b.organs[parent].children = append(b.organs[parent].children, idx)
	}
	return idx
}

// Len returns the number of organs.
func (b *Body) Len() int { return len(b.organs) }

// Children returns the indices of an organ's children.
func (b *Body) Children(i int) []int {
	return append([]int(nil), b.organs[i].children...)
}

// Head returns the traits decoded from the head gene.
func (b *Body) Head() HeadTraits { return b.head }

// Snapshot returns the latest published state. It never blocks and never
// triggers computation.
func (b *Body) Snapshot() *Snapshot { return b.snapshot.Load() }

// ForcePosition places the root and republishes the geometry.
func (b *Body) ForcePosition(position physics.Vector, angle float64) {
	b.position = position
	b.heading = physics.NormalizeAngle(angle)
	b.updateGeometry()
	b.publish()
}

// Tick advances the body by one tick under the given steering signal in
// [-1, 1] and returns the displacement of the root.
func (b *Body) Tick(steering float64) physics.Vector {
	b.ticks++
	force := b.updateSignals(steering)
	displacement := b.integrate(force)
	b.updateGeometry()
	b.publish()
	return displacement
}

func (b *Body) growth() float64 {
	if b.params.GrowthTicks <= 0 {
		return 1
	}
	return math.Min(1, float64(b.ticks)/float64(b.params.GrowthTicks))
}

// updateSignals runs the nerves from root to leaves, grows organs, and sums
// the propulsion force of every bending organ.
func (b *Body) updateSignals(steering float64) physics.Vector {
	growth := b.growth()
	var force physics.Vector
	for i := range b.organs {
		o := &b.organs[i]
		in := 0.0
		if o.parent >= 0 {
			in = b.organs[o.parent].signal
		}
		o.signal = o.spec.Nerve.Tick(in)

		previous := o.currentSkew
		o.currentSkew = o.spec.Amplitude*o.signal + o.spec.Skew*steering*math.Abs(o.signal)
		if o.spec.Atrophic {
			continue
		}
		o.length = o.spec.AdultLength * growth
		o.thickness = o.spec.AdultThickness * growth

		bend := physics.ToRadians(o.currentSkew-previous) * o.spec.Orientation
		if bend != 0 {
			// The water pushes back against the direction the organ sweeps.
			push := -bend * o.length * o.thickness * b.params.PropulsionScale
			force = r2.Add(force, r2.Scale(push, physics.Normal(o.absoluteAngle)))
		}
	}
	return force
}

// integrate moves the root along its heading and turns it.
func (b *Body) integrate(force physics.Vector) physics.Vector {
	if b.mass <= 0 {
		return physics.Vector{}
	}
	tangent := physics.Polar(b.heading, 1)
	along := r2.Dot(force, tangent)
	across := r2.Dot(force, physics.Normal(b.heading))

	step := along / b.mass
	if b.params.MaxSpeed > 0 {
		step = physics.Clamp(step, -b.params.MaxSpeed, b.params.MaxSpeed)
	}
	turn := across / b.mass * b.params.RotationScale
	if b.params.MaxTurn > 0 {
		turn = physics.Clamp(turn, -b.params.MaxTurn, b.params.MaxTurn)
	}

	if step == 0 {
		b.heading = physics.NormalizeAngle(b.heading + turn)
		return physics.Vector{}
	}
	displacement := r2.Scale(step, tangent)
	b.position = r2.Add(b.position, displacement)
	b.heading = physics.NormalizeAngle(b.heading + turn)
	return displacement
}

// updateGeometry recomputes every organ's geometry from root to leaves.
func (b *Body) updateGeometry() {
	b.mass = 0
	for i := range b.organs {
		o := &b.organs[i]
		if o.parent < 0 {
			o.absoluteAngle = physics.NormalizeAngle(b.heading + o.spec.RestAngle + o.currentSkew*o.spec.Orientation)
			o.start = b.position
		} else {
			p := &b.organs[o.parent]
			o.absoluteAngle = physics.NormalizeAngle(p.absoluteAngle + o.spec.RestAngle + o.currentSkew*o.spec.Orientation)
			o.start = p.end
		}
		o.end = r2.Add(o.start, physics.Polar(o.absoluteAngle, o.length))
		o.mass = o.length * o.thickness * o.thickness * b.params.MassDensity
		o.centerOfMass = physics.Midpoint(o.start, o.end)
		o.metabolicLoad = o.mass * b.head.MetabolicRate
		b.mass += o.mass
	}
}

func (b *Body) publish() {
	s := &Snapshot{
		Tick:     b.ticks,
		Position: b.position,
		Angle:    b.heading,
		Organs:   make([]OrganView, len(b.organs)),
	}
	var weighted physics.Vector
	for i := range b.organs {
		o := &b.organs[i]
		s.Organs[i] = OrganView{
			Index:          i,
			Parent:         o.parent,
			Start:          o.start,
			End:            o.end,
			CenterOfMass:   o.centerOfMass,
			AbsoluteAngle:  o.absoluteAngle,
			Length:         o.length,
			Thickness:      o.thickness,
			Mass:           o.mass,
			AdultLength:    o.spec.AdultLength,
			AdultThickness: o.spec.AdultThickness,
			AdultMass:      o.adultMass,
			Color:          o.spec.Color,
			Atrophic:       o.spec.Atrophic,
		}
		s.Mass += o.mass
		s.AdultMass += o.adultMass
		s.GreenMass += o.mass * o.greenRatio
		s.MetabolicConsumption += o.metabolicLoad
		weighted = r2.Add(weighted, r2.Scale(o.mass, o.centerOfMass))
		s.Radius = math.Max(s.Radius, math.Max(
			physics.Distance(b.position, o.start),
			physics.Distance(b.position, o.end)))
	}
	s.CenterOfMass = b.position
	if s.Mass > 0 {
		s.CenterOfMass = r2.Scale(1/s.Mass, weighted)
	}
	b.snapshot.Store(s)
}
