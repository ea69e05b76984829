package ecosystem

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/narjillos/physics"
)

const (
	fieldOctaves     = 3
	fieldPersistence = 0.5
	maxFieldAttempts = 64
)

// FoodField is a smooth density map used to scatter food in patches.
type FoodField struct {
	noise     opensimplex.Noise
	frequency float64
}

// NewFoodField creates a field whose patches are roughly patchSize wide.
func NewFoodField(seed int64, patchSize float64) *FoodField {
	if patchSize <= 0 {
		patchSize = 1
	}
	return &FoodField{
		noise:     opensimplex.NewNormalized(seed),
		frequency: 1 / patchSize,
	}
}

// Density returns the field value at p, in [0, 1].
func (f *FoodField) Density(p physics.Vector) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := f.frequency
	for i := 0; i < fieldOctaves; i++ {
		total += f.noise.Eval2(p.X*frequency, p.Y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= fieldPersistence
		frequency *= 2
	}
	return total / maxVal
}

// Sample draws a point in [0, size)² with probability proportional to the
// density. After maxFieldAttempts rejections the last candidate is kept.
func (f *FoodField) Sample(rng *rand.Rand, size float64) physics.Vector {
	var p physics.Vector
	for i := 0; i < maxFieldAttempts; i++ {
		p = physics.Vector{X: rng.Float64() * size, Y: rng.Float64() * size}
		if rng.Float64() < f.Density(p) {
			return p
		}
	}
	return p
}
