package creature

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/narjillos/physics"
)

// steer returns the steering signal in [-1, 1] that turns a body at position
// with the given heading toward target. Targets outside the lateral viewfield
// saturate the signal.
func steer(position physics.Vector, heading float64, target physics.Vector, viewfield float64) float64 {
	if target == position {
		return 0
	}
	diff := physics.AngleDifference(physics.Angle(r2.Sub(target, position)), heading)
	return physics.Clamp(diff/viewfield, -1, 1)
}
