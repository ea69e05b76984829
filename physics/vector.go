// Package physics holds the 2-D geometry shared by bodies, creatures and the
// ecosystem. Angles are in degrees throughout.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a point or displacement in the plane.
type Vector = r2.Vec

// Zero is the origin.
var Zero = Vector{}

// Polar returns the vector with the given angle (degrees) and length.
func Polar(angle, length float64) Vector {
	return Vector{X: length * Cos(angle), Y: length * Sin(angle)}
}

// Angle returns the direction of v in degrees, in (-180, 180].
// The zero vector has angle 0.
func Angle(v Vector) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X) * degreesPerRadian
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vector) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Normal returns the unit vector perpendicular (counterclockwise) to the
// direction angle.
func Normal(angle float64) Vector {
	return Polar(angle+90, 1)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector) Vector {
	return r2.Scale(0.5, r2.Add(a, b))
}

// NormalizeAngle maps an angle in degrees to (-180, 180].
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// AngleDifference returns the signed shortest rotation from b to a.
func AngleDifference(a, b float64) float64 {
	return NormalizeAngle(a - b)
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * radiansPerDegree
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
