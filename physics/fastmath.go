package physics

import "math"

// Trig lookup tables for hot-path geometry. Tables are built once from the
// math package so results are identical on every platform and every run.

const (
	degreesPerRadian = 180 / math.Pi
	radiansPerDegree = math.Pi / 180

	// Table resolution: entries per degree.
	trigResolution = 100
	trigEntries    = 360 * trigResolution
)

var sinTable = buildSinTable()

func buildSinTable() []float64 {
	t := make([]float64, trigEntries)
	for i := range t {
		t[i] = math.Sin(float64(i) / trigResolution * radiansPerDegree)
	}
	return t
}

// Sin returns the sine of an angle in degrees, rounded to the table resolution.
func Sin(deg float64) float64 {
	return sinTable[tableIndex(deg)]
}

// Cos returns the cosine of an angle in degrees, rounded to the table resolution.
func Cos(deg float64) float64 {
	return sinTable[tableIndex(deg+90)]
}

func tableIndex(deg float64) int {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	i := int(a*trigResolution + 0.5)
	if i >= trigEntries {
		i -= trigEntries
	}
	return i
}
