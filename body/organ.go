package body

import (
	"github.com/pthm-cable/narjillos/nerves"
	"github.com/pthm-cable/narjillos/physics"
)

// OrganSpec is the static description of an organ, decoded from a gene.
type OrganSpec struct {
	AdultLength    float64
	AdultThickness float64
	RestAngle      float64 // degrees relative to the parent
	Orientation    float64 // +1 or -1, multiplies the organ's bending
	Amplitude      float64 // degrees of skew per unit of signal
	Skew           float64 // degrees of steering skew per unit of signal
	Color          uint8
	Atrophic       bool
	Nerve          *nerves.Nerve
}

// HeadTraits are the creature-level traits carried by the head gene.
type HeadTraits struct {
	MetabolicRate    float64
	EggVelocity      float64
	EggInterval      int
	EnergyToChildren float64 // energy handed to each egg
}

type organ struct {
	spec       OrganSpec
	parent     int // -1 for the root
	children   []int
	adultMass  float64
	greenRatio float64

	// Working state, touched only by the simulation thread.
	length        float64
	thickness     float64
	signal        float64
	currentSkew   float64
	absoluteAngle float64
	start, end    physics.Vector
	mass          float64
	centerOfMass  physics.Vector
	metabolicLoad float64
}

// greenRatio reads the color byte as 3-3-2 RGB and returns the share of green.
func greenRatio(color uint8) float64 {
	r := float64(color >> 5)
	g := float64(color >> 2 & 7)
	b := float64(color&3) * 7 / 3
	total := r + g + b
	if total == 0 {
		return 0
	}
	return g / total
}

// OrganView is the published geometry of one organ.
type OrganView struct {
	Index          int            `json:"index"`
	Parent         int            `json:"parent"`
	Start          physics.Vector `json:"start"`
	End            physics.Vector `json:"end"`
	CenterOfMass   physics.Vector `json:"center_of_mass"`
	AbsoluteAngle  float64        `json:"angle"`
	Length         float64        `json:"length"`
	Thickness      float64        `json:"thickness"`
	Mass           float64        `json:"mass"`
	AdultLength    float64        `json:"adult_length"`
	AdultThickness float64        `json:"adult_thickness"`
	AdultMass      float64        `json:"adult_mass"`
	Color          uint8          `json:"color"`
	Atrophic       bool           `json:"atrophic,omitempty"`
}
