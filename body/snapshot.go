package body

import "github.com/pthm-cable/narjillos/physics"

// Snapshot is an immutable picture of a body after a tick. A new one is
// published every tick; published snapshots are never modified.
type Snapshot struct {
	Tick                 uint64         `json:"tick"`
	Position             physics.Vector `json:"position"`
	Angle                float64        `json:"angle"`
	CenterOfMass         physics.Vector `json:"center_of_mass"`
	Mass                 float64        `json:"mass"`
	AdultMass            float64        `json:"adult_mass"`
	GreenMass            float64        `json:"green_mass"`
	Radius               float64        `json:"radius"`
	MetabolicConsumption float64        `json:"metabolic_consumption"`
	Organs               []OrganView    `json:"organs"`
}

// Head returns the root organ.
func (s *Snapshot) Head() OrganView { return s.Organs[0] }

// NeckLocation is where the head meets the rest of the body; eggs are laid there.
func (s *Snapshot) NeckLocation() physics.Vector { return s.Organs[0].End }
