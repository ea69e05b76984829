// Package components defines ECS components for the ecosystem.
package components

import (
	"github.com/pthm-cable/narjillos/creature"
)

// Specimen marks a living creature entity.
type Specimen struct {
	Creature *creature.Creature
	Born     uint64  // ecosystem tick the creature appeared
	Distance float64 // total distance swum by the head
}

// Food marks a food entity.
type Food struct {
	Piece *FoodPiece
}

// Incubator marks an egg entity.
type Incubator struct {
	Egg  *creature.Egg
	Laid uint64
}
