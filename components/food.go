package components

import (
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/physics"
)

// FoodPiece is a stationary parcel of energy. It can be eaten once.
type FoodPiece struct {
	position physics.Vector
	energy   float64
	eater    *creature.Creature
}

// NewFoodPiece creates a food piece holding energy at position.
func NewFoodPiece(position physics.Vector, energy float64) *FoodPiece {
	return &FoodPiece{position: position, energy: energy}
}

// Position returns where the piece lies.
func (f *FoodPiece) Position() physics.Vector { return f.position }

// Energy returns the energy left in the piece, 0 once eaten.
func (f *FoodPiece) Energy() float64 { return f.energy }

// TakeEnergy empties the piece and returns what it held.
func (f *FoodPiece) TakeEnergy() float64 {
	e := f.energy
	f.energy = 0
	return e
}

// SetEater records who ate the piece.
func (f *FoodPiece) SetEater(c *creature.Creature) { f.eater = c }

// Eater returns the creature that ate the piece, or nil.
func (f *FoodPiece) Eater() *creature.Creature { return f.eater }

// IsEaten reports whether a creature has fed on the piece.
func (f *FoodPiece) IsEaten() bool { return f.eater != nil }

var _ creature.Food = (*FoodPiece)(nil)
