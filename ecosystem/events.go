package ecosystem

import (
	"github.com/pthm-cable/narjillos/components"
	"github.com/pthm-cable/narjillos/creature"
)

// EventKind identifies pond events.
type EventKind uint8

const (
	CreatureAdded EventKind = iota
	CreatureRemoved
	FoodAdded
	FoodEaten
	EggLaid
	EggHatched
)

func (k EventKind) String() string {
	switch k {
	case CreatureAdded:
		return "creature_added"
	case CreatureRemoved:
		return "creature_removed"
	case FoodAdded:
		return "food_added"
	case FoodEaten:
		return "food_eaten"
	case EggLaid:
		return "egg_laid"
	case EggHatched:
		return "egg_hatched"
	}
	return "unknown"
}

// Event describes something that happened in the pond.
//
// Creature is the creature concerned: the eater for FoodEaten, the parent for
// EggLaid and the newborn for EggHatched.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Creature *creature.Creature
	Food     *components.FoodPiece
	Egg      *creature.Egg

	// Optional fields depending on kind
	Energy   float64 // energy eaten (FoodEaten)
	Distance float64 // distance swum over a lifetime (CreatureRemoved)
}

// Listener receives pond events on the simulation goroutine.
type Listener func(Event)
