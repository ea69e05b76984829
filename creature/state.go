package creature

import (
	"github.com/pthm-cable/narjillos/body"
	"github.com/pthm-cable/narjillos/physics"
)

// State is a serializable picture of a creature.
type State struct {
	ID        uint64         `json:"id"`
	ParentID  uint64         `json:"parent_id"`
	DNA       string         `json:"dna"`
	Age       uint64         `json:"age"`
	Energy    float64        `json:"energy"`
	MaxEnergy float64        `json:"max_energy"`
	Dead      bool           `json:"dead"`
	Target    physics.Vector `json:"target"`
	Body      *body.Snapshot `json:"body"`
}

// State returns the creature's state from a single published view.
func (c *Creature) State() State {
	v := c.view.Load()
	return State{
		ID:        c.genome.ID(),
		ParentID:  c.genome.ParentID(),
		DNA:       c.genome.String(),
		Age:       v.age,
		Energy:    v.energy,
		MaxEnergy: v.maxEnergy,
		Dead:      v.dead,
		Target:    v.target,
		Body:      v.body,
	}
}
