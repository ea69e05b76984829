package telemetry

// LifetimeStats tracks one creature over its life.
type LifetimeStats struct {
	ID         uint64  `csv:"id"`
	ParentID   uint64  `csv:"parent_id"`
	BirthTick  uint64  `csv:"birth_tick"`
	DeathTick  uint64  `csv:"death_tick"`
	Children   int     `csv:"children"`
	Meals      int     `csv:"meals"`
	Eaten      float64 `csv:"energy_eaten"`
	PeakEnergy float64 `csv:"peak_energy"`
	Distance   float64 `csv:"distance"`
	Organs     int     `csv:"organs"`
	DNA        string  `csv:"dna"`
}

// LifetimeTracker manages per-creature lifetime statistics, keyed by genome id.
type LifetimeTracker struct {
	stats map[uint64]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{stats: make(map[uint64]*LifetimeStats)}
}

// Register starts tracking a creature.
func (lt *LifetimeTracker) Register(id, parentID, birthTick uint64, organs int, dna string) {
	lt.stats[id] = &LifetimeStats{
		ID:        id,
		ParentID:  parentID,
		BirthTick: birthTick,
		Organs:    organs,
		DNA:       dna,
	}
}

// Get returns the stats for a creature, or nil if not tracked.
func (lt *LifetimeTracker) Get(id uint64) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a creature and returns its final stats.
func (lt *LifetimeTracker) Remove(id, deathTick uint64, distance float64) *LifetimeStats {
	s := lt.stats[id]
	if s != nil {
		s.DeathTick = deathTick
		s.Distance = distance
	}
	delete(lt.stats, id)
	return s
}

// RecordChild credits a parent with an egg.
func (lt *LifetimeTracker) RecordChild(parentID uint64) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordMeal adds a meal.
func (lt *LifetimeTracker) RecordMeal(id uint64, energy float64) {
	if s := lt.stats[id]; s != nil {
		s.Meals++
		s.Eaten += energy
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint64, energy float64) {
	if s := lt.stats[id]; s != nil {
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
