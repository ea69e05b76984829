package genomics

import "sync/atomic"

// IDCounter hands out genome identities. It is safe for concurrent use and is
// injected wherever genomes are created, so each experiment owns its sequence.
type IDCounter struct {
	last atomic.Uint64
}

// NewIDCounter creates a counter whose first id is 1.
func NewIDCounter() *IDCounter {
	return &IDCounter{}
}

// Next returns the next unique id. A nil counter always returns 0.
func (c *IDCounter) Next() uint64 {
	if c == nil {
		return 0
	}
	return c.last.Add(1)
}

// Current returns the last id handed out.
func (c *IDCounter) Current() uint64 {
	return c.last.Load()
}

// Reset makes the next id last+1. Used when resuming from an archive.
func (c *IDCounter) Reset(last uint64) {
	c.last.Store(last)
}
