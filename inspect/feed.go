package inspect

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/narjillos/creature"
)

// Source returns the creatures to report and the tick they were taken at.
// It is called from the feed goroutine and must be safe for concurrent use.
type Source func() (uint64, []*creature.Creature)

// Feed publishes the state of every creature each interval until ctx is
// cancelled. It only reads published snapshots, so it can run while the
// simulation ticks.
func Feed(ctx context.Context, hub *Hub, source Source, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if hub.Clients() == 0 {
			continue
		}
		tick, creatures := source()
		states := make([]creature.State, len(creatures))
		for i, c := range creatures {
			states[i] = c.State()
		}
		if err := hub.Publish(Message{Type: "creatures", Tick: tick, Payload: states}); err != nil {
			slog.Debug("inspect feed stopped", "error", err)
			return
		}
	}
}
