// Package telemetry provides population statistics, performance timing,
// lifetime tracking and snapshot output for experiments.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/narjillos/creature"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the state of every living creature at one tick.
type Snapshot struct {
	Version   int              `json:"version"`
	RunID     string           `json:"run_id"`
	Seed      int64            `json:"seed"`
	Tick      uint64           `json:"tick"`
	LastID    uint64           `json:"last_id"`
	Creatures []creature.State `json:"creatures"`
}

// NewSnapshot captures the given population.
func NewSnapshot(runID string, seed int64, tick, lastID uint64, population []*creature.Creature) *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		RunID:     runID,
		Seed:      seed,
		Tick:      tick,
		LastID:    lastID,
		Creatures: make([]creature.State, len(population)),
	}
	for i, c := range population {
		s.Creatures[i] = c.State()
	}
	return s
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}
