// Package archive stores every genome of an experiment in SQLite so that
// lineages can be queried after the run.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/narjillos/genomics"
)

// ErrNotFound is returned when a genome is not in the archive.
var ErrNotFound = errors.New("genome not found")

// Store wraps a SQLite connection holding archived genomes.
type Store struct {
	conn *sqlx.DB
}

// Record is one archived genome.
type Record struct {
	RunID    string `db:"run_id"`
	ID       int64  `db:"id"`
	ParentID int64  `db:"parent_id"`
	Tick     int64  `db:"tick"`
	DNA      string `db:"dna"`
}

// Genome restores the archived genome.
func (r Record) Genome() (*genomics.Genome, error) {
	return genomics.Restore(uint64(r.ID), uint64(r.ParentID), r.DNA)
}

// Open opens or creates an archive at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Debug("archive opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		config TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS genomes (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		parent_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		dna TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_genomes_parent ON genomes(run_id, parent_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun records an experiment run and the configuration it used.
func (s *Store) SaveRun(runID string, seed int64, config string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO runs (id, seed, config) VALUES (?, ?, ?)",
		runID, seed, config,
	)
	return err
}

// Runs returns the ids of every recorded run, oldest first. Saving a run
// again moves it to the end.
func (s *Store) Runs() ([]string, error) {
	var ids []string
	err := s.conn.Select(&ids, "SELECT id FROM runs ORDER BY rowid")
	return ids, err
}

// SaveGenome archives g. Saving the same genome twice is a no-op.
func (s *Store) SaveGenome(runID string, g *genomics.Genome, tick uint64) error {
	_, err := s.conn.Exec(
		"INSERT OR IGNORE INTO genomes (run_id, id, parent_id, tick, dna) VALUES (?, ?, ?, ?, ?)",
		runID, int64(g.ID()), int64(g.ParentID()), int64(tick), g.String(),
	)
	if err != nil {
		return fmt.Errorf("save genome %d: %w", g.ID(), err)
	}
	return nil
}

// SaveGenomes archives a batch of genomes in one transaction.
func (s *Store) SaveGenomes(runID string, genomes []*genomics.Genome, tick uint64) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT OR IGNORE INTO genomes (run_id, id, parent_id, tick, dna) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range genomes {
		if _, err := stmt.Exec(runID, int64(g.ID()), int64(g.ParentID()), int64(tick), g.String()); err != nil {
			return fmt.Errorf("save genome %d: %w", g.ID(), err)
		}
	}
	return tx.Commit()
}

// Genome returns the archived genome with the given id.
func (s *Store) Genome(runID string, id uint64) (Record, error) {
	var r Record
	err := s.conn.Get(&r,
		"SELECT run_id, id, parent_id, tick, dna FROM genomes WHERE run_id = ? AND id = ?",
		runID, int64(id),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("genome %d: %w", id, ErrNotFound)
	}
	return r, err
}

// Ancestry returns the lineage of a genome, oldest ancestor first and the
// genome itself last. The walk stops at the first ancestor not archived.
func (s *Store) Ancestry(runID string, id uint64) ([]Record, error) {
	var records []Record
	err := s.conn.Select(&records, `
		WITH RECURSIVE lineage(run_id, id, parent_id, tick, dna, depth) AS (
			SELECT run_id, id, parent_id, tick, dna, 0 FROM genomes WHERE run_id = ? AND id = ?
			UNION ALL
			SELECT g.run_id, g.id, g.parent_id, g.tick, g.dna, l.depth + 1
			FROM genomes g JOIN lineage l ON g.run_id = l.run_id AND g.id = l.parent_id
		)
		SELECT run_id, id, parent_id, tick, dna FROM lineage ORDER BY depth DESC`,
		runID, int64(id),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("genome %d: %w", id, ErrNotFound)
	}
	return records, nil
}

// Count returns the number of genomes archived for a run.
func (s *Store) Count(runID string) (int, error) {
	var n int
	err := s.conn.Get(&n, "SELECT COUNT(*) FROM genomes WHERE run_id = ?", runID)
	return n, err
}
