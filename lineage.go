package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/narjillos/archive"
	"github.com/pthm-cable/narjillos/genomics"
)

// printAncestry writes the archived lineage of genome id, oldest ancestor
// first, one tab-separated line per genome. The drift column is the locus
// distance from the line above. An empty runID picks the latest run.
func printAncestry(w io.Writer, path, runID string, id uint64) error {
	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID == "" {
		runs, err := store.Runs()
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			return fmt.Errorf("archive %s has no runs", path)
		}
		runID = runs[len(runs)-1]
	}

	if _, err := store.Genome(runID, id); err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	records, err := store.Ancestry(runID, id)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	fmt.Fprintf(w, "# run %s, %d generations\n", runID, len(records))
	fmt.Fprintln(w, "id\tparent\ttick\tdrift\tdna")
	var previous *genomics.Genome
	for _, r := range records {
		g, err := r.Genome()
		if err != nil {
			return fmt.Errorf("archived genome %d: %w", r.ID, err)
		}
		drift := 0
		if previous != nil {
			drift = genomics.Distance(previous, g)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", r.ID, r.ParentID, humanize.Comma(r.Tick), drift, r.DNA)
		previous = g
	}
	return nil
}
