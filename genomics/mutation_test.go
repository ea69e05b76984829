package genomics

import (
	"math/rand"
	"testing"
)

func testParent() *Genome {
	return New(nil,
		Gene{0, 10, 20, 30, 40, 50, 60, 70, 80, 90},
		Gene{255, 200, 150, 100, 50, 0, 1, 2, 3, 4},
		Gene{128, 128, 128, 128, 128, 128, 128, 128, 128, 128},
	)
}

func TestMutateNeverShrinksOrTouchesParent(t *testing.T) {
	parent := testParent()
	before := parent.String()
	rng := rand.New(rand.NewSource(3))
	params := MutationParams{AddGeneProbability: 0.5, LocusMutationProbability: 1, MaxLocusStep: 255}

	for i := 0; i < 200; i++ {
		child := parent.Mutate(rng, nil, params)
		if child.Len() < parent.Len() || child.Len() > parent.Len()+1 {
			t.Fatalf("child has %d genes, parent %d", child.Len(), parent.Len())
		}
	}
	if parent.String() != before {
		t.Error("parent was modified")
	}
}

func TestMutateNoMutationCopies(t *testing.T) {
	parent := testParent()
	child := parent.Mutate(rand.New(rand.NewSource(1)), nil, MutationParams{})
	if Distance(parent, child) != 0 || child.Len() != parent.Len() {
		t.Errorf("zero probabilities should copy: %s vs %s", parent, child)
	}
}

func TestMutateAlwaysAddsGene(t *testing.T) {
	parent := testParent()
	child := parent.Mutate(rand.New(rand.NewSource(1)), nil, MutationParams{AddGeneProbability: 1})
	if child.Len() != parent.Len()+1 {
		t.Errorf("Len = %d, want %d", child.Len(), parent.Len()+1)
	}
	for i := 0; i < parent.Len(); i++ {
		if child.Gene(i) != parent.Gene(i) {
			t.Errorf("gene %d changed without locus mutation", i)
		}
	}
}

func TestMutateOneLocusPerGene(t *testing.T) {
	parent := testParent()
	rng := rand.New(rand.NewSource(9))
	params := MutationParams{LocusMutationProbability: 1, MaxLocusStep: 255}

	for n := 0; n < 100; n++ {
		child := parent.Mutate(rng, nil, params)
		for i := 0; i < parent.Len(); i++ {
			changed := 0
			for l := 0; l < GeneSize; l++ {
				if child.Gene(i)[l] != parent.Gene(i)[l] {
					changed++
				}
			}
			if changed != 1 {
				t.Fatalf("gene %d changed %d loci, want exactly 1", i, changed)
			}
		}
	}
}

func TestMutateRespectsLocusStep(t *testing.T) {
	parent := testParent()
	rng := rand.New(rand.NewSource(11))
	params := MutationParams{LocusMutationProbability: 1, MaxLocusStep: 3}

	for n := 0; n < 200; n++ {
		child := parent.Mutate(rng, nil, params)
		for i := 0; i < parent.Len(); i++ {
			for l := 0; l < GeneSize; l++ {
				d := int(child.Gene(i)[l]) - int(parent.Gene(i)[l])
				if d < -3 || d > 3 {
					t.Fatalf("locus moved by %d with step 3", d)
				}
			}
		}
	}
}

func TestMutateDeterministic(t *testing.T) {
	parent := testParent()
	params := MutationParams{AddGeneProbability: 0.3, LocusMutationProbability: 0.5, MaxLocusStep: 255}
	a := parent.Mutate(rand.New(rand.NewSource(5)), nil, params)
	b := parent.Mutate(rand.New(rand.NewSource(5)), nil, params)
	if a.String() != b.String() {
		t.Errorf("same seed gave %s and %s", a, b)
	}
}

// ---------- gene pool ----------

func TestGenePoolLineage(t *testing.T) {
	ids := NewIDCounter()
	pool := NewGenePool(ids, MutationParams{LocusMutationProbability: 1, MaxLocusStep: 255}, 3)
	rng := rand.New(rand.NewSource(2))

	parent := pool.CreateRandom(rng)
	if parent.Len() != 3 {
		t.Errorf("random genome has %d genes, want 3", parent.Len())
	}
	child := pool.MutateGenome(parent, rng)
	if child.ParentID() != parent.ID() {
		t.Errorf("ParentID = %d, want %d", child.ParentID(), parent.ID())
	}
	if child.ID() <= parent.ID() {
		t.Errorf("child id %d should follow parent id %d", child.ID(), parent.ID())
	}

	parsed, err := pool.Parse(oneGene)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.ID() != ids.Current() {
		t.Errorf("parsed id %d, counter at %d", parsed.ID(), ids.Current())
	}
}
