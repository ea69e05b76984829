package genomics

import (
	"math/rand"

	"github.com/pthm-cable/narjillos/config"
)

// GenePool creates and mutates genomes, assigning identities from one counter.
// It holds no other state.
type GenePool struct {
	ids      *IDCounter
	params   MutationParams
	minGenes int
}

// NewGenePool creates a gene pool.
func NewGenePool(ids *IDCounter, params MutationParams, minGenes int) *GenePool {
	return &GenePool{ids: ids, params: params, minGenes: max(1, minGenes)}
}

// NewGenePoolFromConfig creates a gene pool using the genetics config section.
func NewGenePoolFromConfig(ids *IDCounter, cfg *config.Config) *GenePool {
	g := cfg.Genetics
	return NewGenePool(ids, MutationParams{
		AddGeneProbability:       g.AddGeneProbability,
		LocusMutationProbability: g.LocusMutationProbability,
		MaxLocusStep:             g.MaxLocusStep,
	}, g.MinGenes)
}

// IDs returns the pool's identity counter.
func (p *GenePool) IDs() *IDCounter { return p.ids }

// MutateGenome returns a mutated child of g with a fresh identity.
func (p *GenePool) MutateGenome(g *Genome, rng *rand.Rand) *Genome {
	return g.Mutate(rng, p.ids, p.params)
}

// CreateRandom returns a random genome of the configured minimum length.
func (p *GenePool) CreateRandom(rng *rand.Rand) *Genome {
	return Random(rng, p.ids, p.minGenes)
}

// Parse reads genome text and assigns it a fresh identity.
func (p *GenePool) Parse(text string) (*Genome, error) {
	return Parse(text, p.ids)
}
