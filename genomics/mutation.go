package genomics

import "math/rand"

// MutationParams controls how a child genome differs from its parent.
type MutationParams struct {
	AddGeneProbability       float64
	LocusMutationProbability float64
	MaxLocusStep             int
}

// Mutate returns a new genome derived from g. With AddGeneProbability a
// random gene is appended; then each inherited gene independently has one
// locus rewritten with LocusMutationProbability. The child is never shorter
// than g and g is not modified. All randomness comes from rng.
func (g *Genome) Mutate(rng *rand.Rand, ids *IDCounter, p MutationParams) *Genome {
	genes := make([]Gene, len(g.genes), len(g.genes)+1)
	copy(genes, g.genes)

	if rng.Float64() < p.AddGeneProbability {
		genes = append(genes, randomGene(rng))
	}
	for i := range g.genes {
		if rng.Float64() < p.LocusMutationProbability {
			genes[i] = mutateLocus(genes[i], rng, p.MaxLocusStep)
		}
	}

	return &Genome{id: ids.Next(), parentID: g.id, genes: genes}
}

// mutateLocus rewrites one random locus with a value drawn uniformly from
// [v-step, v+step] clipped to [0, 255], excluding v.
func mutateLocus(gene Gene, rng *rand.Rand, step int) Gene {
	locus := rng.Intn(GeneSize)
	v := int(gene[locus])
	lo := max(0, v-step)
	hi := min(255, v+step)
	if hi == lo {
		return gene
	}
	r := lo + rng.Intn(hi-lo)
	if r >= v {
		r++
	}
	gene[locus] = uint8(r)
	return gene
}
