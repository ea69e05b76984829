// Package genomics implements the genetic code of creatures: genomes made of
// fixed-size genes, their text form, random creation, mutation and the gene
// pool that hands out identities.
package genomics

import (
	"math/rand"
	"strings"
)

// GeneSize is the number of loci in every gene.
const GeneSize = 10

// Gene is a fixed-size group of loci. Each locus is in [0, 255].
type Gene [GeneSize]uint8

// Genome is an immutable ordered sequence of genes with a unique identity.
// Gene 0 describes the head; every later gene describes one level of body parts.
type Genome struct {
	id       uint64
	parentID uint64
	genes    []Gene
}

// New creates a genome from the given genes. The genes are copied.
// If ids is nil the genome gets id 0.
func New(ids *IDCounter, genes ...Gene) *Genome {
	return newGenome(ids.Next(), 0, genes)
}

// Restore recreates a genome with a known identity and lineage, e.g. from an archive.
func Restore(id, parentID uint64, text string) (*Genome, error) {
	genes, err := parseGenes(text)
	if err != nil {
		return nil, err
	}
	return &Genome{id: id, parentID: parentID, genes: genes}, nil
}

func newGenome(id, parentID uint64, genes []Gene) *Genome {
	g := &Genome{id: id, parentID: parentID, genes: make([]Gene, len(genes))}
	copy(g.genes, genes)
	return g
}

// Random creates a genome of n genes with uniform loci.
func Random(rng *rand.Rand, ids *IDCounter, n int) *Genome {
	genes := make([]Gene, n)
	for i := range genes {
		genes[i] = randomGene(rng)
	}
	return &Genome{id: ids.Next(), genes: genes}
}

func randomGene(rng *rand.Rand) Gene {
	var g Gene
	for i := range g {
		g[i] = uint8(rng.Intn(256))
	}
	return g
}

// ID returns the genome's identity.
func (g *Genome) ID() uint64 { return g.id }

// ParentID returns the identity of the genome this one mutated from, or 0.
func (g *Genome) ParentID() uint64 { return g.parentID }

// Len returns the number of genes.
func (g *Genome) Len() int { return len(g.genes) }

// Gene returns gene i.
func (g *Genome) Gene(i int) Gene { return g.genes[i] }

// Genes returns a copy of all genes.
func (g *Genome) Genes() []Gene {
	out := make([]Gene, len(g.genes))
	copy(out, g.genes)
	return out
}

// String returns the canonical text form: every locus as three zero-padded
// digits, loci joined by '_', each gene in braces.
func (g *Genome) String() string {
	var sb strings.Builder
	sb.Grow(len(g.genes) * (GeneSize*4 + 1))
	for _, gene := range g.genes {
		sb.WriteByte('{')
		for i, locus := range gene {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteByte('0' + locus/100)
			sb.WriteByte('0' + locus/10%10)
			sb.WriteByte('0' + locus%10)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

// Distance returns the total absolute locus difference between two genomes.
// Genes missing from the shorter genome count against all-zero genes.
func Distance(a, b *Genome) int {
	n := max(a.Len(), b.Len())
	total := 0
	for i := 0; i < n; i++ {
		var ga, gb Gene
		if i < a.Len() {
			ga = a.genes[i]
		}
		if i < b.Len() {
			gb = b.genes[i]
		}
		for l := range ga {
			d := int(ga[l]) - int(gb[l])
			if d < 0 {
				d = -d
			}
			total += d
		}
	}
	return total
}
