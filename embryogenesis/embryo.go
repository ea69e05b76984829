// Package embryogenesis grows a body from a genome.
//
// Gene 0 is the head. Its loci decode as:
//
//	0 length      1 thickness   2 branching   3 color       4 wave frequency
//	5 wave amp    6 metabolism  7 egg speed   8 egg interval 9 energy to children
//
// Every later gene describes one level of body parts:
//
//	0 length      1 thickness   2 branching   3 color       4 rest angle
//	5 delay       6 amplitude   7 skew        8 orientation 9 symmetry
//
// Branching is locus % 3: each organ built from gene k gets that many
// children built from gene k+1. Two siblings are mirrored (rest angle and
// orientation negated for the second) when the symmetry locus is even.
// Orientation is +1 for an even locus, -1 for an odd one.
package embryogenesis

import (
	"github.com/pthm-cable/narjillos/body"
	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/nerves"
)

// Embryo decodes genomes with a fixed configuration.
type Embryo struct {
	embryo  config.EmbryoConfig
	nerves  config.NervesConfig
	energy  config.EnergyConfig
	repro   config.ReproductionConfig
	physics body.Params
}

// New creates an embryo using the given configuration.
func New(cfg *config.Config) *Embryo {
	return &Embryo{
		embryo:  cfg.Embryo,
		nerves:  cfg.Nerves,
		energy:  cfg.Energy,
		repro:   cfg.Reproduction,
		physics: body.ParamsFromConfig(cfg),
	}
}

// Develop builds a body from g using the global configuration.
func Develop(g *genomics.Genome) *body.Body {
	return New(config.Cfg()).Develop(g)
}

// Develop builds the body described by g. It never fails: degenerate genes
// become atrophic organs and construction stops at max_organs. A genome
// without genes grows a lone atrophic head from an all-zero gene.
func (e *Embryo) Develop(g *genomics.Genome) *body.Body {
	var headGene genomics.Gene
	if g.Len() > 0 {
		headGene = g.Gene(0)
	}
	b := body.New(e.headSpec(headGene), e.headTraits(headGene), e.physics)

	frontier := []int{0}
	branching := branchingOf(headGene)
	for k := 1; k < g.Len() && len(frontier) > 0 && branching > 0; k++ {
		gene := g.Gene(k)
		spec := e.bodySpec(gene)
		mirrored := symmetric(gene)

		next := make([]int, 0, len(frontier)*branching)
	build:
		for _, parent := range frontier {
			for c := 0; c < branching; c++ {
				if b.Len() >= e.embryo.MaxOrgans {
					break build
				}
				s := spec
				s.Nerve = nerves.NewDelayLine(e.delayOf(gene))
				if c == 1 && mirrored {
					s.RestAngle = -s.RestAngle
					s.Orientation = -s.Orientation
				}
				next = append(next, b.Sprout(parent, s))
			}
		}
		frontier = next
		branching = branchingOf(gene)
	}
	return b
}

func (e *Embryo) headSpec(gene genomics.Gene) body.OrganSpec {
	spec := body.OrganSpec{
		AdultLength:    float64(gene[0]) * e.embryo.LengthScale,
		AdultThickness: float64(gene[1]) * e.embryo.ThicknessScale,
		Orientation:    1,
		Color:          gene[3],
		Nerve: nerves.NewOscillator(
			lerp(e.nerves.MinFrequency, e.nerves.MaxFrequency, gene[4]),
			unit(gene[5]),
			0,
		),
	}
	spec.Atrophic = e.degenerate(spec)
	return spec
}

func (e *Embryo) headTraits(gene genomics.Gene) body.HeadTraits {
	share := lerp(e.energy.MinChildShare, e.energy.MaxChildShare, gene[9])
	return body.HeadTraits{
		MetabolicRate:    lerp(e.energy.MinMetabolicRate, e.energy.MaxMetabolicRate, gene[6]),
		EggVelocity:      unit(gene[7]) * e.repro.MaxEggVelocity,
		EggInterval:      e.repro.MinEggInterval + int(gene[8])*e.repro.EggIntervalStep,
		EnergyToChildren: e.energy.Initial * share,
	}
}

func (e *Embryo) bodySpec(gene genomics.Gene) body.OrganSpec {
	orientation := 1.0
	if gene[8]%2 == 1 {
		orientation = -1
	}
	spec := body.OrganSpec{
		AdultLength:    float64(gene[0]) * e.embryo.LengthScale,
		AdultThickness: float64(gene[1]) * e.embryo.ThicknessScale,
		Color:          gene[3],
		RestAngle:      signed(gene[4]) * e.embryo.MaxRestAngle,
		Amplitude:      unit(gene[6]) * e.nerves.MaxAmplitude,
		Skew:           signed(gene[7]) * e.nerves.MaxSkew,
		Orientation:    orientation,
	}
	spec.Atrophic = e.degenerate(spec)
	return spec
}

func (e *Embryo) delayOf(gene genomics.Gene) int {
	return 1 + int(gene[5])%e.nerves.MaxDelay
}

func (e *Embryo) degenerate(spec body.OrganSpec) bool {
	return spec.AdultLength < e.embryo.MinOrganLength || spec.AdultThickness < e.embryo.MinOrganThickness
}

func branchingOf(gene genomics.Gene) int { return int(gene[2]) % 3 }

func symmetric(gene genomics.Gene) bool { return gene[9]%2 == 0 }

// unit maps a locus to [0, 1].
func unit(locus uint8) float64 { return float64(locus) / 255 }

// signed maps a locus to [-1, 1].
func signed(locus uint8) float64 { return unit(locus)*2 - 1 }

func lerp(lo, hi float64, locus uint8) float64 { return lo + unit(locus)*(hi-lo) }
