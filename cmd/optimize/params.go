package main

import (
	"math"

	"github.com/pthm-cable/narjillos/genomics"
)

// LocusVector maps genomes with a fixed number of genes to points in
// [0,1]^(genes*GeneSize), one dimension per locus.
type LocusVector struct {
	Genes int
}

// NewLocusVector creates a vector for genomes of the given length.
func NewLocusVector(genes int) *LocusVector {
	return &LocusVector{Genes: max(genes, 1)}
}

// Dim returns the number of dimensions.
func (lv *LocusVector) Dim() int {
	return lv.Genes * genomics.GeneSize
}

// Normalize converts a genome to [0,1] coordinates. Missing genes are 0 and
// extra genes are dropped.
func (lv *LocusVector) Normalize(g *genomics.Genome) []float64 {
	x := make([]float64, lv.Dim())
	for i := 0; i < min(lv.Genes, g.Len()); i++ {
		gene := g.Gene(i)
		for l, v := range gene {
			x[i*genomics.GeneSize+l] = float64(v) / 255
		}
	}
	return x
}

// Denormalize converts coordinates back to genes, clamping each coordinate
// to [0,1] and rounding to the nearest locus value.
func (lv *LocusVector) Denormalize(x []float64) []genomics.Gene {
	genes := make([]genomics.Gene, lv.Genes)
	for i := range genes {
		for l := range genes[i] {
			v := math.Round(clamp01(x[i*genomics.GeneSize+l]) * 255)
			genes[i][l] = uint8(v)
		}
	}
	return genes
}

// Clamp ensures all values are within bounds.
func (lv *LocusVector) Clamp(x []float64) []float64 {
	clamped := make([]float64, len(x))
	for i, v := range x {
		clamped[i] = clamp01(v)
	}
	return clamped
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
