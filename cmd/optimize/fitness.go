package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/embryogenesis"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/physics"
)

// targetDistance puts the steering target far enough ahead that it is
// never reached.
const targetDistance = 1e9

// FitnessEvaluator grows a candidate genome and measures how far it swims.
type FitnessEvaluator struct {
	vector   *LocusVector
	ticks    int
	headings []float64
	cfg      *config.Config

	mu           sync.Mutex
	bestFitness  float64
	bestGenome   *genomics.Genome
	lastDistance float64
}

// NewFitnessEvaluator creates an evaluator that swims each candidate for
// ticks ticks once per heading.
func NewFitnessEvaluator(vector *LocusVector, ticks int, headings []float64, cfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		vector:      vector,
		ticks:       ticks,
		headings:    headings,
		cfg:         cfg,
		bestFitness: math.Inf(1),
	}
}

// BestGenome returns the genome of the best evaluation so far.
func (fe *FitnessEvaluator) BestGenome() *genomics.Genome {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestGenome
}

// LastDistance returns the mean distance from the most recent evaluation.
func (fe *FitnessEvaluator) LastDistance() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDistance
}

// Evaluate computes fitness for a point (lower = better): the negated mean
// distance swum over all headings.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	g := genomics.New(nil, fe.vector.Denormalize(x)...)

	distances := make([]float64, len(fe.headings))
	var wg sync.WaitGroup
	for i, heading := range fe.headings {
		wg.Add(1)
		go func(idx int, angle float64) {
			defer wg.Done()
			distances[idx] = fe.swim(g, angle)
		}(i, heading)
	}
	wg.Wait()

	var total float64
	for _, d := range distances {
		total += d
	}
	mean := total / float64(len(distances))
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestGenome = g
	}
	fe.lastDistance = mean
	fe.mu.Unlock()

	return fitness
}

// swim returns the straight-line distance covered by g's creature.
func (fe *FitnessEvaluator) swim(g *genomics.Genome, heading float64) float64 {
	b := embryogenesis.New(fe.cfg).Develop(g)
	c := creature.Build(g, b, physics.Zero, heading, fe.cfg.Energy.Initial, creature.ParamsFromConfig(fe.cfg))
	c.SetTarget(physics.Polar(heading, targetDistance))
	for i := 0; i < fe.ticks && !c.IsDead(); i++ {
		c.Tick()
	}
	return physics.Distance(physics.Zero, c.Position())
}
