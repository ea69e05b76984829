// Package main searches for fast-swimming genomes with CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/genomics"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Distance float64 `csv:"distance"`
	DNA      string  `csv:"dna"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	genes := flag.Int("genes", 6, "Number of genes per candidate genome")
	dna := flag.String("dna", "", "Starting genome (empty = random)")
	ticks := flag.Int("ticks", 3000, "Ticks each candidate swims")
	headings := flag.Int("headings", 4, "Number of starting headings per evaluation")
	maxEvals := flag.Int("max-evals", 500, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	seed := flag.Int64("seed", 42, "Seed for the random starting genome")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	vector := NewLocusVector(*genes)
	start := genomics.Random(rand.New(rand.NewSource(*seed)), nil, *genes)
	if *dna != "" {
		var err error
		if start, err = genomics.Parse(*dna, nil); err != nil {
			log.Fatalf("invalid --dna: %v", err)
		}
	}

	evalHeadings := make([]float64, *headings)
	for i := range evalHeadings {
		evalHeadings[i] = 360 * float64(i) / float64(len(evalHeadings))
	}
	evaluator := NewFitnessEvaluator(vector, *ticks, evalHeadings, cfg)

	dim := vector.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 0.0
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(x)
			evalCount++
			bestFitness = min(bestFitness, fitness)

			record := []EvalRecord{{
				Eval:     evalCount,
				Fitness:  fitness,
				Distance: evaluator.LastDistance(),
				DNA:      genomics.New(nil, vector.Denormalize(x)...).String(),
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(record, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(record, logFile)
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: distance=%.1f (best=%.1f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, evaluator.LastDistance(), -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d loci, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Headings per evaluation: %d, ticks per swim: %d\n", *headings, *ticks)

	if _, err := optimize.Minimize(problem, vector.Normalize(start), settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	best := evaluator.BestGenome()
	if best == nil {
		return
	}
	fmt.Printf("Best distance: %.1f\nBest genome: %s\n", -bestFitness, best)

	dnaPath := filepath.Join(*outputDir, "best_genome.txt")
	if err := os.WriteFile(dnaPath, []byte(best.String()+"\n"), 0644); err != nil {
		log.Printf("failed to write best genome: %v", err)
	} else {
		fmt.Printf("Best genome saved to: %s\n", dnaPath)
	}
}
