package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/narjillos/genomics"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end
	Creatures int `csv:"creatures"`
	Eggs      int `csv:"eggs"`
	Food      int `csv:"food"`

	// Events during window
	Births   int     `csv:"births"`
	Deaths   int     `csv:"deaths"`
	EggsLaid int     `csv:"eggs_laid"`
	Meals    int     `csv:"meals"`
	Eaten    float64 `csv:"energy_eaten"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Morphology
	MassMean   float64 `csv:"mass_mean"`
	MassStd    float64 `csv:"mass_std"`
	OrgansMean float64 `csv:"organs_mean"`
	GenesMean  float64 `csv:"genes_mean"`

	// Most typical specimen: smallest total genetic distance to the others
	TypicalID  uint64 `csv:"typical_id"`
	TypicalDNA string `csv:"typical_dna"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Mean(sorted, nil), Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeSpread returns the mean and standard deviation of values.
func ComputeSpread(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// MostTypical returns the genome with the smallest total distance to all
// the others, or nil for an empty population. Ties go to the earliest.
func MostTypical(genomes []*genomics.Genome) *genomics.Genome {
	var best *genomics.Genome
	bestTotal := -1
	for i, g := range genomes {
		total := 0
		for j, other := range genomes {
			if i != j {
				total += genomics.Distance(g, other)
			}
		}
		if bestTotal < 0 || total < bestTotal {
			best, bestTotal = g, total
		}
	}
	return best
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("creatures", s.Creatures),
		slog.Int("eggs", s.Eggs),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("eggs_laid", s.EggsLaid),
		slog.Int("meals", s.Meals),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("organs_mean", s.OrgansMean),
		slog.Uint64("typical_id", s.TypicalID),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"creatures", s.Creatures,
		"eggs", s.Eggs,
		"food", s.Food,
		"births", s.Births,
		"deaths", s.Deaths,
		"eggs_laid", s.EggsLaid,
		"meals", s.Meals,
		"energy_eaten", s.Eaten,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"mass_mean", s.MassMean,
		"mass_std", s.MassStd,
		"organs_mean", s.OrgansMean,
		"genes_mean", s.GenesMean,
		"typical_id", s.TypicalID,
		"typical_dna", s.TypicalDNA,
	)
}
