package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/narjillos/genomics"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{1000, 200, 300, 400, 500, 600, 700, 800, 900, 100}
	mean, p10, p50, p90 := ComputeEnergyStats(values)

	if math.Abs(mean-550) > 0.001 {
		t.Errorf("mean = %v, want 550", mean)
	}
	if math.Abs(p10-190) > 0.01 {
		t.Errorf("p10 = %v, want 190", p10)
	}
	if math.Abs(p50-550) > 0.01 {
		t.Errorf("p50 = %v, want 550", p50)
	}
	if math.Abs(p90-910) > 0.01 {
		t.Errorf("p90 = %v, want 910", p90)
	}
	if values[0] != 1000 {
		t.Error("input should not be reordered")
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeEnergyStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected all zeros for empty input")
	}
}

func TestComputeSpread(t *testing.T) {
	if m, s := ComputeSpread([]float64{4}); m != 4 || s != 0 {
		t.Errorf("single value: %v %v", m, s)
	}
	m, s := ComputeSpread([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if m != 5 {
		t.Errorf("mean = %v, want 5", m)
	}
	// Sample standard deviation
	if math.Abs(s-2.138) > 0.001 {
		t.Errorf("std = %v, want ~2.138", s)
	}
}

func TestMostTypical(t *testing.T) {
	if MostTypical(nil) != nil {
		t.Error("empty population has no typical genome")
	}
	low := genomics.New(nil, genomics.Gene{0})
	mid := genomics.New(nil, genomics.Gene{10})
	high := genomics.New(nil, genomics.Gene{100})
	if got := MostTypical([]*genomics.Genome{low, high, mid}); got != mid {
		t.Errorf("MostTypical = %s, want %s", got, mid)
	}
}
