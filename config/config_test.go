package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Genetics.MinGenes < 1 {
		t.Errorf("min_genes = %d, want >= 1", cfg.Genetics.MinGenes)
	}
	if cfg.Embryo.MaxOrgans < 1 {
		t.Errorf("max_organs = %d, want >= 1", cfg.Embryo.MaxOrgans)
	}
	want := cfg.Energy.Initial * cfg.Energy.MaxMultiplier
	if cfg.Derived.MaxEnergyForAge != want {
		t.Errorf("MaxEnergyForAge = %v, want %v", cfg.Derived.MaxEnergyForAge, want)
	}
	if cfg.Derived.EnergyDecay != want/float64(cfg.Energy.Lifespan) {
		t.Errorf("EnergyDecay = %v", cfg.Derived.EnergyDecay)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("genetics:\n  min_genes: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	defaults, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Genetics.MinGenes != 7 {
		t.Errorf("min_genes = %d, want 7", cfg.Genetics.MinGenes)
	}
	if cfg.Genetics.AddGeneProbability != defaults.Genetics.AddGeneProbability {
		t.Errorf("add_gene_probability changed to %v", cfg.Genetics.AddGeneProbability)
	}
	if cfg.Energy != defaults.Energy {
		t.Error("energy section should keep defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("nerves:\n  max_delay: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "max_delay") {
		t.Errorf("expected max_delay error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Reproduction.MatureAge = 1234

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Reproduction != cfg.Reproduction {
		t.Errorf("reproduction = %+v, want %+v", back.Reproduction, cfg.Reproduction)
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().Telemetry.StatsWindow <= 0 {
		t.Error("stats_window should be positive")
	}
}
