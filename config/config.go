// Package config provides configuration loading and access for the creature engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Genetics     GeneticsConfig     `yaml:"genetics"`
	Embryo       EmbryoConfig       `yaml:"embryo"`
	Body         BodyConfig         `yaml:"body"`
	Nerves       NervesConfig       `yaml:"nerves"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Steering     SteeringConfig     `yaml:"steering"`
	Ecosystem    EcosystemConfig    `yaml:"ecosystem"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GeneticsConfig holds genome creation and mutation parameters.
type GeneticsConfig struct {
	MinGenes                 int     `yaml:"min_genes"`                  // Genes in a random genome
	AddGeneProbability       float64 `yaml:"add_gene_probability"`       // Chance a child gets one extra gene
	LocusMutationProbability float64 `yaml:"locus_mutation_probability"` // Per-gene chance to rewrite one locus
	MaxLocusStep             int     `yaml:"max_locus_step"`             // Max distance of a locus rewrite (255 = uniform)
}

// EmbryoConfig holds the scales used to decode genes into organs.
type EmbryoConfig struct {
	LengthScale       float64 `yaml:"length_scale"`        // Adult length per length locus unit
	ThicknessScale    float64 `yaml:"thickness_scale"`     // Adult thickness per thickness locus unit
	MaxRestAngle      float64 `yaml:"max_rest_angle"`      // Degrees either side of the parent axis
	MaxOrgans         int     `yaml:"max_organs"`          // Construction stops at this many organs
	MinOrganLength    float64 `yaml:"min_organ_length"`    // Shorter organs are atrophic
	MinOrganThickness float64 `yaml:"min_organ_thickness"` // Thinner organs are atrophic
}

// BodyConfig holds organ tree physics parameters.
type BodyConfig struct {
	GrowthTicks     int     `yaml:"growth_ticks"`     // Ticks to reach adult size
	MassDensity     float64 `yaml:"mass_density"`     // mass = length * thickness^2 * density
	PropulsionScale float64 `yaml:"propulsion_scale"` // Force per radian of skew change
	RotationScale   float64 `yaml:"rotation_scale"`   // Degrees of heading per unit normal force over mass
	MaxSpeed        float64 `yaml:"max_speed"`        // Max root displacement per tick
}

// NervesConfig holds the ranges decoded into nerve parameters.
type NervesConfig struct {
	MaxDelay     int     `yaml:"max_delay"`     // Delay lines hold 1..max_delay signals
	MinFrequency float64 `yaml:"min_frequency"` // Head oscillator cycles per tick
	MaxFrequency float64 `yaml:"max_frequency"`
	MaxAmplitude float64 `yaml:"max_amplitude"` // Degrees of skew per unit signal
	MaxSkew      float64 `yaml:"max_skew"`      // Degrees of steering skew per unit signal
}

// EnergyConfig holds creature energy parameters.
type EnergyConfig struct {
	Initial                float64 `yaml:"initial"`
	MaxMultiplier          float64 `yaml:"max_multiplier"`            // Cap at birth = initial * this
	Lifespan               int     `yaml:"lifespan"`                  // Ticks for the cap to decay to zero
	MovementCost           float64 `yaml:"movement_cost"`             // Per unit of displacement per unit of metabolic consumption
	GreenFibersExtraEnergy float64 `yaml:"green_fibers_extra_energy"` // Gain per unit of green mass per tick
	MinMetabolicRate       float64 `yaml:"min_metabolic_rate"`
	MaxMetabolicRate       float64 `yaml:"max_metabolic_rate"`
	MinChildShare          float64 `yaml:"min_child_share"` // Fraction of initial energy given to each egg
	MaxChildShare          float64 `yaml:"max_child_share"`
}

// ReproductionConfig holds egg laying parameters.
type ReproductionConfig struct {
	MatureAge       int     `yaml:"mature_age"`
	EggMass         float64 `yaml:"egg_mass"`
	EggIncubation   int     `yaml:"egg_incubation"`
	EggDrag         float64 `yaml:"egg_drag"` // Fraction of egg velocity lost per tick
	MaxEggVelocity  float64 `yaml:"max_egg_velocity"`
	MinEggInterval  int     `yaml:"min_egg_interval"`
	EggIntervalStep int     `yaml:"egg_interval_step"` // Extra ticks per egg interval locus unit
}

// SteeringConfig holds target tracking parameters.
type SteeringConfig struct {
	LateralViewfield float64 `yaml:"lateral_viewfield"` // Degrees either side of heading mapped to full steering
	MaxTurn          float64 `yaml:"max_turn"`          // Max heading change per tick in degrees
}

// EcosystemConfig holds the test harness world parameters.
type EcosystemConfig struct {
	Size       float64 `yaml:"size"`
	FoodEnergy float64 `yaml:"food_energy"`
	FoodRadius float64 `yaml:"food_radius"`
	FoodPieces int     `yaml:"food_pieces"` // Initial food field for the runner
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	MaxEnergyForAge float64 // Energy cap at birth
	EnergyDecay     float64 // Cap decay per tick
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Genetics.MinGenes < 1:
		return fmt.Errorf("genetics.min_genes must be at least 1, got %d", c.Genetics.MinGenes)
	case c.Genetics.MaxLocusStep < 0:
		return fmt.Errorf("genetics.max_locus_step must not be negative, got %d", c.Genetics.MaxLocusStep)
	case c.Embryo.MaxOrgans < 1:
		return fmt.Errorf("embryo.max_organs must be at least 1, got %d", c.Embryo.MaxOrgans)
	case c.Nerves.MaxDelay < 1:
		return fmt.Errorf("nerves.max_delay must be at least 1, got %d", c.Nerves.MaxDelay)
	case c.Energy.Lifespan < 1:
		return fmt.Errorf("energy.lifespan must be at least 1, got %d", c.Energy.Lifespan)
	case c.Steering.LateralViewfield <= 0:
		return fmt.Errorf("steering.lateral_viewfield must be positive, got %g", c.Steering.LateralViewfield)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxEnergyForAge = c.Energy.Initial * c.Energy.MaxMultiplier
	c.Derived.EnergyDecay = c.Derived.MaxEnergyForAge / float64(c.Energy.Lifespan)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
