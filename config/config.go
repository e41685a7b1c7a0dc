// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Mode selects how cells reproduce.
type Mode string

const (
	Asexual Mode = "asexual"
	Sexual  Mode = "sexual"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Asexual, Sexual:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown reproduction mode %q", ErrInvalid, s)
}

// String implements fmt.Stringer.
func (m Mode) String() string { return string(m) }

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Food         FoodConfig         `yaml:"food"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Movement     MovementConfig     `yaml:"movement"`
	Metabolism   MetabolismConfig   `yaml:"metabolism"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Batch        BatchConfig        `yaml:"batch"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the interactive viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the field dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FoodConfig holds food grid parameters.
type FoodConfig struct {
	Spacing           int     `yaml:"spacing"`
	Density           int     `yaml:"density"` // Reciprocal spawn probability (higher = rarer)
	EatAmount         float64 `yaml:"eat_amount"`
	EatDistanceFactor float64 `yaml:"eat_distance_factor"`
}

// PopulationConfig holds population seeding parameters.
type PopulationConfig struct {
	Initial        int     `yaml:"initial"`
	InitialReserve float64 `yaml:"initial_reserve"`
	NewbornReserve float64 `yaml:"newborn_reserve"`
}

// ReproductionConfig holds mating and gestation parameters.
type ReproductionConfig struct {
	Mode           Mode    `yaml:"mode"`
	Cooldown       int     `yaml:"cooldown"`        // Ticks between mating attempts
	MatingRadius   int     `yaml:"mating_radius"`   // Spatial hash bucket size
	PregnancyCost  float64 `yaml:"pregnancy_cost"`  // Reserve drained per gestating tick
	ChildbirthCost float64 `yaml:"childbirth_cost"` // Reserve paid on each birth attempt
	BirthFactor    float64 `yaml:"birth_factor"`    // p(birth) = factor * cbrt(gestation steps)
}

// MutationConfig holds crossover mutation parameters.
type MutationConfig struct {
	Chance        float64 `yaml:"chance"`
	PercentChange float64 `yaml:"percent_change"`
}

// MovementConfig holds locomotion parameters.
type MovementConfig struct {
	FlagellumFactor   float64 `yaml:"flagellum_factor"`
	StomachFactor     float64 `yaml:"stomach_factor"`
	RotationIncrement float64 `yaml:"rotation_increment"` // Turn probability added every tick
	WallTurnBonus     float64 `yaml:"wall_turn_bonus"`    // Turn probability added on a rejected move
	WallNudgeMinDeg   float64 `yaml:"wall_nudge_min_deg"`
	WallNudgeMaxDeg   float64 `yaml:"wall_nudge_max_deg"`
}

// MetabolismConfig holds per-tick energy costs.
type MetabolismConfig struct {
	SpeedCost float64 `yaml:"speed_cost"`
	SizeCost  float64 `yaml:"size_cost"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
}

// BatchConfig holds batch statistics run parameters.
type BatchConfig struct {
	Instances     int `yaml:"instances"`
	Samples       int `yaml:"samples"`
	SampleEvery   int `yaml:"sample_every"`
	SwitchAt      int `yaml:"switch_at"` // Sample index at which the food density switches
	SwitchDensity int `yaml:"switch_density"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Margin      float64 // Half the food spacing; cells stay this far from the edges
	Cols, Rows  int     // Food grid dimensions
	WallNudgeLo float64 // Radians
	WallNudgeHi float64 // Radians
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first parameter that would break the simulation.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
	}

	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return invalid("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	case c.Food.Spacing <= 0:
		return invalid("food.spacing must be positive, got %d", c.Food.Spacing)
	case c.Food.Spacing > c.World.Width || c.Food.Spacing > c.World.Height:
		return invalid("food.spacing %d exceeds world size", c.Food.Spacing)
	case c.Food.Density < 1:
		return invalid("food.density must be >= 1, got %d", c.Food.Density)
	case c.Food.EatAmount < 0:
		return invalid("food.eat_amount must not be negative")
	case c.Population.Initial < 0:
		return invalid("population.initial must not be negative")
	case c.Reproduction.Cooldown < 0:
		return invalid("reproduction.cooldown must not be negative")
	case c.Reproduction.MatingRadius <= 0:
		return invalid("reproduction.mating_radius must be positive")
	case c.Mutation.Chance < 0 || c.Mutation.Chance > 1:
		return invalid("mutation.chance must be in [0,1], got %v", c.Mutation.Chance)
	case c.Mutation.PercentChange < 0:
		return invalid("mutation.percent_change must not be negative")
	case c.Movement.WallNudgeMaxDeg < c.Movement.WallNudgeMinDeg:
		return invalid("movement.wall_nudge_max_deg below min")
	}
	if _, err := ParseMode(string(c.Reproduction.Mode)); err != nil {
		return err
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Margin = float64(c.Food.Spacing) / 2
	c.Derived.Cols = c.World.Width / c.Food.Spacing
	c.Derived.Rows = c.World.Height / c.Food.Spacing
	c.Derived.WallNudgeLo = c.Movement.WallNudgeMinDeg * math.Pi / 180
	c.Derived.WallNudgeHi = c.Movement.WallNudgeMaxDeg * math.Pi / 180
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Refresh validates the config and recomputes derived values.
// Call after mutating fields directly.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Overrides is a partial configuration applied between ticks.
// Nil fields are left unchanged.
type Overrides struct {
	FoodDensity           *int
	Reproduction          *Mode
	MutationChance        *float64
	MutationPercentChange *float64
}

// Apply returns a validated copy of c with the overrides applied.
// c itself is never modified, so a rejected update leaves no trace.
func (c *Config) Apply(o Overrides) (*Config, error) {
	next := c.Clone()
	if o.FoodDensity != nil {
		next.Food.Density = *o.FoodDensity
	}
	if o.Reproduction != nil {
		next.Reproduction.Mode = *o.Reproduction
	}
	if o.MutationChance != nil {
		next.Mutation.Chance = *o.MutationChance
	}
	if o.MutationPercentChange != nil {
		next.Mutation.PercentChange = *o.MutationPercentChange
	}
	if err := next.Refresh(); err != nil {
		return nil, err
	}
	return next, nil
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
