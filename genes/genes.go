// Package genes defines the heritable trait vector carried by every cell
// and the crossover operator that mixes two parents into a child.
package genes

import (
	"math"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/random"
)

// Baseline trait values used for the founding population.
const (
	BaseSize           = 30.0
	BaseStomachSize    = 10.0
	BaseFlagellumSize  = 5.0
	BaseGestationSteps = 200.0
)

// Lower bounds keeping every trait strictly positive after mutation.
const (
	MinTrait          = 0.1
	MinGestationSteps = 1.0
)

// Genes is an immutable-per-cell trait vector. It is a value type;
// assignment copies it.
type Genes struct {
	Size           float64 `yaml:"size"`            // Body radius
	FlagellumSize  float64 `yaml:"flagellum_size"`  // Propulsion organ length
	StomachSize    float64 `yaml:"stomach_size"`    // Maximum metabolic reserve, never above Size
	GestationSteps float64 `yaml:"gestation_steps"` // Ticks to carry a child to term
}

// Mutation holds the crossover mutation parameters.
type Mutation struct {
	Chance        float64
	PercentChange float64
}

// MutationFrom extracts mutation parameters from the config.
func MutationFrom(cfg *config.Config) Mutation {
	return Mutation{
		Chance:        cfg.Mutation.Chance,
		PercentChange: cfg.Mutation.PercentChange,
	}
}

// Baseline returns the fixed founding genome.
func Baseline() Genes {
	return Genes{
		Size:           BaseSize,
		FlagellumSize:  BaseFlagellumSize,
		StomachSize:    BaseStomachSize,
		GestationSteps: BaseGestationSteps,
	}
}

// Initial returns the genome of a founding cell.
// Asexual founders are identical; sexual founders get independent per-trait
// jitter around the baseline so selection has variation to work with.
func Initial(mode config.Mode, rng *random.Stream) Genes {
	if mode != config.Sexual {
		return Baseline()
	}
	return Genes{
		Size:           BaseSize - 3 + float64(rng.Bounded(6)),
		StomachSize:    BaseStomachSize - 1 + float64(rng.Bounded(2)),
		FlagellumSize:  BaseFlagellumSize - 0.5 + rng.Float64(),
		GestationSteps: BaseGestationSteps - 5 + float64(rng.Bounded(10)),
	}
}

// Crossover mixes two parents. Each trait is taken from a or b with equal
// probability, then with probability m.Chance shifted by
// ±(a+b)/2 * m.PercentChange. The stomach is capped at the resulting size.
func Crossover(a, b Genes, m Mutation, rng *random.Stream) Genes {
	size := pickWithMutation(a.Size, b.Size, m, rng)
	child := Genes{
		Size:           size,
		StomachSize:    pickWithMutation(a.StomachSize, b.StomachSize, m, rng),
		FlagellumSize:  pickWithMutation(a.FlagellumSize, b.FlagellumSize, m, rng),
		GestationSteps: pickWithMutation(a.GestationSteps, b.GestationSteps, m, rng),
	}
	return child.normalized()
}

// Valid reports whether the genome satisfies the trait invariants.
func (g Genes) Valid() bool {
	return g.Size > 0 && g.FlagellumSize > 0 && g.StomachSize > 0 &&
		g.GestationSteps >= MinGestationSteps && g.StomachSize <= g.Size
}

// normalized applies the positivity floors and the stomach cap.
func (g Genes) normalized() Genes {
	g.Size = math.Max(g.Size, MinTrait)
	g.FlagellumSize = math.Max(g.FlagellumSize, MinTrait)
	g.StomachSize = math.Min(math.Max(g.StomachSize, MinTrait), g.Size)
	g.GestationSteps = math.Max(g.GestationSteps, MinGestationSteps)
	return g
}

func pickWithMutation(a, b float64, m Mutation, rng *random.Stream) float64 {
	chosen := rng.Pick(a, b)

	if rng.Float64() < m.Chance {
		sign := rng.Pick(-1, 1)
		chosen += sign * ((a + b) / 2) * m.PercentChange
	}

	return chosen
}
