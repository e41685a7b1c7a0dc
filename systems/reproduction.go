package systems

import (
	"math"

	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/random"
)

// NewCell creates a live cell with the given genome at (x, y).
// The reserve is capped at the stomach size.
func NewCell(g genes.Genes, x, y uint32, reserve float64, cfg *config.Config, rng *random.Stream) components.Cell {
	if reserve > g.StomachSize {
		reserve = g.StomachSize
	}
	return components.Cell{
		X:           x,
		Y:           y,
		Heading:     rng.Angle(),
		Reserve:     reserve,
		Alive:       true,
		Cooldown:    uint32(cfg.Reproduction.Cooldown),
		Genes:       g,
		DisplaySeed: rng.Float64(),
	}
}

// StartGestation makes c pregnant with the crossover of its own genome and
// partner and resets its cooldown. A pregnancy already under way is replaced
// and its gestation restarts. Dead cells refuse and false is returned.
func StartGestation(c *components.Cell, partner genes.Genes, cfg *config.Config, rng *random.Stream) bool {
	if !c.Alive {
		return false
	}

	child := genes.Crossover(c.Genes, partner, genes.MutationFrom(cfg), rng)
	c.PendingChild = &child
	c.GestationRemaining = gestationTicks(c.Genes.GestationSteps)
	ResetCooldown(c, cfg)
	return true
}

// ResetCooldown sets the mating cooldown back to its configured length.
func ResetCooldown(c *components.Cell, cfg *config.Config) {
	c.Cooldown = uint32(cfg.Reproduction.Cooldown)
}

// AttemptMate registers c in the mating grid. In sexual mode a cell off
// cooldown that lands in a bucket already held by another cell is paired
// with it and the partner's index is returned. Neither cooldown is touched
// here; the caller resets the discoverer's once its tick is over.
func AttemptMate(c *components.Cell, index int, grid *MatingGrid, cfg *config.Config) (int, bool) {
	if cfg.Reproduction.Mode != config.Sexual || c.Cooldown > 0 {
		return 0, false
	}

	return grid.Register(index, c.X, c.Y)
}

// progressReproduction ticks the mating cooldown and any pregnancy.
// Returns the newborn when a birth succeeds this tick.
func progressReproduction(c *components.Cell, cfg *config.Config, rng *random.Stream) *components.Cell {
	if c.Cooldown > 0 {
		c.Cooldown--
	}
	if c.GestationRemaining == 0 {
		return nil
	}

	c.GestationRemaining--
	c.Reserve -= cfg.Reproduction.PregnancyCost
	if c.GestationRemaining > 0 {
		return nil
	}

	child := attemptBirth(c, cfg, rng)
	c.PendingChild = nil
	return child
}

// attemptBirth pays the childbirth cost and rolls for a successful birth.
// Longer gestation makes birth more likely.
func attemptBirth(c *components.Cell, cfg *config.Config, rng *random.Stream) *components.Cell {
	if c.PendingChild == nil {
		return nil
	}

	c.Reserve -= cfg.Reproduction.ChildbirthCost
	if rng.Float64() >= BirthProbability(c.Genes, cfg) {
		return nil
	}

	child := NewCell(*c.PendingChild, c.X, c.Y, cfg.Population.NewbornReserve, cfg, rng)
	child.Generation = c.Generation + 1
	return &child
}

// BirthProbability returns the chance that a pregnancy carried by g ends in
// a live birth.
func BirthProbability(g genes.Genes, cfg *config.Config) float64 {
	return cfg.Reproduction.BirthFactor * math.Cbrt(g.GestationSteps)
}

// gestationTicks rounds a gestation length to whole ticks, at least one.
func gestationTicks(steps float64) uint32 {
	n := math.Round(steps)
	if n < 1 {
		return 1
	}
	return uint32(n)
}
