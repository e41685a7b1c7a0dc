package systems

import (
	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
)

// MetabolicCost returns the reserve a genome burns per tick:
// speed_cost*speed + size_cost*size.
func MetabolicCost(g genes.Genes, cfg *config.Config) float64 {
	return cfg.Metabolism.SpeedCost*components.Speed(g, cfg.Movement) + cfg.Metabolism.SizeCost*g.Size
}

// Metabolize deducts the per-tick energy usage and marks the cell dead
// once the reserve drops below zero. Death is terminal.
func Metabolize(c *components.Cell, cfg *config.Config) {
	if !c.Alive {
		return
	}

	c.Reserve -= MetabolicCost(c.Genes, cfg)

	if c.Reserve < 0 {
		c.Alive = false
	}
}
