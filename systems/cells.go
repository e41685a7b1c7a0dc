package systems

import (
	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/random"
)

// UpdateCell runs one tick of a cell's own lifecycle: movement, then
// reproduction progression, then metabolism. Returns the newborn if a birth
// succeeded; the child is returned even if the parent dies later in the tick.
// Dead cells are left untouched.
func UpdateCell(c *components.Cell, cfg *config.Config, rng *random.Stream) *components.Cell {
	if !c.Alive {
		return nil
	}

	Move(c, cfg, rng)
	child := progressReproduction(c, cfg, rng)
	Metabolize(c, cfg)

	return child
}
