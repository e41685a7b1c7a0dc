package systems

import (
	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/food"
)

// Eat adds amount to the reserve, capped at the stomach size.
func Eat(c *components.Cell, amount float64) {
	c.Reserve += amount
	if c.Reserve > c.Genes.StomachSize {
		c.Reserve = c.Genes.StomachSize
	}
}

// EatDistance returns how close food must be for the cell to reach it.
func EatDistance(c *components.Cell, cfg *config.Config) float64 {
	return c.Genes.Size * cfg.Food.EatDistanceFactor
}

// Feed probes the field at the cell position and eats the nearest item
// when it is within reach. Reports whether food was eaten.
func Feed(c *components.Cell, field *food.Field, cfg *config.Config) bool {
	x, y := c.Position()
	if !field.FindAndConsumeNearest(x, y, EatDistance(c, cfg)) {
		return false
	}
	Eat(c, cfg.Food.EatAmount)
	return true
}
