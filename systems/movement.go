package systems

import (
	"math"

	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/random"
)

// Move advances the cell along its heading.
// Each axis is resolved separately: a step that would leave the interior
// margin is dropped and the heading is nudged away instead. The random turn
// ratchet is then rolled; a successful turn resets it.
func Move(c *components.Cell, cfg *config.Config, rng *random.Stream) {
	mv := &cfg.Movement
	speed := c.Speed(*mv)
	c.RotationChance += mv.RotationIncrement

	margin := cfg.Derived.Margin
	maxX := float64(cfg.World.Width) - margin
	maxY := float64(cfg.World.Height) - margin

	dx := math.Cos(c.Heading) * speed
	dy := math.Sin(c.Heading) * speed
	x, y := c.Position()

	if nx := x + dx; nx < margin || nx > maxX {
		nudgeHeading(c, cfg, rng)
	} else {
		c.X = uint32(clampf(math.Round(nx), margin, maxX))
	}

	if ny := y + dy; ny < margin || ny > maxY {
		nudgeHeading(c, cfg, rng)
	} else {
		c.Y = uint32(clampf(math.Round(ny), margin, maxY))
	}

	if rng.Float64() < c.RotationChance {
		c.Heading = rng.Angle()
		c.RotationChance = 0
	}
}

// nudgeHeading turns the cell by a random angle in [lo, hi) after a wall hit.
func nudgeHeading(c *components.Cell, cfg *config.Config, rng *random.Stream) {
	c.Heading = NormalizeAngle(c.Heading + rng.Between(cfg.Derived.WallNudgeLo, cfg.Derived.WallNudgeHi))
	c.RotationChance += cfg.Movement.WallTurnBonus
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// clampf restricts x to [lo, hi].
func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
