// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
)

// Cell is the complete state of one organism. It is stored as a single ark
// component; the simulator keeps the population order separately.
type Cell struct {
	ID      uint64  `inspect:"label"` // assigned by the simulator, never reused
	X       uint32  `inspect:"label"`
	Y       uint32  `inspect:"label"`
	Heading float64 `inspect:"angle"` // radians

	// Probability of a random turn this tick; ratchets up until a turn happens.
	RotationChance float64 `inspect:"bar,max:0.2"`

	Reserve float64 `inspect:"label,fmt:%.2f"` // food in stomach
	Alive   bool    `inspect:"bool"`

	Cooldown           uint32       `inspect:"label"` // ticks until mating is allowed again
	GestationRemaining uint32       `inspect:"label"` // 0 unless carrying a child
	PendingChild       *genes.Genes `inspect:"skip"`

	Genes genes.Genes `inspect:"inline"`

	DisplaySeed float64 `inspect:"skip"` // rendering variation only
	Generation  uint32  `inspect:"label"`
	Born        int32   `inspect:"label"` // tick of birth, 0 for founders
}

// Speed returns the distance covered per tick.
func (c *Cell) Speed(m config.MovementConfig) float64 {
	return Speed(c.Genes, m)
}

// Speed returns the per-tick distance a genome swims.
func Speed(g genes.Genes, m config.MovementConfig) float64 {
	return g.FlagellumSize*m.FlagellumFactor + g.StomachSize*m.StomachFactor
}

// Fullness returns Reserve / StomachSize in [0, 1].
func (c *Cell) Fullness() float64 {
	if c.Genes.StomachSize <= 0 {
		return 0
	}
	f := c.Reserve / c.Genes.StomachSize
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Gestating reports whether the cell is carrying a child.
func (c *Cell) Gestating() bool {
	return c.GestationRemaining > 0
}

// GestationProgress returns how far along the pregnancy is, 0 when not
// gestating and approaching 1 near birth.
func (c *Cell) GestationProgress() float64 {
	if c.GestationRemaining == 0 || c.Genes.GestationSteps <= 0 {
		return 0
	}
	p := 1 - float64(c.GestationRemaining)/c.Genes.GestationSteps
	if p < 0 {
		return 0
	}
	return p
}

// Position returns the cell position as floats.
func (c *Cell) Position() (x, y float64) {
	return float64(c.X), float64(c.Y)
}
