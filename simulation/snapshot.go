package simulation

import (
	"math"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/food"
	"github.com/pthm-cable/cellsim/genes"
)

// CellView is the read-only view of one cell handed to renderers and
// exporters.
type CellView struct {
	Index              int
	ID                 uint64
	X, Y               uint32
	Heading            float64
	Genes              genes.Genes
	GestationRemaining uint32
	GestationProgress  float64
	Alive              bool
	DisplaySeed        float64
	Fullness           float64
	Reserve            float64
	Cooldown           uint32
	Generation         uint32
	Born               int32
}

// Snapshot is a copy of the simulator state at the end of a tick.
type Snapshot struct {
	Tick             int32
	Width, Height    int
	Mode             config.Mode
	FoodDensity      int
	Cells            []CellView
	Food             []food.Item
	Cols, Rows       int
	Spacing          int
	FoodAvailability float64
}

// Snapshot copies the current state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, rows := s.field.Dims()
	snap := Snapshot{
		Tick:             s.tick,
		Width:            s.cfg.World.Width,
		Height:           s.cfg.World.Height,
		Mode:             s.cfg.Reproduction.Mode,
		FoodDensity:      s.cfg.Food.Density,
		Cells:            make([]CellView, len(s.cells)),
		Food:             s.field.Items(),
		Cols:             cols,
		Rows:             rows,
		Spacing:          s.field.Spacing(),
		FoodAvailability: s.field.Availability(),
	}

	for i, e := range s.cells {
		c := s.cellMap.Get(e)
		snap.Cells[i] = CellView{
			Index:              i,
			ID:                 c.ID,
			X:                  c.X,
			Y:                  c.Y,
			Heading:            c.Heading,
			Genes:              c.Genes,
			GestationRemaining: c.GestationRemaining,
			GestationProgress:  c.GestationProgress(),
			Alive:              c.Alive,
			DisplaySeed:        c.DisplaySeed,
			Fullness:           c.Fullness(),
			Reserve:            c.Reserve,
			Cooldown:           c.Cooldown,
			Generation:         c.Generation,
			Born:               c.Born,
		}
	}
	return snap
}

// Genomes returns the genes of every cell in index order.
func (snap *Snapshot) Genomes() []genes.Genes {
	out := make([]genes.Genes, len(snap.Cells))
	for i := range snap.Cells {
		out[i] = snap.Cells[i].Genes
	}
	return out
}

// Find returns the cell with the given ID.
func (snap *Snapshot) Find(id uint64) (CellView, bool) {
	for i := range snap.Cells {
		if snap.Cells[i].ID == id {
			return snap.Cells[i], true
		}
	}
	return CellView{}, false
}

// CellAt returns the cell whose body covers (x, y), preferring the closest
// centre when bodies overlap. slack widens every body radius.
func (snap *Snapshot) CellAt(x, y, slack float64) (CellView, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i := range snap.Cells {
		c := &snap.Cells[i]
		dx := float64(c.X) - x
		dy := float64(c.Y) - y
		d := dx*dx + dy*dy
		r := c.Genes.Size + slack
		if d <= r*r && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return CellView{}, false
	}
	return snap.Cells[best], true
}
