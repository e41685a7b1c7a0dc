package simulation

import (
	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/systems"
)

// Step advances the simulation by one tick.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

// StepN advances the simulation by n ticks, stopping early once the
// population is extinct. Returns the number of ticks run.
func (s *Simulator) StepN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		if len(s.cells) == 0 {
			return i
		}
		s.step()
	}
	return n
}

// step runs one tick. Only the cells present at the start of the tick are
// processed; newborns are appended behind them and wait for the next tick.
// Cells found dead are marked and removed together at the end.
func (s *Simulator) step() {
	cfg := s.cfg
	s.tick++

	s.field.SpawnPass(cfg.Food.Density, s.rng)
	s.grid.Clear()

	n := len(s.cells)
	s.resetMarks(n)

	for i := 0; i < n; i++ {
		c := s.cellMap.Get(s.cells[i])
		if !c.Alive {
			s.dead[i] = true
			continue
		}

		systems.Feed(c, s.field, cfg)
		paired := s.mate(c, i)

		child := systems.UpdateCell(c, cfg, s.rng)
		if child != nil {
			child.Born = s.tick
			s.spawn(*child)
			s.births++
			c = s.cellMap.Get(s.cells[i])
		}
		// A discoverer ends the tick with a full cooldown.
		if paired {
			systems.ResetCooldown(c, cfg)
		}

		if !c.Alive {
			s.dead[i] = true
		}
	}

	s.removeMarked()
}

// mate runs the mode-specific reproduction trigger for the cell at index.
// Reports whether the cell impregnated another cell this tick.
func (s *Simulator) mate(c *components.Cell, index int) bool {
	cfg := s.cfg
	switch cfg.Reproduction.Mode {
	case config.Asexual:
		if c.Cooldown == 0 {
			systems.StartGestation(c, c.Genes, cfg, s.rng)
		}
	case config.Sexual:
		partner, ok := systems.AttemptMate(c, index, s.grid, cfg)
		if !ok {
			return false
		}
		// The cell already in the bucket carries the child.
		occupant := s.cellMap.Get(s.cells[partner])
		return systems.StartGestation(occupant, c.Genes, cfg, s.rng)
	}
	return false
}

func (s *Simulator) resetMarks(n int) {
	if cap(s.dead) < n {
		s.dead = make([]bool, n)
		return
	}
	s.dead = s.dead[:n]
	clear(s.dead)
}

// removeMarked drops every marked cell in one order-preserving pass and
// releases its entity.
func (s *Simulator) removeMarked() {
	kept := s.cells[:0]
	for i, e := range s.cells {
		if i < len(s.dead) && s.dead[i] {
			s.world.RemoveEntity(e)
			s.deaths++
			continue
		}
		kept = append(kept, e)
	}
	s.cells = kept
}
