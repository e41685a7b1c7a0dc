// Package simulation owns the population, the food field and the tick loop.
package simulation

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/food"
	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/random"
	"github.com/pthm-cable/cellsim/systems"
)

// Simulator holds the complete state of one simulation instance.
// Step, Configure and Snapshot are serialized by an internal mutex, so a
// viewer may read snapshots while another goroutine drives the ticks.
type Simulator struct {
	mu sync.Mutex

	cfg *config.Config
	rng *random.Stream

	world   *ecs.World
	cellMap *ecs.Map1[components.Cell]
	cells   []ecs.Entity // population in index order
	dead    []bool       // scratch marks, reused across ticks

	field *food.Field
	grid  *systems.MatingGrid

	tick   int32
	births uint64
	deaths uint64
	nextID uint64
}

// Stats is a cheap summary of the simulator state.
type Stats struct {
	Tick             int32
	Population       int
	Births           uint64 // lifetime
	Deaths           uint64 // lifetime
	FoodAvailability float64
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.Tick)),
		slog.Int("population", s.Population),
		slog.Uint64("births", s.Births),
		slog.Uint64("deaths", s.Deaths),
		slog.Float64("food_availability", s.FoodAvailability),
	)
}

// New creates a simulator from cfg seeded with seed. The config is copied;
// later changes go through Configure. The food field starts full and the
// founding cells are scattered inside the wall margin.
func New(cfg *config.Config, seed int64) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("creating simulator: %w: nil config", config.ErrInvalid)
	}
	cfg = cfg.Clone()
	if err := cfg.Refresh(); err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	world := ecs.NewWorld()
	s := &Simulator{
		cfg:     cfg,
		rng:     random.New(seed),
		world:   world,
		cellMap: ecs.NewMap1[components.Cell](world),
		cells:   make([]ecs.Entity, 0, cfg.Population.Initial*4),
		field:   food.NewField(cfg.World.Width, cfg.World.Height, cfg.Food.Spacing),
		grid:    systems.NewMatingGrid(cfg.Reproduction.MatingRadius),
	}

	s.field.Fill()
	for i := 0; i < cfg.Population.Initial; i++ {
		s.spawn(s.founder())
	}

	cols, rows := s.field.Dims()
	slog.Debug("simulator_created",
		"seed", seed,
		"population", len(s.cells),
		"mode", cfg.Reproduction.Mode,
		"food_grid", fmt.Sprintf("%dx%d", cols, rows),
	)
	return s, nil
}

// founder builds one cell of the initial population.
func (s *Simulator) founder() components.Cell {
	cfg := s.cfg
	margin := cfg.Derived.Margin

	x := math.Round(s.rng.Between(margin, float64(cfg.World.Width)-margin))
	y := math.Round(s.rng.Between(margin, float64(cfg.World.Height)-margin))
	g := genes.Initial(cfg.Reproduction.Mode, s.rng)

	c := systems.NewCell(g, uint32(x), uint32(y), cfg.Population.InitialReserve, cfg, s.rng)
	// Jitter to desync the first round of reproduction
	c.Cooldown = s.rng.Bounded(uint32(cfg.Reproduction.Cooldown))
	return c
}

// spawn stores c as a new entity at the end of the population and assigns
// its ID. Pointers previously returned by cellMap.Get may be invalidated.
func (s *Simulator) spawn(c components.Cell) ecs.Entity {
	s.nextID++
	c.ID = s.nextID
	e := s.cellMap.NewEntity(&c)
	s.cells = append(s.cells, e)
	return e
}

// AddCell appends a cell to the population. It is processed from the next
// tick on.
func (s *Simulator) AddCell(c components.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawn(c)
}

// Configure applies partial configuration changes between ticks.
// Invalid values are rejected and leave the simulator untouched.
func (s *Simulator) Configure(o config.Overrides) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.cfg.Apply(o)
	if err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	s.cfg = next
	return nil
}

// Config returns a copy of the active configuration.
func (s *Simulator) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Seed returns the seed of the random stream.
func (s *Simulator) Seed() int64 {
	return s.rng.Seed()
}

// Tick returns the number of completed ticks.
func (s *Simulator) Tick() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Population returns the number of cells.
func (s *Simulator) Population() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

// FoodAvailability returns the occupied fraction of the food grid.
func (s *Simulator) FoodAvailability() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.Availability()
}

// Stats returns a summary of the current state.
func (s *Simulator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Tick:             s.tick,
		Population:       len(s.cells),
		Births:           s.births,
		Deaths:           s.deaths,
		FoodAvailability: s.field.Availability(),
	}
}

// Cell returns a copy of the cell at index.
func (s *Simulator) Cell(index int) (components.Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cells) {
		return components.Cell{}, false
	}
	return *s.cellMap.Get(s.cells[index]), true
}
