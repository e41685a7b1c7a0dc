package simulation

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/systems"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 800, 800
	if err := cfg.Refresh(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

// emptyConfig returns a small world with no founders and no random turning.
// Cells only reach food lying exactly under them.
func emptyConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := smallConfig(t)
	cfg.Population.Initial = 0
	cfg.Food.EatDistanceFactor = 0
	cfg.Movement.RotationIncrement = 0
	cfg.Movement.WallTurnBonus = 0
	return cfg
}

func testCell(x, y uint32) components.Cell {
	return components.Cell{
		X:       x,
		Y:       y,
		Reserve: 5,
		Alive:   true,
		Genes:   genes.Baseline(),
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Food.Spacing = 0

	if _, err := New(cfg, 1); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("New error = %v, want ErrInvalid", err)
	}
	if _, err := New(nil, 1); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("New(nil) error = %v, want ErrInvalid", err)
	}
}

func TestNew_InitialState(t *testing.T) {
	cfg := smallConfig(t)
	sim, err := New(cfg, 230575)
	if err != nil {
		t.Fatal(err)
	}

	snap := sim.Snapshot()
	if snap.Tick != 0 {
		t.Errorf("tick = %d, want 0", snap.Tick)
	}
	if len(snap.Cells) != cfg.Population.Initial {
		t.Fatalf("population = %d, want %d", len(snap.Cells), cfg.Population.Initial)
	}
	if snap.FoodAvailability != 1 {
		t.Errorf("food availability = %v, want full field", snap.FoodAvailability)
	}
	if snap.Cols != 20 || snap.Rows != 20 {
		t.Errorf("grid = %dx%d, want 20x20", snap.Cols, snap.Rows)
	}

	margin := uint32(cfg.Derived.Margin)
	for _, c := range snap.Cells {
		if c.X < margin || c.X > 800-margin || c.Y < margin || c.Y > 800-margin {
			t.Errorf("founder %d at (%d, %d) outside margin", c.Index, c.X, c.Y)
		}
		if c.Genes != genes.Baseline() {
			t.Errorf("asexual founder %d genes = %+v, want baseline", c.Index, c.Genes)
		}
		if c.Reserve != cfg.Population.InitialReserve || !c.Alive {
			t.Errorf("founder %d reserve %v alive %v", c.Index, c.Reserve, c.Alive)
		}
	}
}

func TestNew_DoesNotAliasConfig(t *testing.T) {
	cfg := smallConfig(t)
	sim, err := New(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Food.Density = 1

	if got := sim.Config().Food.Density; got != 240 {
		t.Errorf("density = %d, caller mutation leaked into simulator", got)
	}
}

func TestStep_AdvancesTick(t *testing.T) {
	sim, err := New(smallConfig(t), 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		sim.Step()
	}
	if sim.Tick() != 5 {
		t.Errorf("tick = %d, want 5", sim.Tick())
	}
}

func TestStep_Invariants(t *testing.T) {
	for _, mode := range []config.Mode{config.Asexual, config.Sexual} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := smallConfig(t)
			cfg.Reproduction.Mode = mode
			sim, err := New(cfg, 99)
			if err != nil {
				t.Fatal(err)
			}

			margin := uint32(cfg.Derived.Margin)
			for tick := 0; tick < 600; tick++ {
				sim.Step()
				snap := sim.Snapshot()
				for _, c := range snap.Cells {
					if !c.Alive {
						t.Fatalf("tick %d: dead cell %d survived compaction", snap.Tick, c.Index)
					}
					if c.Reserve > c.Genes.StomachSize {
						t.Fatalf("tick %d: cell %d reserve %v above stomach %v", snap.Tick, c.Index, c.Reserve, c.Genes.StomachSize)
					}
					if !c.Genes.Valid() {
						t.Fatalf("tick %d: cell %d invalid genes %+v", snap.Tick, c.Index, c.Genes)
					}
					if c.X < margin || c.X > 800-margin || c.Y < margin || c.Y > 800-margin {
						t.Fatalf("tick %d: cell %d at (%d, %d) outside margin", snap.Tick, c.Index, c.X, c.Y)
					}
				}
				if snap.FoodAvailability < 0 || snap.FoodAvailability > 1 {
					t.Fatalf("tick %d: availability %v", snap.Tick, snap.FoodAvailability)
				}
			}
		})
	}
}

func TestStep_Deterministic(t *testing.T) {
	run := func() Snapshot {
		cfg := smallConfig(t)
		cfg.Reproduction.Mode = config.Sexual
		sim, err := New(cfg, 42)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 300; i++ {
			sim.Step()
		}
		return sim.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed diverged")
	}
}

func TestScenario_AsexualThousandTicks(t *testing.T) {
	cfg := smallConfig(t)
	sim, err := New(cfg, 230575)
	if err != nil {
		t.Fatal(err)
	}

	var tail float64
	for tick := 1; tick <= 1000; tick++ {
		sim.Step()
		avail := sim.FoodAvailability()
		if avail < 0 || avail > 1 {
			t.Fatalf("tick %d: availability %v", tick, avail)
		}
		if tick > 800 {
			tail += avail
		}
	}
	if sim.Population() < 0 {
		t.Fatalf("population = %d", sim.Population())
	}
	if tail/200 <= 0 {
		t.Error("food drained to zero over the last 200 ticks")
	}
}

func TestScenario_SexualMatingInOneBucket(t *testing.T) {
	cfg := emptyConfig(t)
	cfg.Reproduction.Mode = config.Sexual
	sim, err := New(cfg, 7)
	if err != nil {
		t.Fatal(err)
	}

	sim.AddCell(testCell(400, 400))
	sim.AddCell(testCell(410, 405))
	sim.Step()

	occupant, _ := sim.Cell(0)
	discoverer, _ := sim.Cell(1)

	if !occupant.Gestating() || occupant.PendingChild == nil {
		t.Fatal("occupant should carry the child")
	}
	if discoverer.Gestating() {
		t.Error("discoverer should not be gestating")
	}
	if occupant.GestationRemaining != uint32(genes.BaseGestationSteps) {
		t.Errorf("gestation remaining = %d, want %d", occupant.GestationRemaining, uint32(genes.BaseGestationSteps))
	}

	cooldown := uint32(cfg.Reproduction.Cooldown)
	if occupant.Cooldown != cooldown {
		t.Errorf("occupant cooldown = %d, want %d", occupant.Cooldown, cooldown)
	}
	if discoverer.Cooldown != cooldown {
		t.Errorf("discoverer cooldown = %d, want %d", discoverer.Cooldown, cooldown)
	}
}

func TestSexualMating_LaterDiscovererReimpregnates(t *testing.T) {
	cfg := emptyConfig(t)
	cfg.Reproduction.Mode = config.Sexual
	sim, err := New(cfg, 7)
	if err != nil {
		t.Fatal(err)
	}

	sim.AddCell(testCell(400, 400))
	sim.AddCell(testCell(410, 405))
	sim.AddCell(testCell(415, 415))
	sim.Step()

	occupant, _ := sim.Cell(0)
	second, _ := sim.Cell(1)
	third, _ := sim.Cell(2)

	if !occupant.Gestating() {
		t.Fatal("occupant should carry the child")
	}
	if second.Gestating() || third.Gestating() {
		t.Error("only the occupant should be gestating")
	}
	// Both discoverers impregnated the occupant, so both start a full cooldown.
	cooldown := uint32(cfg.Reproduction.Cooldown)
	if second.Cooldown != cooldown || third.Cooldown != cooldown {
		t.Errorf("discoverer cooldowns = %d, %d, want %d", second.Cooldown, third.Cooldown, cooldown)
	}
	if occupant.GestationRemaining != uint32(genes.BaseGestationSteps) {
		t.Errorf("gestation remaining = %d, want %d", occupant.GestationRemaining, uint32(genes.BaseGestationSteps))
	}
}

func TestAsexual_GestationRestartsWhenCooldownExpires(t *testing.T) {
	cfg := emptyConfig(t)
	cfg.Metabolism.SpeedCost = 0
	cfg.Metabolism.SizeCost = 0
	cfg.Reproduction.PregnancyCost = 0
	sim, err := New(cfg, 9)
	if err != nil {
		t.Fatal(err)
	}

	c := testCell(400, 400)
	c.Genes.GestationSteps = 250 // longer than the 200 tick cooldown
	sim.AddCell(c)

	// Tick 1 starts the pregnancy; 200 ticks later the cooldown has run out.
	sim.StepN(200)
	got, _ := sim.Cell(0)
	if got.Cooldown != 0 || got.GestationRemaining != 50 {
		t.Fatalf("after 200 ticks: cooldown %d gestation %d, want 0 and 50", got.Cooldown, got.GestationRemaining)
	}

	sim.Step()
	got, _ = sim.Cell(0)
	if got.GestationRemaining != 249 {
		t.Errorf("gestation remaining = %d, want restarted 249", got.GestationRemaining)
	}
	if got.Cooldown != uint32(cfg.Reproduction.Cooldown)-1 {
		t.Errorf("cooldown = %d, want %d", got.Cooldown, cfg.Reproduction.Cooldown-1)
	}
	if sim.Population() != 1 {
		t.Errorf("population = %d, want 1", sim.Population())
	}
}

func TestScenario_FoodUnderCell(t *testing.T) {
	cfg := emptyConfig(t)
	sim, err := New(cfg, 8)
	if err != nil {
		t.Fatal(err)
	}

	c := testCell(60, 100) // food item at (60, 100)
	c.Cooldown = 50        // keep it from gestating this tick
	sim.AddCell(c)
	sim.Step()

	got, ok := sim.Cell(0)
	if !ok {
		t.Fatal("cell vanished")
	}
	want := math.Min(5+cfg.Food.EatAmount, c.Genes.StomachSize) - systems.MetabolicCost(c.Genes, cfg)
	if math.Abs(got.Reserve-want) > 1e-12 {
		t.Errorf("reserve = %v, want %v", got.Reserve, want)
	}

	snap := sim.Snapshot()
	for _, item := range snap.Food {
		if item.X == 60 && item.Y == 100 {
			t.Error("eaten food item still on the field")
		}
	}
}

func TestStep_RemovesDeadPreservingOrder(t *testing.T) {
	cfg := emptyConfig(t)
	sim, err := New(cfg, 9)
	if err != nil {
		t.Fatal(err)
	}

	for i, reserve := range []float64{5, 0.001, 5, 5} {
		c := testCell(300+uint32(i)*100, 510) // off the food grid
		c.Reserve = reserve
		c.Cooldown = 50
		c.Generation = uint32(i)
		sim.AddCell(c)
	}
	dead := testCell(700, 700)
	dead.Alive = false
	dead.Generation = 9
	sim.AddCell(dead)

	sim.Step()

	snap := sim.Snapshot()
	var gens []uint32
	for _, c := range snap.Cells {
		gens = append(gens, c.Generation)
	}
	if !reflect.DeepEqual(gens, []uint32{0, 2, 3}) {
		t.Errorf("survivors = %v, want [0 2 3]", gens)
	}
	if st := sim.Stats(); st.Deaths != 2 || st.Population != 3 {
		t.Errorf("stats = %+v, want 2 deaths and 3 cells", st)
	}
}

func TestStep_NewbornAppendedUnprocessed(t *testing.T) {
	cfg := emptyConfig(t)
	cfg.Reproduction.BirthFactor = 1
	sim, err := New(cfg, 10)
	if err != nil {
		t.Fatal(err)
	}

	parent := testCell(400, 400)
	parent.Cooldown = 50
	parent.GestationRemaining = 1
	pending := genes.Baseline()
	parent.PendingChild = &pending
	parent.Generation = 2
	sim.AddCell(parent)
	sim.AddCell(testCell(200, 200))

	sim.Step()

	if sim.Population() != 3 {
		t.Fatalf("population = %d, want 3", sim.Population())
	}
	p, _ := sim.Cell(0)
	child, _ := sim.Cell(2)
	if child.Born != 1 || child.Generation != 3 {
		t.Errorf("child born %d generation %d, want 1 and 3", child.Born, child.Generation)
	}
	if child.X != p.X || child.Y != p.Y {
		t.Errorf("child at (%d, %d), parent at (%d, %d)", child.X, child.Y, p.X, p.Y)
	}
	// Not yet updated: full newborn reserve and untouched cooldown.
	if child.Reserve != cfg.Population.NewbornReserve {
		t.Errorf("child reserve = %v, want %v", child.Reserve, cfg.Population.NewbornReserve)
	}
	if child.Cooldown != uint32(cfg.Reproduction.Cooldown) {
		t.Errorf("child cooldown = %d, want %d", child.Cooldown, cfg.Reproduction.Cooldown)
	}
	if sim.Stats().Births != 1 {
		t.Errorf("births = %d, want 1", sim.Stats().Births)
	}
}

func TestConfigure(t *testing.T) {
	sim, err := New(smallConfig(t), 11)
	if err != nil {
		t.Fatal(err)
	}

	bad := 0
	if err := sim.Configure(config.Overrides{FoodDensity: &bad}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("Configure error = %v, want ErrInvalid", err)
	}
	if sim.Config().Food.Density != 240 {
		t.Error("rejected override was applied")
	}

	density := 60
	mode := config.Sexual
	if err := sim.Configure(config.Overrides{FoodDensity: &density, Reproduction: &mode}); err != nil {
		t.Fatalf("Configure error: %v", err)
	}
	snap := sim.Snapshot()
	if snap.FoodDensity != 60 || snap.Mode != config.Sexual {
		t.Errorf("snapshot density %d mode %q after Configure", snap.FoodDensity, snap.Mode)
	}
}

func TestStepN_StopsOnExtinction(t *testing.T) {
	cfg := emptyConfig(t)
	sim, err := New(cfg, 12)
	if err != nil {
		t.Fatal(err)
	}
	c := testCell(400, 400) // off the food grid
	c.Reserve = 0.03
	c.Cooldown = 50
	sim.AddCell(c)

	// 0.03 covers one tick of metabolism, the cell starves on the second.
	if ran := sim.StepN(100); ran != 2 {
		t.Errorf("StepN ran %d ticks, want 2", ran)
	}
	if sim.Population() != 0 {
		t.Errorf("population = %d, want 0", sim.Population())
	}
}
