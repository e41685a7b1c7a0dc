package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/random"
)

func TestStartGestation(t *testing.T) {
	cfg := config.Default()
	rng := random.New(10)
	c := liveCell(100, 100, 0)

	if !StartGestation(&c, c.Genes, cfg, rng) {
		t.Fatal("StartGestation refused a healthy cell")
	}
	if c.GestationRemaining != 200 {
		t.Errorf("gestation remaining = %d, want 200", c.GestationRemaining)
	}
	if c.Cooldown != uint32(cfg.Reproduction.Cooldown) {
		t.Errorf("cooldown = %d, want %d", c.Cooldown, cfg.Reproduction.Cooldown)
	}
	if c.PendingChild == nil || !c.PendingChild.Valid() {
		t.Fatalf("pending child = %+v, want valid genes", c.PendingChild)
	}
}

func TestStartGestation_DeadCellRefuses(t *testing.T) {
	cfg := config.Default()
	rng := random.New(11)

	dead := liveCell(100, 100, 0)
	dead.Alive = false
	if StartGestation(&dead, dead.Genes, cfg, rng) {
		t.Error("dead cell became pregnant")
	}
	if dead.PendingChild != nil || dead.GestationRemaining != 0 || dead.Cooldown != 0 {
		t.Errorf("refused gestation modified the cell: %+v", dead)
	}
}

func TestStartGestation_RestartsPregnancy(t *testing.T) {
	cfg := config.Default()
	rng := random.New(11)

	pregnant := liveCell(100, 100, 0)
	StartGestation(&pregnant, pregnant.Genes, cfg, rng)
	pregnant.GestationRemaining = 50
	pregnant.Cooldown = 0
	first := pregnant.PendingChild

	if !StartGestation(&pregnant, genes.Baseline(), cfg, rng) {
		t.Fatal("gestating cell refused a new pregnancy")
	}
	if pregnant.PendingChild == first {
		t.Error("pending child not replaced")
	}
	if pregnant.GestationRemaining != 200 {
		t.Errorf("gestation remaining = %d, want restarted 200", pregnant.GestationRemaining)
	}
	if pregnant.Cooldown != uint32(cfg.Reproduction.Cooldown) {
		t.Errorf("cooldown = %d, want reset", pregnant.Cooldown)
	}
}

func TestGestationTicks(t *testing.T) {
	tests := []struct {
		steps float64
		want  uint32
	}{
		{200, 200},
		{199.6, 200},
		{0.2, 1},
		{1, 1},
	}
	for _, tt := range tests {
		if got := gestationTicks(tt.steps); got != tt.want {
			t.Errorf("gestationTicks(%v) = %d, want %d", tt.steps, got, tt.want)
		}
	}
}

func TestProgressReproduction_PregnancyCost(t *testing.T) {
	cfg := config.Default()
	rng := random.New(12)
	c := liveCell(100, 100, 0)
	StartGestation(&c, c.Genes, cfg, rng)

	if child := progressReproduction(&c, cfg, rng); child != nil {
		t.Fatal("birth on the first gestating tick")
	}
	if c.GestationRemaining != 199 {
		t.Errorf("gestation remaining = %d, want 199", c.GestationRemaining)
	}
	if c.Cooldown != uint32(cfg.Reproduction.Cooldown)-1 {
		t.Errorf("cooldown = %d, want %d", c.Cooldown, cfg.Reproduction.Cooldown-1)
	}
	if math.Abs(c.Reserve-(5-cfg.Reproduction.PregnancyCost)) > 1e-12 {
		t.Errorf("reserve = %v, want %v", c.Reserve, 5-cfg.Reproduction.PregnancyCost)
	}
}

func TestProgressReproduction_Birth(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.BirthFactor = 1 // cbrt(200) > 1, birth always succeeds
	rng := random.New(13)

	c := liveCell(321, 123, 0)
	c.Generation = 4
	c.GestationRemaining = 1
	pending := genes.Genes{Size: 28, FlagellumSize: 6, StomachSize: 3, GestationSteps: 190}
	c.PendingChild = &pending

	child := progressReproduction(&c, cfg, rng)
	if child == nil {
		t.Fatal("expected a birth")
	}
	if c.PendingChild != nil || c.Gestating() {
		t.Error("parent still pregnant after birth")
	}
	if child.X != 321 || child.Y != 123 {
		t.Errorf("child at (%d, %d), want parent position", child.X, child.Y)
	}
	if child.Genes != pending {
		t.Errorf("child genes = %+v, want %+v", child.Genes, pending)
	}
	if child.Reserve != 3 {
		t.Errorf("child reserve = %v, want capped at stomach 3", child.Reserve)
	}
	if child.Generation != 5 || !child.Alive {
		t.Errorf("child generation %d alive %v", child.Generation, child.Alive)
	}
	if child.Cooldown != uint32(cfg.Reproduction.Cooldown) {
		t.Errorf("child cooldown = %d, want %d", child.Cooldown, cfg.Reproduction.Cooldown)
	}
	wantReserve := 5 - cfg.Reproduction.PregnancyCost - cfg.Reproduction.ChildbirthCost
	if math.Abs(c.Reserve-wantReserve) > 1e-12 {
		t.Errorf("parent reserve = %v, want %v", c.Reserve, wantReserve)
	}
}

func TestProgressReproduction_Stillbirth(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.BirthFactor = 0
	rng := random.New(14)

	c := liveCell(100, 100, 0)
	c.GestationRemaining = 1
	pending := genes.Baseline()
	c.PendingChild = &pending

	if child := progressReproduction(&c, cfg, rng); child != nil {
		t.Fatal("birth with zero probability")
	}
	if c.PendingChild != nil {
		t.Error("pending child not cleared")
	}
	wantReserve := 5 - cfg.Reproduction.PregnancyCost - cfg.Reproduction.ChildbirthCost
	if math.Abs(c.Reserve-wantReserve) > 1e-12 {
		t.Errorf("reserve = %v, want %v", c.Reserve, wantReserve)
	}
}

func TestBirthProbability(t *testing.T) {
	cfg := config.Default()
	g := genes.Baseline()
	g.GestationSteps = 125
	if got := BirthProbability(g, cfg); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("BirthProbability = %v, want 0.9", got)
	}
}

func TestNewCell(t *testing.T) {
	cfg := config.Default()
	rng := random.New(15)
	c := NewCell(genes.Baseline(), 50, 60, 50, cfg, rng)

	if !c.Alive || c.X != 50 || c.Y != 60 {
		t.Errorf("NewCell = %+v", c)
	}
	if c.Reserve != genes.BaseStomachSize {
		t.Errorf("reserve = %v, want capped %v", c.Reserve, genes.BaseStomachSize)
	}
	if c.Heading < 0 || c.Heading >= 2*math.Pi {
		t.Errorf("heading %v out of range", c.Heading)
	}
}

// ---------- Mating ----------

func TestAttemptMate_AsexualNeverPairs(t *testing.T) {
	cfg := config.Default()
	grid := NewMatingGrid(cfg.Reproduction.MatingRadius)
	a := liveCell(100, 100, 0)
	b := liveCell(101, 101, 0)

	AttemptMate(&a, 0, grid, cfg)
	if _, ok := AttemptMate(&b, 1, grid, cfg); ok {
		t.Error("asexual mode paired two cells")
	}
	if grid.Len() != 0 {
		t.Errorf("asexual mode registered %d buckets", grid.Len())
	}
}

func TestAttemptMate_SameBucket(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Mode = config.Sexual
	grid := NewMatingGrid(cfg.Reproduction.MatingRadius)

	a := liveCell(100, 100, 0)
	b := liveCell(110, 70, 0)

	if _, ok := AttemptMate(&a, 0, grid, cfg); ok {
		t.Fatal("first cell found a partner in an empty grid")
	}
	partner, ok := AttemptMate(&b, 1, grid, cfg)
	if !ok || partner != 0 {
		t.Fatalf("AttemptMate = (%d, %v), want (0, true)", partner, ok)
	}
	if a.Cooldown != 0 || b.Cooldown != 0 {
		t.Errorf("AttemptMate touched cooldowns: occupant %d discoverer %d", a.Cooldown, b.Cooldown)
	}
}

func TestAttemptMate_Skips(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Mode = config.Sexual
	grid := NewMatingGrid(cfg.Reproduction.MatingRadius)

	a := liveCell(100, 100, 0)
	AttemptMate(&a, 0, grid, cfg)

	cooling := liveCell(100, 100, 0)
	cooling.Cooldown = 3
	if _, ok := AttemptMate(&cooling, 1, grid, cfg); ok {
		t.Error("cell on cooldown paired")
	}

	elsewhere := liveCell(500, 500, 0)
	if _, ok := AttemptMate(&elsewhere, 2, grid, cfg); ok {
		t.Error("cell in a different bucket paired")
	}

	if _, ok := AttemptMate(&a, 0, grid, cfg); ok {
		t.Error("cell paired with itself")
	}
}

func TestMatingGrid(t *testing.T) {
	g := NewMatingGrid(60)

	if _, found := g.Register(3, 59, 59); found {
		t.Fatal("empty bucket reported an occupant")
	}
	if idx, found := g.Register(7, 0, 0); !found || idx != 3 {
		t.Errorf("Register = (%d, %v), want (3, true)", idx, found)
	}
	if _, found := g.Register(8, 60, 59); found {
		t.Error("x=60 should fall in the next bucket")
	}
	if idx, ok := g.occupant(10, 10); !ok || idx != 3 {
		t.Errorf("occupant = (%d, %v), want first registrant 3", idx, ok)
	}

	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len after Clear = %d", g.Len())
	}
}
