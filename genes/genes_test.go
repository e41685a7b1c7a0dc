package genes

import (
	"math"
	"testing"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/random"
)

func TestInitialAsexualIsBaseline(t *testing.T) {
	rng := random.New(1)
	for i := 0; i < 10; i++ {
		if g := Initial(config.Asexual, rng); g != Baseline() {
			t.Fatalf("Initial(asexual) = %+v, want baseline", g)
		}
	}
}

func TestInitialSexualJitter(t *testing.T) {
	rng := random.New(2)
	seen := make(map[Genes]bool)

	for i := 0; i < 200; i++ {
		g := Initial(config.Sexual, rng)
		if g.Size < 27 || g.Size >= 33 {
			t.Errorf("size %v outside [27,33)", g.Size)
		}
		if g.StomachSize < 9 || g.StomachSize >= 11 {
			t.Errorf("stomach %v outside [9,11)", g.StomachSize)
		}
		if g.FlagellumSize < 4.5 || g.FlagellumSize >= 5.5 {
			t.Errorf("flagellum %v outside [4.5,5.5)", g.FlagellumSize)
		}
		if g.GestationSteps < 195 || g.GestationSteps >= 205 {
			t.Errorf("gestation %v outside [195,205)", g.GestationSteps)
		}
		if !g.Valid() {
			t.Errorf("invalid founder genome %+v", g)
		}
		seen[g] = true
	}

	if len(seen) < 2 {
		t.Error("sexual founders show no diversity")
	}
}

func TestCrossoverPicksParentTraitsWithoutMutation(t *testing.T) {
	a := Genes{Size: 30, FlagellumSize: 5, StomachSize: 10, GestationSteps: 200}
	b := Genes{Size: 20, FlagellumSize: 3, StomachSize: 8, GestationSteps: 150}
	rng := random.New(3)

	for i := 0; i < 500; i++ {
		c := Crossover(a, b, Mutation{Chance: 0, PercentChange: 0.1}, rng)
		if c.Size != a.Size && c.Size != b.Size {
			t.Fatalf("size %v not from a parent", c.Size)
		}
		if c.FlagellumSize != a.FlagellumSize && c.FlagellumSize != b.FlagellumSize {
			t.Fatalf("flagellum %v not from a parent", c.FlagellumSize)
		}
		if c.GestationSteps != a.GestationSteps && c.GestationSteps != b.GestationSteps {
			t.Fatalf("gestation %v not from a parent", c.GestationSteps)
		}
	}
}

func TestCrossoverMutationMagnitude(t *testing.T) {
	a := Genes{Size: 30, FlagellumSize: 4, StomachSize: 10, GestationSteps: 200}
	rng := random.New(4)

	// Identical parents and certain mutation: every trait moves by exactly ±10%.
	for i := 0; i < 200; i++ {
		c := Crossover(a, a, Mutation{Chance: 1, PercentChange: 0.1}, rng)
		if d := math.Abs(c.FlagellumSize - a.FlagellumSize); math.Abs(d-0.4) > 1e-9 {
			t.Fatalf("flagellum delta = %v, want 0.4", d)
		}
		if d := math.Abs(c.GestationSteps - a.GestationSteps); math.Abs(d-20) > 1e-9 {
			t.Fatalf("gestation delta = %v, want 20", d)
		}
	}
}

func TestCrossoverInvariants(t *testing.T) {
	tests := []struct {
		name string
		a, b Genes
		m    Mutation
	}{
		{
			name: "baseline self",
			a:    Baseline(),
			b:    Baseline(),
			m:    Mutation{Chance: 0.5, PercentChange: 0.1},
		},
		{
			name: "stomach larger than size in parent",
			a:    Genes{Size: 5, FlagellumSize: 1, StomachSize: 40, GestationSteps: 10},
			b:    Genes{Size: 6, FlagellumSize: 2, StomachSize: 50, GestationSteps: 12},
			m:    Mutation{Chance: 1, PercentChange: 0.5},
		},
		{
			name: "divergent parents with huge mutation",
			a:    Genes{Size: 0.5, FlagellumSize: 0.2, StomachSize: 0.3, GestationSteps: 1},
			b:    Genes{Size: 100, FlagellumSize: 50, StomachSize: 90, GestationSteps: 900},
			m:    Mutation{Chance: 1, PercentChange: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := random.New(5)
			for i := 0; i < 1000; i++ {
				c := Crossover(tt.a, tt.b, tt.m, rng)
				if c.Size <= 0 || c.FlagellumSize <= 0 || c.StomachSize <= 0 || c.GestationSteps <= 0 {
					t.Fatalf("non-positive trait in %+v", c)
				}
				if c.StomachSize > c.Size {
					t.Fatalf("stomach %v exceeds size %v", c.StomachSize, c.Size)
				}
				if !c.Valid() {
					t.Fatalf("invalid child %+v", c)
				}
			}
		})
	}
}

func TestCrossoverDeterministic(t *testing.T) {
	a, b := Baseline(), Genes{Size: 25, FlagellumSize: 6, StomachSize: 9, GestationSteps: 180}
	m := Mutation{Chance: 0.3, PercentChange: 0.1}
	r1, r2 := random.New(11), random.New(11)

	for i := 0; i < 100; i++ {
		if Crossover(a, b, m, r1) != Crossover(a, b, m, r2) {
			t.Fatal("crossover diverged for identical streams")
		}
	}
}
