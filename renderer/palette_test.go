package renderer

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/simulation"
)

func TestGestationColor(t *testing.T) {
	tests := []struct {
		name      string
		remaining uint32
		steps     float64
		want      rl.Color
	}{
		{"just conceived", 200, 200, rl.Color{G: 200, A: 255}},
		{"halfway", 100, 200, rl.Color{G: 100, B: 100, A: 255}},
		{"about to give birth", 0, 200, rl.Color{B: 200, A: 255}},
		{"remaining above steps", 300, 200, rl.Color{G: 200, A: 255}},
		{"zero steps", 5, 0, rl.Color{B: 200, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GestationColor(tt.remaining, tt.steps); got != tt.want {
				t.Errorf("GestationColor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStomachColor(t *testing.T) {
	if got := StomachColor(1); got.R != 255 {
		t.Errorf("full R = %d, want 255", got.R)
	}
	if got := StomachColor(-1); got.R != 0 {
		t.Errorf("negative fullness R = %d, want 0", got.R)
	}
	if got := StomachColor(2); got.R != 255 {
		t.Errorf("overfull R = %d, want 255", got.R)
	}
}

func TestBodyColor_Range(t *testing.T) {
	for _, seed := range []float64{0, 0.25, 0.5, 0.999} {
		c := BodyColor(seed)
		if c.R < 60 || c.R > 110 || c.G < 150 || c.G > 200 || c.B < 150 {
			t.Errorf("BodyColor(%v) = %+v out of band", seed, c)
		}
	}
}

func TestFlagellumAngle(t *testing.T) {
	if got := FlagellumAngle(0, 0); got != 0 {
		t.Errorf("angle(0, 0) = %v, want 0", got)
	}
	// 30 degrees per tick
	if got := FlagellumAngle(0, 1); math.Abs(got-math.Pi/6) > 1e-12 {
		t.Errorf("angle(0, 1) = %v, want pi/6", got)
	}
	// Wraps after 12 ticks
	if got := FlagellumAngle(0, 12); math.Abs(got) > 1e-9 {
		t.Errorf("angle(0, 12) = %v, want 0", got)
	}
}

func TestBodyColor_Tint(t *testing.T) {
	c := simulation.CellView{
		Genes:              genes.Baseline(),
		GestationRemaining: 50,
		Fullness:           1,
		Generation:         3,
	}
	if got := bodyColor(&c, TintNone); got != GestationColor(50, 200) {
		t.Errorf("gestating body = %+v", got)
	}
	if got := bodyColor(&c, TintFullness); got != StomachColor(1) {
		t.Errorf("fullness tint = %+v", got)
	}
	if got := bodyColor(&c, TintGeneration); got != GenerationColor(3) {
		t.Errorf("generation tint = %+v", got)
	}
	c.GestationRemaining = 0
	if got := bodyColor(&c, TintNone); got != BodyColor(0) {
		t.Errorf("resting body = %+v", got)
	}
}
