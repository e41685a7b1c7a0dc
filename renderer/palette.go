// Package renderer draws the food field and the cells in screen space.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Fixed colors
var (
	ColorWater      = rl.Color{R: 26, G: 101, B: 171, A: 255}
	ColorFood       = rl.Color{R: 58, G: 29, B: 0, A: 128}
	ColorLattice    = rl.Color{R: 255, G: 255, B: 255, A: 30}
	ColorBucketLine = rl.Color{R: 255, G: 255, B: 255, A: 40}
	ColorOutline    = rl.White
	ColorMembrane   = rl.Color{R: 100, G: 220, B: 255, A: 255}
	ColorFlagellum  = rl.Color{R: 50, G: 200, B: 255, A: 255}
	ColorHeading    = rl.Color{R: 255, G: 255, B: 0, A: 180}
)

// BodyColor returns a cell's resting color. The display seed spreads cells
// over a band of teal shades.
func BodyColor(seed float64) rl.Color {
	// Decorrelate the channels so cells differ in hue, not just brightness.
	g := math.Mod(seed*7.31, 1)
	b := math.Mod(seed*3.17, 1)
	return rl.Color{
		R: uint8(60 + seed*50),
		G: uint8(150 + g*50),
		B: uint8(150 + b*70),
		A: 255,
	}
}

// GestationColor shifts from green toward blue as birth approaches.
// remaining is the number of gestation ticks left out of steps.
func GestationColor(remaining uint32, steps float64) rl.Color {
	t := 0.0
	if steps > 0 {
		t = math.Min(float64(remaining)/steps, 1)
	}
	a := t * 200
	return rl.Color{R: 0, G: uint8(a), B: uint8(200 - a), A: 255}
}

// StomachColor is black when empty and red when full.
func StomachColor(fullness float64) rl.Color {
	f := math.Max(0, math.Min(fullness, 1))
	return rl.Color{R: uint8(f * 255), A: 255}
}

// GenerationColor cycles through hues so neighbouring generations differ.
func GenerationColor(generation uint32) rl.Color {
	hue := float32(generation%12) * 30
	return rl.ColorFromHSV(hue, 0.7, 0.9)
}

// FlagellumAngle returns the beat direction of a flagellum in radians.
// It advances 30 degrees per tick from a per-cell phase.
func FlagellumAngle(seed float64, tick int32) float64 {
	deg := math.Mod((seed*360+float64(tick))*30, 360)
	return deg * math.Pi / 180
}
