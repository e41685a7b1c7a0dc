package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/camera"
	"github.com/pthm-cable/cellsim/simulation"
)

// foodRadius is the drawn radius of a food item in world units.
const foodRadius = 2.5

// FieldRenderer draws the water, the food and the field outline.
type FieldRenderer struct{}

// NewFieldRenderer creates a new field renderer.
func NewFieldRenderer() *FieldRenderer {
	return &FieldRenderer{}
}

// Draw renders everything below the cells.
func (r *FieldRenderer) Draw(cam *camera.Camera, snap *simulation.Snapshot, opts Options) {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(snap.Width), float32(snap.Height))
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1 - x0, Y: y1 - y0}, ColorWater)

	if opts.ShowLattice {
		r.drawLattice(cam, snap)
	}
	if opts.ShowMatingGrid && opts.MatingRadius > 0 {
		r.drawBuckets(cam, snap, opts.MatingRadius)
	}
	if opts.ShowFood {
		radius := max(foodRadius*cam.Zoom, 1)
		for _, item := range snap.Food {
			wx, wy := float32(item.X), float32(item.Y)
			if !cam.IsVisible(wx, wy, foodRadius) {
				continue
			}
			sx, sy := cam.WorldToScreen(wx, wy)
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, ColorFood)
		}
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, ColorOutline)
}

// drawLattice marks every food slot, occupied or not.
func (r *FieldRenderer) drawLattice(cam *camera.Camera, snap *simulation.Snapshot) {
	s := float32(snap.Spacing)
	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Cols; col++ {
			wx := float32(col)*s + s/2
			wy := float32(row)*s + s/2
			if !cam.IsVisible(wx, wy, 1) {
				continue
			}
			sx, sy := cam.WorldToScreen(wx, wy)
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, ColorLattice)
		}
	}
}

// drawBuckets draws the mating hash boundaries.
func (r *FieldRenderer) drawBuckets(cam *camera.Camera, snap *simulation.Snapshot, radius int) {
	_, top := cam.WorldToScreen(0, 0)
	_, bottom := cam.WorldToScreen(0, float32(snap.Height))
	for x := radius; x < snap.Width; x += radius {
		sx, _ := cam.WorldToScreen(float32(x), 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: top}, rl.Vector2{X: sx, Y: bottom}, ColorBucketLine)
	}
	left, _ := cam.WorldToScreen(0, 0)
	right, _ := cam.WorldToScreen(float32(snap.Width), 0)
	for y := radius; y < snap.Height; y += radius {
		_, sy := cam.WorldToScreen(0, float32(y))
		rl.DrawLineV(rl.Vector2{X: left, Y: sy}, rl.Vector2{X: right, Y: sy}, ColorBucketLine)
	}
}
