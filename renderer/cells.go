package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/camera"
	"github.com/pthm-cable/cellsim/simulation"
)

// CellRenderer draws cells as an open-mouthed body with a stomach and a
// beating flagellum.
type CellRenderer struct{}

// NewCellRenderer creates a new cell renderer.
func NewCellRenderer() *CellRenderer {
	return &CellRenderer{}
}

// Draw renders every visible cell.
func (r *CellRenderer) Draw(cam *camera.Camera, snap *simulation.Snapshot, opts Options) {
	for i := range snap.Cells {
		c := &snap.Cells[i]
		wx, wy := float32(c.X), float32(c.Y)
		size := float32(c.Genes.Size)
		flagellum := size / 2 * float32(c.Genes.FlagellumSize)
		if !cam.IsVisible(wx, wy, size+flagellum) {
			continue
		}
		sx, sy := cam.WorldToScreen(wx, wy)
		center := rl.Vector2{X: sx, Y: sy}
		z := cam.Zoom

		// Flagellum under the body
		angle := FlagellumAngle(c.DisplaySeed, snap.Tick)
		tip := rl.Vector2{
			X: sx + flagellum*z*float32(math.Cos(angle)),
			Y: sy + flagellum*z*float32(math.Sin(angle)),
		}
		rl.DrawLineEx(center, tip, max(3*z, 1), ColorFlagellum)

		// Body with the mouth facing the heading
		deg := float32(c.Heading * 180 / math.Pi)
		radius := size * z
		rl.DrawCircleSector(center, radius, deg+36, deg+324, 24, bodyColor(c, opts.Tint))
		rl.DrawCircleSectorLines(center, radius, deg+36, deg+324, 24, ColorMembrane)

		// Stomach
		stomach := float32(c.Genes.StomachSize) * z
		rl.DrawCircleV(center, stomach, StomachColor(c.Fullness))
		rl.DrawCircleLinesV(center, stomach, rl.Black)

		if opts.ShowHeadings {
			end := rl.Vector2{
				X: sx + 2*radius*float32(math.Cos(c.Heading)),
				Y: sy + 2*radius*float32(math.Sin(c.Heading)),
			}
			rl.DrawLineV(center, end, ColorHeading)
		}
	}
}

func bodyColor(c *simulation.CellView, tint Tint) rl.Color {
	switch tint {
	case TintFullness:
		return StomachColor(c.Fullness)
	case TintGeneration:
		return GenerationColor(c.Generation)
	}
	if c.GestationRemaining > 0 {
		return GestationColor(c.GestationRemaining, c.Genes.GestationSteps)
	}
	return BodyColor(c.DisplaySeed)
}
