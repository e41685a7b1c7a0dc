package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title            string
	Tick             int32
	Population       int
	Gestating        int
	Births           uint64
	Deaths           uint64
	FoodAvailability float64
	FoodDensity      int
	Mode             config.Mode
	Speed            int
	FPS              int32
	Paused           bool
	Extinct          bool
	Status           string // transient message, e.g. the last export path
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD along the top edge of the screen.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	x := screenWidth/2 - 220
	rl.DrawText(data.Title, x, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Cells: %d (%d gestating) | Born: %d | Died: %d",
			data.Tick, data.Population, data.Gestating, data.Births, data.Deaths),
		x, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Food: %.1f%% | Density: 1/%d | Mode: %s | Speed: %dx | FPS: %d",
			data.FoodAvailability*100, data.FoodDensity, data.Mode, data.Speed, data.FPS),
		x, 55, 16, rl.LightGray,
	)

	switch {
	case data.Extinct:
		rl.DrawText("EXTINCT", x, 75, 16, rl.Red)
	case data.Paused:
		rl.DrawText("PAUSED", x, 75, 16, rl.Yellow)
	default:
		rl.DrawText("Running", x, 75, 16, rl.Green)
	}
	if data.Status != "" {
		rl.DrawText(data.Status, x+100, 75, 16, rl.SkyBlue)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	visible  bool
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *PerfPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	if !p.visible {
		return
	}
	r := p.renderer
	width, height := int32(240), int32(40+16*(len(stats.PhasePct)+2))
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Loop: %s (max %s)", stats.AvgDuration.Round(time.Microsecond), stats.MaxDuration.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Ticks/s: %.0f", stats.TicksPerSecond), x, y, 12, rl.LightGray)
	y += 16

	for i, pct := range stats.PhasePct {
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", telemetry.Phase(i), pct), x, y, 12, color)
		y += 16
	}
}
