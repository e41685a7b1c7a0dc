package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/renderer"
	"github.com/pthm-cable/cellsim/telemetry"
	"github.com/pthm-cable/cellsim/ui"
)

const controlsLegend = "[Space] pause  [S] step  [,/.] speed  [E] export  [Tab] panel  [G] history  [P] perf  [Arrows/Wheel] camera  [Home] reset"

// Draw renders the frame and closes the perf sample opened by Update.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	opts := g.renderOptions()
	g.fieldRenderer.Draw(g.camera, &g.snap, opts)
	g.cellRenderer.Draw(g.camera, &g.snap, opts)
	g.inspector.DrawSelectionHighlight(g.camera, &g.snap)

	g.drawUI()

	rl.EndDrawing()
	g.perf.End(g.pendingTicks)
}

// renderOptions maps the enabled overlays onto renderer options.
func (g *Game) renderOptions() renderer.Options {
	opts := renderer.Options{
		ShowFood:       g.overlays.IsEnabled(ui.OverlayFood),
		ShowLattice:    g.overlays.IsEnabled(ui.OverlayFoodLattice),
		ShowMatingGrid: g.overlays.IsEnabled(ui.OverlayMatingGrid),
		ShowHeadings:   g.overlays.IsEnabled(ui.OverlayHeadings),
		MatingRadius:   g.sim.Config().Reproduction.MatingRadius,
	}
	switch {
	case g.overlays.IsEnabled(ui.OverlayFullness):
		opts.Tint = renderer.TintFullness
	case g.overlays.IsEnabled(ui.OverlayGeneration):
		opts.Tint = renderer.TintGeneration
	}
	return opts
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	st := g.sim.Stats()
	gestating := 0
	for i := range g.snap.Cells {
		if g.snap.Cells[i].GestationRemaining > 0 {
			gestating++
		}
	}

	status := ""
	if g.statusFrames > 0 {
		status = g.status
	}
	g.hud.Draw(ui.HUDData{
		Title:            "Cell Evolution",
		Tick:             st.Tick,
		Population:       st.Population,
		Gestating:        gestating,
		Births:           st.Births,
		Deaths:           st.Deaths,
		FoodAvailability: st.FoodAvailability,
		FoodDensity:      g.snap.FoodDensity,
		Mode:             g.snap.Mode,
		Speed:            g.stepsPerUpdate,
		FPS:              rl.GetFPS(),
		Paused:           g.paused,
		Extinct:          g.extinct,
		Status:           status,
	}, int32(g.width))
	g.hud.DrawControls(int32(g.height), controlsLegend)

	g.panelActions = g.controls.Draw(ui.ControlState{
		Paused:      g.paused,
		FoodDensity: g.snap.FoodDensity,
		Mode:        g.snap.Mode,
		Speed:       g.stepsPerUpdate,
	}, g.overlays)

	g.history.Draw()
	g.perfPanel.Draw(g.perf.Stats())
	g.inspector.Draw()

	if g.extinct {
		msg := fmt.Sprintf("Extinct at tick %d", st.Tick)
		w := rl.MeasureText(msg, 40)
		rl.DrawText(msg, int32(g.width)/2-w/2, int32(g.height)/2-20, 40, rl.Red)
	}
}
