package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/telemetry"
	"github.com/pthm-cable/cellsim/ui"
)

// statusDuration is how many frames a status message stays on the HUD.
const statusDuration = 180

// Update runs one graphical frame: input, ticks, snapshot and telemetry.
// Draw must follow, it closes the frame's perf sample.
func (g *Game) Update() {
	g.perf.Start()
	g.handleInput()

	ticks := 0
	if !g.paused || g.stepOnce {
		n := g.stepsPerUpdate
		if g.paused {
			n = 1
		}
		g.perf.StartPhase(telemetry.PhaseStep)
		ticks = g.sim.StepN(n)
		g.stepOnce = false
	}

	g.perf.StartPhase(telemetry.PhaseSnapshot)
	g.snap = g.sim.Snapshot()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.afterTicks(ticks)
	g.refreshSelection()

	g.pendingTicks = ticks
	if g.statusFrames > 0 {
		g.statusFrames--
	}
}

// UpdateHeadless runs StepsPerUpdate ticks without any rendering.
func (g *Game) UpdateHeadless() {
	g.perf.Start()
	g.perf.StartPhase(telemetry.PhaseStep)
	ticks := g.sim.StepN(g.stepsPerUpdate)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.afterTicks(ticks)
	g.perf.End(ticks)
}

// afterTicks flushes telemetry and detects extinction.
func (g *Game) afterTicks(ticks int) {
	if ticks > 0 {
		g.flushTelemetry(false)
	}
	if g.extinct || g.sim.Population() > 0 {
		return
	}

	g.extinct = true
	slog.Warn("population extinct", "tick", g.sim.Tick())
	// The tick no longer advances, so close the partial window now.
	g.flushTelemetry(true)
	g.setStatus("population extinct")
}

// refreshSelection updates the inspector from the latest state.
func (g *Game) refreshSelection() {
	if g.inspector == nil {
		return
	}
	id, ok := g.inspector.Selected()
	if !ok {
		return
	}
	view, found := g.snap.Find(id)
	if !found {
		g.inspector.Update(components.Cell{}, false)
		return
	}
	cell, ok := g.sim.Cell(view.Index)
	g.inspector.Update(cell, ok)
}

// applyActions carries out what the control panel reported.
func (g *Game) applyActions(a ui.ControlActions) {
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.Step {
		g.paused = true
		g.stepOnce = true
	}
	if a.SlowDown {
		g.stepsPerUpdate = clampSteps(g.stepsPerUpdate / 2)
	}
	if a.SpeedUp {
		g.stepsPerUpdate = clampSteps(g.stepsPerUpdate * 2)
	}
	if a.FoodDensity != nil || a.Mode != nil {
		g.configure(config.Overrides{FoodDensity: a.FoodDensity, Reproduction: a.Mode})
	}
	if a.Export {
		g.exportCells()
	}
}

// configure applies live parameter changes and reports the outcome.
func (g *Game) configure(o config.Overrides) {
	if err := g.sim.Configure(o); err != nil {
		slog.Error("configure rejected", "error", err)
		g.setStatus("rejected: " + err.Error())
		return
	}
	cfg := g.sim.Config()
	slog.Info("configured",
		"tick", g.sim.Tick(),
		"food_density", cfg.Food.Density,
		"mode", cfg.Reproduction.Mode,
	)
}

// exportCells writes the current population to the output directory.
func (g *Game) exportCells() {
	if g.output == nil {
		g.setStatus("export disabled, run with -output-dir")
		return
	}
	snap := g.sim.Snapshot()
	path, err := g.output.WriteCells(&snap)
	switch {
	case errors.Is(err, telemetry.ErrExtinct):
		g.setStatus("nothing to export, population extinct")
	case err != nil:
		slog.Error("failed to export cells", "error", err)
		g.setStatus("export failed")
	default:
		slog.Info("cells exported", "path", path, "tick", snap.Tick, "cells", len(snap.Cells))
		g.setStatus(fmt.Sprintf("exported %s", path))
	}
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusFrames = statusDuration
}
