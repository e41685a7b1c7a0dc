package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/ui"
)

// handleInput processes keyboard and mouse input, plus the control panel
// actions reported by the previous Draw.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	actions := g.panelActions
	g.panelActions = ui.ControlActions{}

	if rl.IsKeyPressed(rl.KeySpace) {
		actions.TogglePause = !actions.TogglePause
	}
	if rl.IsKeyPressed(rl.KeyS) {
		actions.Step = true
	}
	if rl.IsKeyPressed(rl.KeyE) {
		actions.Export = true
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		actions.SlowDown = true
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		actions.SpeedUp = true
	}
	g.applyActions(actions)

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.history.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.perfPanel.Toggle()
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()

	// Panels get the click before the field does
	mouse := rl.GetMousePosition()
	if g.history.HandleInput() || g.controls.Contains(mouse.X, mouse.Y) {
		return
	}
	g.inspector.HandleInput(g.camera, &g.snap)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.width && h == g.height {
		return
	}
	g.width = w
	g.height = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
	g.history.Resize(int32(w), int32(h))
	g.perfPanel.SetPosition(10, int32(h)-200)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Mouse wheel zooms toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		g.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
