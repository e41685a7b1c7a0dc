package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/config"
)

// Food density slider bounds on a log10 scale, 1 .. 3162.
const (
	densitySliderMin = 0
	densitySliderMax = 3.5
)

// ControlState is the simulation state the panel displays.
type ControlState struct {
	Paused      bool
	FoodDensity int
	Mode        config.Mode
	Speed       int
}

// ControlActions reports what the user did this frame.
type ControlActions struct {
	TogglePause bool
	Step        bool
	Export      bool
	SlowDown    bool
	SpeedUp     bool

	// Nil when unchanged.
	FoodDensity *int
	Mode        *config.Mode
}

// Any reports whether any action was taken.
func (a ControlActions) Any() bool {
	return a.TogglePause || a.Step || a.Export || a.SlowDown || a.SpeedUp ||
		a.FoodDensity != nil || a.Mode != nil
}

// ControlsPanel renders the left-side control panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies on the panel.
func (c *ControlsPanel) Contains(sx, sy float32) bool {
	if !c.visible {
		return false
	}
	x, y := int32(sx), int32(sy)
	return x >= c.x && x <= c.x+c.width && y >= c.y && y <= c.y+c.height()
}

func (c *ControlsPanel) height() int32 {
	t := c.renderer.Theme
	headers := 4 * (t.LineHeight + 2)
	buttons := int32(30 + 30 + 34 + 30)
	slider := t.LineHeight + 8
	overlayRows := 6 * (t.LineHeight - 4)
	return 2*t.Padding + headers + buttons + slider + overlayRows
}

// Draw renders the panel and returns the actions taken.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	t := r.Theme
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + t.Padding)
	y := c.y + t.Padding
	inner := float32(c.width - 2*t.Padding)
	half := (inner - 10) / 2

	y = r.DrawSectionHeader(int32(x), y, "Simulation")

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, toggleText(state.Paused, "Play", "Pause")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: float32(y), Width: half, Height: 26}, "Step") {
		actions.Step = true
	}
	y += 30

	third := (inner - 20) / 3
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: third, Height: 26}, "Slower") {
		actions.SlowDown = true
	}
	rl.DrawText(fmt.Sprintf("%dx", state.Speed), int32(x+third+10+third/2-10), y+6, t.FontSize, t.ValueColor)
	if gui.Button(rl.Rectangle{X: x + 2*(third+10), Y: float32(y), Width: third, Height: 26}, "Faster") {
		actions.SpeedUp = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 26}, "Export cells CSV") {
		actions.Export = true
	}
	y += 34

	y = r.DrawSectionHeader(int32(x), y, "Food density")
	current := DensityToSlider(state.FoodDensity)
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner - 60, Height: 18},
		"", "",
		current, densitySliderMin, densitySliderMax,
	)
	if d := SliderToDensity(next); d != state.FoodDensity {
		actions.FoodDensity = &d
	}
	rl.DrawText(fmt.Sprintf("1/%d", state.FoodDensity), int32(x+inner-55), y+2, t.FontSize, t.ValueColor)
	y += t.LineHeight + 8

	y = r.DrawSectionHeader(int32(x), y, "Reproduction")
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, "Mode: "+string(state.Mode)) {
		m := config.Sexual
		if state.Mode == config.Sexual {
			m = config.Asexual
		}
		actions.Mode = &m
	}
	y += 30

	y = r.DrawSectionHeader(int32(x), y, "Overlays")
	for _, desc := range overlays.All() {
		label := fmt.Sprintf("[%s] %s", desc.KeyLabel, desc.Name)
		color := t.LabelColor
		if overlays.IsEnabled(desc.ID) {
			color = t.SectionHeader
		}
		rl.DrawText(label, int32(x), y, t.FontSize-2, color)
		y += t.LineHeight - 4
	}

	return actions
}

// DensityToSlider maps a food density onto the log-scale slider.
func DensityToSlider(density int) float32 {
	if density < 1 {
		density = 1
	}
	return float32(math.Log10(float64(density)))
}

// SliderToDensity maps a slider position back to a density >= 1.
func SliderToDensity(v float32) int {
	v = max(densitySliderMin, min(v, densitySliderMax))
	return max(1, int(math.Round(math.Pow(10, float64(v)))))
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}
