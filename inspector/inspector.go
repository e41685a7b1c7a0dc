// Package inspector shows the state of one selected cell.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/camera"
	"github.com/pthm-cable/cellsim/components"
	"github.com/pthm-cable/cellsim/simulation"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30

	// Extra pick radius in screen pixels so tiny cells stay clickable.
	pickSlackPx = 6
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// Inspector tracks the selected cell by ID and renders its fields.
type Inspector struct {
	selectedID  uint64
	hasSelected bool

	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32

	fields []Field
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput processes clicks for selection. Returns true when the click
// was consumed by the inspector.
func (ins *Inspector) HandleInput(cam *camera.Camera, snap *simulation.Snapshot) bool {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return false
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}

	mouse := rl.GetMousePosition()
	if ins.hasSelected {
		if ins.onCloseButton(mouse.X, mouse.Y) {
			ins.Deselect()
			return true
		}
		if ins.InPanel(mouse.X, mouse.Y) {
			return true
		}
	}

	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	slack := float64(pickSlackPx / cam.Zoom)
	return ins.Pick(float64(wx), float64(wy), slack, snap)
}

// Pick selects the cell under the world point. Clicking empty space
// clears the selection.
func (ins *Inspector) Pick(wx, wy, slack float64, snap *simulation.Snapshot) bool {
	view, ok := snap.CellAt(wx, wy, slack)
	if !ok {
		ins.Deselect()
		return false
	}
	ins.Select(view.ID)
	return true
}

// Select makes the cell with id the current selection.
func (ins *Inspector) Select(id uint64) {
	ins.selectedID = id
	ins.hasSelected = true
	ins.fields = nil
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selectedID = 0
	ins.fields = nil
}

// Selected returns the ID of the selected cell.
func (ins *Inspector) Selected() (uint64, bool) {
	return ins.selectedID, ins.hasSelected
}

// Update refreshes the displayed fields. A selection whose cell is gone
// (ok false) is dropped.
func (ins *Inspector) Update(cell components.Cell, ok bool) {
	if !ins.hasSelected {
		return
	}
	if !ok || cell.ID != ins.selectedID {
		ins.Deselect()
		return
	}

	fields := ExtractFields(&cell)
	fields = append(fields,
		Field{Name: "Fullness", Value: cell.Fullness(), Widget: WidgetBar},
		Field{Name: "Gestation", Value: cell.GestationProgress(), Widget: WidgetBar},
	)
	ins.fields = fields
}

// Fields returns the fields shown for the current selection.
func (ins *Inspector) Fields() []Field {
	return ins.fields
}

// InPanel reports whether a screen point lies on the open panel.
func (ins *Inspector) InPanel(sx, sy float32) bool {
	if !ins.hasSelected {
		return false
	}
	x, y := int32(sx), int32(sy)
	return x >= ins.panelX && x <= ins.panelX+PanelWidth &&
		y >= ins.panelY && y <= ins.panelY+ins.panelHeight()
}

func (ins *Inspector) onCloseButton(sx, sy float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	x, y := int32(sx), int32(sy)
	return x >= closeX && x <= closeX+20 && y >= closeY && y <= closeY+20
}

// Draw renders the inspector panel if a cell is selected.
func (ins *Inspector) Draw() {
	if !ins.hasSelected || len(ins.fields) == 0 {
		return
	}

	panelHeight := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CELL #%d", ins.selectedID), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range ins.fields {
		y += DrawField(x, y, f)
	}
}

func (ins *Inspector) panelHeight() int32 {
	h := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range ins.fields {
		h += fieldHeight(f)
	}
	return h
}

// DrawSelectionHighlight circles the selected cell in screen space.
func (ins *Inspector) DrawSelectionHighlight(cam *camera.Camera, snap *simulation.Snapshot) {
	if !ins.hasSelected {
		return
	}
	view, ok := snap.Find(ins.selectedID)
	if !ok {
		return
	}
	sx, sy := cam.WorldToScreen(float32(view.X), float32(view.Y))
	radius := float32(view.Genes.Size) * 1.4 * cam.Zoom
	rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Yellow)
}
