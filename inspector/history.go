package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsim/telemetry"
)

// historySize is the number of stats windows kept for the graph.
const historySize = 120

// Series indices
const (
	SeriesPopulation = iota
	SeriesBirths
	SeriesDeaths
	SeriesFood
	SeriesFullness
	numSeries
)

// countSeries share the left axis; ratioSeries are plotted on [0, 1].
var (
	countSeries = []int{SeriesPopulation, SeriesBirths, SeriesDeaths}
	ratioSeries = []int{SeriesFood, SeriesFullness}
)

// History is a fixed-size ring of per-window values.
type History struct {
	values [numSeries][historySize]float64
	next   int
	count  int
}

// Push records one stats window.
func (h *History) Push(ws telemetry.WindowStats) {
	i := h.next
	h.values[SeriesPopulation][i] = float64(ws.Population)
	h.values[SeriesBirths][i] = float64(ws.Births)
	h.values[SeriesDeaths][i] = float64(ws.Deaths)
	h.values[SeriesFood][i] = ws.FoodAvailability
	h.values[SeriesFullness][i] = ws.FullnessP50

	h.next = (h.next + 1) % historySize
	if h.count < historySize {
		h.count++
	}
}

// Len returns the number of recorded windows.
func (h *History) Len() int { return h.count }

// At returns the i-th oldest value of a series.
func (h *History) At(series, i int) float64 {
	idx := (h.next - h.count + i + historySize) % historySize
	return h.values[series][idx]
}

// Range returns the min and max over the visible series, padded by 10%.
// An empty or flat range falls back to [0, 1].
func (h *History) Range(series []int, visible [numSeries]bool) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		if !visible[s] {
			continue
		}
		for i := 0; i < h.count; i++ {
			v := h.At(s, i)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo >= hi {
		return 0, 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

// Graph colors
var (
	colorGraphTitle  = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorGraphPanel  = rl.Color{R: 20, G: 20, B: 30, A: 230}
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

// HistoryPanel graphs population and food over recent stats windows.
type HistoryPanel struct {
	history History

	panelX, panelY int32
	panelW, panelH int32
	visible        bool

	seriesVisible [numSeries]bool
	seriesNames   [numSeries]string
	seriesColors  [numSeries]rl.Color
}

// NewHistoryPanel creates a panel along the bottom of the screen.
func NewHistoryPanel(screenWidth, screenHeight int32) *HistoryPanel {
	p := &HistoryPanel{
		panelH:        180,
		seriesVisible: [numSeries]bool{true, false, false, true, true},
		seriesNames:   [numSeries]string{"Population", "Births", "Deaths", "Food", "Fullness"},
		seriesColors: [numSeries]rl.Color{
			{R: 100, G: 149, B: 237, A: 255},
			{R: 150, G: 255, B: 150, A: 255},
			{R: 255, G: 100, B: 80, A: 255},
			{R: 80, G: 180, B: 80, A: 255},
			{R: 255, G: 255, B: 100, A: 255},
		},
	}
	p.Resize(screenWidth, screenHeight)
	return p
}

// Resize re-anchors the panel to the bottom edge.
func (p *HistoryPanel) Resize(screenWidth, screenHeight int32) {
	p.panelW = screenWidth - PanelWidth - 30
	if p.panelW < 400 {
		p.panelW = 400
	}
	p.panelX = 10
	p.panelY = screenHeight - p.panelH - 40
}

// Toggle switches panel visibility.
func (p *HistoryPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Visible reports whether the panel is shown.
func (p *HistoryPanel) Visible() bool { return p.visible }

// Record adds a stats window to the graph.
func (p *HistoryPanel) Record(ws telemetry.WindowStats) {
	p.history.Push(ws)
}

// HandleInput toggles series when their legend entry is clicked.
func (p *HistoryPanel) HandleInput() bool {
	if !p.visible || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}
	mx, my := rl.GetMouseX(), rl.GetMouseY()
	legendX, legendY := p.panelX+10, p.panelY+p.panelH-24
	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*100
		if mx >= itemX && mx < itemX+95 && my >= legendY && my < legendY+18 {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return true
		}
	}
	return mx >= p.panelX && mx <= p.panelX+p.panelW && my >= p.panelY && my <= p.panelY+p.panelH
}

// Draw renders the panel.
func (p *HistoryPanel) Draw() {
	if !p.visible {
		return
	}
	rl.DrawRectangle(p.panelX, p.panelY, p.panelW, p.panelH, colorGraphPanel)
	rl.DrawRectangleLines(p.panelX, p.panelY, p.panelW, p.panelH, colorGraphBorder)
	rl.DrawText("HISTORY", p.panelX+10, p.panelY+6, 14, colorGraphTitle)

	if p.history.Len() == 0 {
		rl.DrawText("Waiting for the first stats window...", p.panelX+100, p.panelY+70, 14, ColorTextDim)
		return
	}

	gx, gy := p.panelX+10, p.panelY+24
	gw, gh := p.panelW-20, p.panelH-54
	p.drawGraph(gx, gy, gw, gh)
	p.drawLegend(p.panelX+10, p.panelY+p.panelH-24)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		rl.DrawLine(x, y+h*i/4, x+w, y+h*i/4, colorGraphGrid)
	}
	for i := int32(1); i < 6; i++ {
		rl.DrawLine(x+w*i/6, y, x+w*i/6, y+h, colorGraphGrid)
	}
	if p.history.Len() < 2 {
		return
	}

	lo, hi := p.history.Range(countSeries, p.seriesVisible)
	for _, s := range countSeries {
		if p.seriesVisible[s] {
			p.drawSeries(x, y, w, h, s, lo, hi)
		}
	}
	for _, s := range ratioSeries {
		if p.seriesVisible[s] {
			p.drawSeries(x, y, w, h, s, 0, 1)
		}
	}

	rl.DrawText(fmt.Sprintf("%.0f", hi), x+2, y+2, 10, ColorTextDim)
	rl.DrawText(fmt.Sprintf("%.0f", lo), x+2, y+h-12, 10, ColorTextDim)
	rl.DrawText("100%", x+w-28, y+2, 10, ColorTextDim)
}

func (p *HistoryPanel) drawSeries(x, y, w, h int32, series int, lo, hi float64) {
	n := p.history.Len()
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var prevX, prevY int32
	for i := 0; i < n; i++ {
		v := p.history.At(series, i)
		px := x + int32(float64(i)*float64(w)/float64(n-1))
		py := y + h - int32((v-lo)/span*float64(h))
		py = max(y, min(py, y+h))
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, p.seriesColors[series])
		}
		prevX, prevY = px, py
	}
}

func (p *HistoryPanel) drawLegend(x, y int32) {
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*100
		color, text := p.seriesColors[i], ColorText
		if !p.seriesVisible[i] {
			color.A = 80
			text = ColorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(p.seriesNames[i], itemX+14, y, 11, text)
	}
}
