// Package game hosts a simulator: it drives ticks, feeds telemetry and, in
// graphical mode, handles input and rendering.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/cellsim/camera"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/inspector"
	"github.com/pthm-cable/cellsim/renderer"
	"github.com/pthm-cable/cellsim/simulation"
	"github.com/pthm-cable/cellsim/telemetry"
	"github.com/pthm-cable/cellsim/ui"
)

// Speed limits for steps per update
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 512
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindow    int // ticks per stats window, 0 = config value
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Called with every flushed stats window
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete host state.
type Game struct {
	sim *simulation.Simulator

	// Telemetry
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	perf          *telemetry.PerfCollector
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	lastStats     telemetry.WindowStats

	// Rendering and UI, nil when headless
	camera        *camera.Camera
	fieldRenderer *renderer.FieldRenderer
	cellRenderer  *renderer.CellRenderer
	hud           *ui.HUD
	controls      *ui.ControlsPanel
	perfPanel     *ui.PerfPanel
	overlays      *ui.OverlayRegistry
	inspector     *inspector.Inspector
	history       *inspector.HistoryPanel
	panelActions  ui.ControlActions // reported by Draw, applied by the next Update

	// State
	snap           simulation.Snapshot
	headless       bool
	paused         bool
	stepOnce       bool
	stepsPerUpdate int
	pendingTicks   int
	extinct        bool
	status         string
	statusFrames   int

	width, height float32
}

// NewGameWithOptions creates a game with its simulator.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	sim, err := simulation.New(cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := output.WriteConfig(sim.Config()); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	window := opts.StatsWindow
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		sim:            sim,
		collector:      telemetry.NewCollector(window),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		output:         output,
		perf:           telemetry.NewPerfCollector(60),
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerUpdate: clampSteps(opts.StepsPerUpdate),
		width:          float32(cfg.Screen.Width),
		height:         float32(cfg.Screen.Height),
	}
	g.snap = sim.Snapshot()

	if !opts.Headless {
		g.initViewer(cfg)
	}

	slog.Info("game_created",
		"seed", sim.Seed(),
		"headless", opts.Headless,
		"stats_window", window,
		"output_dir", output.Dir(),
	)
	return g, nil
}

// initViewer creates the rendering and UI state.
func (g *Game) initViewer(cfg *config.Config) {
	w, h := int32(g.width), int32(g.height)
	g.camera = camera.New(g.width, g.height, float32(cfg.World.Width), float32(cfg.World.Height))
	g.fieldRenderer = renderer.NewFieldRenderer()
	g.cellRenderer = renderer.NewCellRenderer()
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 10, 230)
	g.perfPanel = ui.NewPerfPanel(10, h-200)
	g.overlays = ui.NewOverlayRegistry()
	g.inspector = inspector.NewInspector(w, h)
	g.history = inspector.NewHistoryPanel(w, h)
}

// Simulator returns the hosted simulator.
func (g *Game) Simulator() *simulation.Simulator {
	return g.sim
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Extinct reports whether the population has died out.
func (g *Game) Extinct() bool {
	return g.extinct
}

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// StepsPerUpdate returns the number of ticks run per update.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func clampSteps(n int) int {
	return max(MinStepsPerUpdate, min(n, MaxStepsPerUpdate))
}
