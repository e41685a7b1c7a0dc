package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/telemetry"
	"github.com/pthm-cable/cellsim/ui"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 800, 800
	if err := cfg.Refresh(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

// starvingConfig makes every founder die on tick 3: no food value and a
// metabolic cost of 2 per tick against a reserve of 5.
func starvingConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Food.EatAmount = 0
	cfg.Metabolism.SpeedCost = 0
	cfg.Metabolism.SizeCost = 2.0 / 30
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameWithOptions_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Food.Spacing = 0
	if _, err := NewGameWithOptions(Options{Config: cfg, Headless: true}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestUpdateHeadless_AdvancesStepsPerUpdate(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t), Seed: 5, StepsPerUpdate: 25})

	g.UpdateHeadless()
	g.UpdateHeadless()
	if got := g.Tick(); got != 50 {
		t.Errorf("tick = %d, want 50", got)
	}
}

func TestStepsPerUpdateClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MinStepsPerUpdate},
		{-3, MinStepsPerUpdate},
		{7, 7},
		{100000, MaxStepsPerUpdate},
	}
	for _, tt := range tests {
		g := newHeadless(t, Options{Config: testConfig(t), StepsPerUpdate: tt.in})
		if got := g.StepsPerUpdate(); got != tt.want {
			t.Errorf("StepsPerUpdate(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTelemetryWindows(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Config:         testConfig(t),
		Seed:           9,
		StatsWindow:    10,
		StepsPerUpdate: 5,
		OutputDir:      dir,
		StatsCallback:  func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	if len(windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 10 || windows[1].WindowStartTick != 10 || windows[1].WindowEndTick != 20 {
		t.Errorf("window bounds = %+v / %+v", windows[0], windows[1])
	}
	if g.LastStats().WindowEndTick != 20 {
		t.Errorf("last stats end = %d, want 20", g.LastStats().WindowEndTick)
	}

	g.Unload()
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestExtinction(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Config:         starvingConfig(t),
		Seed:           2,
		StatsWindow:    1,
		StepsPerUpdate: 1,
		OutputDir:      dir,
		StatsCallback:  func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})

	for i := 0; i < 5 && !g.Extinct(); i++ {
		g.UpdateHeadless()
	}
	if !g.Extinct() {
		t.Fatal("population should have starved")
	}
	if got := g.Tick(); got != 3 {
		t.Errorf("extinct at tick %d, want 3", got)
	}
	// The forced flush must not duplicate the window that ended on tick 3.
	if len(windows) != 3 {
		t.Errorf("windows = %d, want 3", len(windows))
	}

	// Further updates are no-ops.
	g.UpdateHeadless()
	if g.Tick() != 3 || len(windows) != 3 {
		t.Errorf("update after extinction advanced: tick %d, windows %d", g.Tick(), len(windows))
	}

	g.Unload()
	data, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), string(telemetry.BookmarkExtinction)) {
		t.Errorf("bookmarks.csv missing extinction:\n%s", data)
	}
}

func TestApplyActions(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t), StepsPerUpdate: 8})

	g.applyActions(ui.ControlActions{TogglePause: true})
	if !g.Paused() {
		t.Error("pause not applied")
	}

	g.applyActions(ui.ControlActions{SpeedUp: true})
	if g.StepsPerUpdate() != 16 {
		t.Errorf("speed up = %d, want 16", g.StepsPerUpdate())
	}
	g.applyActions(ui.ControlActions{SlowDown: true})
	g.applyActions(ui.ControlActions{SlowDown: true})
	if g.StepsPerUpdate() != 4 {
		t.Errorf("slow down = %d, want 4", g.StepsPerUpdate())
	}

	density := 500
	mode := config.Sexual
	g.applyActions(ui.ControlActions{FoodDensity: &density, Mode: &mode})
	cfg := g.Simulator().Config()
	if cfg.Food.Density != 500 || cfg.Reproduction.Mode != config.Sexual {
		t.Errorf("overrides not applied: density %d mode %s", cfg.Food.Density, cfg.Reproduction.Mode)
	}

	bad := 0
	g.applyActions(ui.ControlActions{FoodDensity: &bad})
	if got := g.Simulator().Config().Food.Density; got != 500 {
		t.Errorf("invalid density applied: %d", got)
	}
	if !strings.HasPrefix(g.status, "rejected") {
		t.Errorf("status = %q, want rejection message", g.status)
	}
}

func TestApplyActions_StepPauses(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t)})
	g.applyActions(ui.ControlActions{Step: true})
	if !g.Paused() || !g.stepOnce {
		t.Errorf("step: paused %v stepOnce %v", g.Paused(), g.stepOnce)
	}
}

func TestExportCells(t *testing.T) {
	t.Run("disabled without output dir", func(t *testing.T) {
		g := newHeadless(t, Options{Config: testConfig(t)})
		g.exportCells()
		if !strings.Contains(g.status, "disabled") {
			t.Errorf("status = %q", g.status)
		}
	})

	t.Run("writes cells csv", func(t *testing.T) {
		dir := t.TempDir()
		g := newHeadless(t, Options{Config: testConfig(t), OutputDir: dir, StepsPerUpdate: 3})
		g.UpdateHeadless()
		g.exportCells()

		data, err := os.ReadFile(filepath.Join(dir, "cells_3.csv"))
		if err != nil {
			t.Fatalf("export missing: %v (status %q)", err, g.status)
		}
		if !strings.HasPrefix(string(data), "Step #3\n") {
			t.Errorf("export preamble = %q", strings.SplitN(string(data), "\n", 2)[0])
		}
	})
}
