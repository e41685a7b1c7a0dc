package telemetry

import (
	"github.com/pthm-cable/cellsim/simulation"
)

// Collector turns the simulator's lifetime counters into per-window stats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Lifetime counters at the start of the current window
	births uint64
	deaths uint64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the current simulator state and starts
// the next window.
func (c *Collector) Flush(st simulation.Stats, snap *simulation.Snapshot) WindowStats {
	ws := WindowStats{
		WindowStartTick:  c.windowStartTick,
		WindowEndTick:    st.Tick,
		Population:       st.Population,
		Births:           int(st.Births - c.births),
		Deaths:           int(st.Deaths - c.deaths),
		FoodAvailability: st.FoodAvailability,
	}

	traits := SummarizeTraits(snap.Genomes())
	ws.SizeMean, ws.SizeStd = traits.Mean.Size, traits.Std.Size
	ws.FlagellumMean, ws.FlagellumStd = traits.Mean.FlagellumSize, traits.Std.FlagellumSize
	ws.StomachMean, ws.StomachStd = traits.Mean.StomachSize, traits.Std.StomachSize
	ws.GestationMean, ws.GestationStd = traits.Mean.GestationSteps, traits.Std.GestationSteps

	fullness := make([]float64, len(snap.Cells))
	for i, cell := range snap.Cells {
		fullness[i] = cell.Fullness
		if cell.GestationRemaining > 0 {
			ws.Gestating++
		}
		if cell.Generation > ws.MaxGeneration {
			ws.MaxGeneration = cell.Generation
		}
	}
	ws.FullnessMean, ws.FullnessP10, ws.FullnessP50, ws.FullnessP90 = ComputeDistribution(fullness)

	c.windowStartTick = st.Tick
	c.births = st.Births
	c.deaths = st.Deaths
	return ws
}
