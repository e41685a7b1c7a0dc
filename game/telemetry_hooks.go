package game

import (
	"log/slog"

	"github.com/pthm-cable/cellsim/telemetry"
)

// flushTelemetry closes the stats window when it is due, or early when
// forced, then logs, records and checks it for bookmarks. A forced flush
// is skipped if a window already ended on this tick.
func (g *Game) flushTelemetry(force bool) {
	tick := g.sim.Tick()
	if force {
		if tick == g.lastStats.WindowEndTick {
			return
		}
	} else if !g.collector.ShouldFlush(tick) {
		return
	}

	snap := &g.snap
	if snap.Tick != tick {
		g.perf.StartPhase(telemetry.PhaseSnapshot)
		s := g.sim.Snapshot()
		snap = &s
		g.perf.StartPhase(telemetry.PhaseTelemetry)
	}

	stats := g.collector.Flush(g.sim.Stats(), snap)
	perfStats := g.perf.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.history != nil {
		g.history.Record(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
