// Package telemetry provides population statistics, bookmarks and CSV export.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Gestating  int `csv:"gestating"`

	// Events during window
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`

	FoodAvailability float64 `csv:"food_availability"`

	// Trait distribution at window end
	SizeMean      float64 `csv:"size_mean"`
	SizeStd       float64 `csv:"size_std"`
	FlagellumMean float64 `csv:"flagellum_mean"`
	FlagellumStd  float64 `csv:"flagellum_std"`
	StomachMean   float64 `csv:"stomach_mean"`
	StomachStd    float64 `csv:"stomach_std"`
	GestationMean float64 `csv:"gestation_mean"`
	GestationStd  float64 `csv:"gestation_std"`

	// Reserve as a fraction of stomach size
	FullnessMean float64 `csv:"fullness_mean"`
	FullnessP10  float64 `csv:"fullness_p10"`
	FullnessP50  float64 `csv:"fullness_p50"`
	FullnessP90  float64 `csv:"fullness_p90"`

	MaxGeneration uint32 `csv:"max_generation"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("gestating", s.Gestating),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("food_availability", s.FoodAvailability),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("flagellum_mean", s.FlagellumMean),
		slog.Float64("stomach_mean", s.StomachMean),
		slog.Float64("gestation_mean", s.GestationMean),
		slog.Float64("fullness_p50", s.FullnessP50),
		slog.Uint64("max_generation", uint64(s.MaxGeneration)),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
