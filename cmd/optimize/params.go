// Package main searches for food parameters that hold the population of a
// headless simulation near a target size.
package main

import (
	"math"

	"github.com/pthm-cable/cellsim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Log     bool    // Search on a log10 scale
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Density spans orders of magnitude, so it is searched in log space
			{Name: "food_density", Path: "food.density", Min: 1, Max: 5000, Default: 240, Log: true},
			{Name: "eat_amount", Path: "food.eat_amount", Min: 0.5, Max: 5, Default: 2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi, v := spec.scale(spec.Min), spec.scale(spec.Max), spec.scale(raw[i])
		normalized[i] = (v - lo) / (hi - lo)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi := spec.scale(spec.Min), spec.scale(spec.Max)
		raw[i] = spec.unscale(lo + normalized[i]*(hi-lo))
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig returns a validated copy of cfg with the parameter values
// applied. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) (*config.Config, error) {
	clamped := pv.Clamp(values)
	density := int(math.Round(clamped[0]))

	next, err := cfg.Apply(config.Overrides{FoodDensity: &density})
	if err != nil {
		return nil, err
	}
	next.Food.EatAmount = clamped[1]
	if err := next.Refresh(); err != nil {
		return nil, err
	}
	return next, nil
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Food.Density),
		cfg.Food.EatAmount,
	}
}

func (s ParamSpec) scale(v float64) float64 {
	if s.Log {
		return math.Log10(v)
	}
	return v
}

func (s ParamSpec) unscale(v float64) float64 {
	if s.Log {
		return math.Pow(10, v)
	}
	return v
}
