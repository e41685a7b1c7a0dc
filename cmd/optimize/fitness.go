package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/game"
	"github.com/pthm-cable/cellsim/telemetry"
)

// Fitness penalties.
const (
	extinctionPenalty = 10.0 // added on top of the survival shortfall
	invalidPenalty    = 100.0
	warmupWindows     = 3 // skipped when measuring the steady state
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	statsWindow int
	seeds       []int64
	baseConfig  *config.Config
	target      float64

	mu      sync.Mutex
	last    Evaluation
	hasLast bool
}

// Evaluation summarises one parameter vector across all seeds.
type Evaluation struct {
	fitness    float64
	population float64 // steady-state mean across seeds
	stdDev     float64
	extinct    int // seeds that died out
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, statsWindow int, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		statsWindow: statsWindow,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
	}
}

// Last returns the summary of the most recent Evaluate call.
func (fe *FitnessEvaluator) Last() (Evaluation, bool) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last, fe.hasLast
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32
	extinct       bool
	windowStats   []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// A surviving run scores the squared log error between its steady-state
// population and the target; a run that dies out scores worse than any
// surviving one.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.params.ApplyToConfig(fe.baseConfig, x)
	if err != nil {
		fe.record(Evaluation{fitness: invalidPenalty})
		return invalidPenalty
	}

	// Run all seeds in parallel
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var ev Evaluation
	fitness := make([]float64, len(results))
	means := make([]float64, 0, len(results))
	for i, r := range results {
		fitness[i] = fe.computeFitness(r)
		if r.extinct {
			ev.extinct++
			continue
		}
		means = append(means, steadyPopulation(r.windowStats))
	}
	ev.fitness = stat.Mean(fitness, nil)
	if len(means) > 0 {
		ev.population, ev.stdDev = stat.MeanStdDev(means, nil)
	}

	fe.record(ev)
	return ev.fitness
}

func (fe *FitnessEvaluator) record(ev Evaluation) {
	fe.mu.Lock()
	fe.last, fe.hasLast = ev, true
	fe.mu.Unlock()
}

// runSimulation executes a single headless simulation run until extinction
// or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindow:    fe.statsWindow,
		StepsPerUpdate: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.extinct = true
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !g.Extinct() {
		g.UpdateHeadless()
	}
	result.survivalTicks = g.Tick()
	result.extinct = g.Extinct()
	return result
}

// computeFitness scores one run (lower = better).
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.extinct {
		shortfall := 1 - float64(r.survivalTicks)/float64(fe.maxTicks)
		return extinctionPenalty + shortfall
	}
	logErr := math.Log(math.Max(steadyPopulation(r.windowStats), 1) / fe.target)
	return logErr * logErr
}

// steadyPopulation is the mean population over the windows after warmup.
func steadyPopulation(windows []telemetry.WindowStats) float64 {
	if len(windows) > warmupWindows {
		windows = windows[warmupWindows:]
	}
	if len(windows) == 0 {
		return 0
	}
	pops := make([]float64, len(windows))
	for i, w := range windows {
		pops[i] = float64(w.Population)
	}
	return stat.Mean(pops, nil)
}
