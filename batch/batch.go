// Package batch runs independent simulators in parallel and averages their
// population statistics into one time series.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/simulation"
	"github.com/pthm-cable/cellsim/telemetry"
)

// Options controls a batch run.
type Options struct {
	Instances   int
	Samples     int
	SampleEvery int // ticks between samples
	SwitchAt    int // sample index at which the food density switches; negative disables

	Mode          config.Mode
	StartDensity  int
	SwitchDensity int

	// Instance i is seeded with Seed+i.
	Seed int64

	// Progress, if set, is called once for every whole completion percent
	// from 0 to 100, in order, from a single goroutine.
	Progress func(percent int)
}

// OptionsFrom builds options from the batch section of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Instances:     cfg.Batch.Instances,
		Samples:       cfg.Batch.Samples,
		SampleEvery:   cfg.Batch.SampleEvery,
		SwitchAt:      cfg.Batch.SwitchAt,
		Mode:          cfg.Reproduction.Mode,
		StartDensity:  cfg.Food.Density,
		SwitchDensity: cfg.Batch.SwitchDensity,
		Seed:          1,
	}
}

// Validate reports options that cannot produce a series.
func (o Options) Validate() error {
	switch {
	case o.Instances < 1:
		return fmt.Errorf("%w: batch needs at least one instance", config.ErrInvalid)
	case o.Samples < 1:
		return fmt.Errorf("%w: batch needs at least one sample", config.ErrInvalid)
	case o.SampleEvery < 1:
		return fmt.Errorf("%w: sample interval must be positive", config.ErrInvalid)
	case o.SwitchAt >= 0 && o.SwitchDensity < 1:
		return fmt.Errorf("%w: switch density must be >= 1", config.ErrInvalid)
	}
	return nil
}

// Extinction records the tick at which an instance lost its last cell.
type Extinction struct {
	Instance int
	Tick     int32
}

// Result is the averaged series of a batch run.
type Result struct {
	Rows        []telemetry.SeriesRow
	Extinctions []Extinction
}

// sample is one instance's measurement after a sampling interval.
type sample struct {
	population float64
	foodPct    float64
	traits     telemetry.TraitSummary
}

// Run executes the batch. Each instance runs on its own goroutine with its
// own random stream; ctx is checked between samples.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	base, err := cfg.Apply(config.Overrides{FoodDensity: &opts.StartDensity, Reproduction: &opts.Mode})
	if err != nil {
		return nil, fmt.Errorf("batch config: %w", err)
	}

	instances := make([]*instance, opts.Instances)
	for i := range instances {
		sim, err := simulation.New(base, opts.Seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("batch instance %d: %w", i, err)
		}
		instances[i] = &instance{id: i, sim: sim, samples: make([]sample, opts.Samples)}
	}

	slog.Info("batch_started",
		"instances", opts.Instances,
		"samples", opts.Samples,
		"sample_every", opts.SampleEvery,
		"mode", opts.Mode,
		"start_density", opts.StartDensity,
		"switch_density", opts.SwitchDensity,
		"switch_at", opts.SwitchAt,
	)

	progress := newReporter(opts.Instances*opts.Samples, opts.Progress)

	var wg sync.WaitGroup
	errs := make([]error, opts.Instances)
	for i, in := range instances {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = in.run(ctx, opts, progress)
		}()
	}
	wg.Wait()
	progress.close()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	res := &Result{Rows: aggregate(instances, opts)}
	for _, in := range instances {
		if in.extinct {
			res.Extinctions = append(res.Extinctions, Extinction{Instance: in.id, Tick: in.extinctAt})
		}
	}
	return res, nil
}

// instance is one simulator and its recorded samples.
type instance struct {
	id      int
	sim     *simulation.Simulator
	samples []sample

	extinct   bool
	extinctAt int32
}

func (in *instance) run(ctx context.Context, opts Options, progress *reporter) error {
	for s := range in.samples {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch instance %d: %w", in.id, err)
		}
		if err := in.runSample(s, opts); err != nil {
			return err
		}
		progress.add()
	}
	return nil
}

// runSample advances the instance by one sampling interval and records it.
func (in *instance) runSample(s int, opts Options) error {
	if s == opts.SwitchAt {
		if err := in.sim.Configure(config.Overrides{FoodDensity: &opts.SwitchDensity}); err != nil {
			return fmt.Errorf("batch instance %d: %w", in.id, err)
		}
	}

	in.sim.StepN(opts.SampleEvery)

	snap := in.sim.Snapshot()
	in.samples[s] = sample{
		population: float64(len(snap.Cells)),
		foodPct:    snap.FoodAvailability * 100,
		traits:     telemetry.SummarizeTraits(snap.Genomes()),
	}

	if len(snap.Cells) == 0 && !in.extinct {
		in.extinct = true
		in.extinctAt = snap.Tick
		slog.Warn("extinction reached", "instance", in.id, "tick", snap.Tick)
	}
	return nil
}

// aggregate averages the instances sample by sample. Trait averages only
// include instances that still have cells.
func aggregate(instances []*instance, opts Options) []telemetry.SeriesRow {
	rows := make([]telemetry.SeriesRow, opts.Samples)
	pops := make([]float64, len(instances))
	food := make([]float64, len(instances))
	traits := make([]genes.Genes, 0, len(instances))

	for s := range rows {
		traits = traits[:0]
		for i, in := range instances {
			smp := in.samples[s]
			pops[i] = smp.population
			food[i] = smp.foodPct
			if smp.traits.Count > 0 {
				traits = append(traits, smp.traits.Mean)
			}
		}

		avg := telemetry.SummarizeTraits(traits).Mean
		rows[s] = telemetry.SeriesRow{
			Step:              (s + 1) * opts.SampleEvery,
			Population:        stat.Mean(pops, nil),
			FoodAvailablePct:  stat.Mean(food, nil),
			AvgSize:           avg.Size,
			AvgFlagellumSize:  avg.FlagellumSize,
			AvgStomachSize:    avg.StomachSize,
			AvgGestationSteps: avg.GestationSteps,
		}
	}
	return rows
}

// reporter turns completed work units into whole-percent callbacks.
// Workers never block on it: they bump a counter and leave a wakeup.
type reporter struct {
	total    int64
	done     atomic.Int64
	wake     chan struct{}
	finished chan struct{}
	fn       func(int)
}

func newReporter(total int, fn func(int)) *reporter {
	r := &reporter{
		total:    int64(total),
		wake:     make(chan struct{}, 1),
		finished: make(chan struct{}),
		fn:       fn,
	}
	go r.loop()
	return r
}

func (r *reporter) add() {
	r.done.Add(1)
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *reporter) loop() {
	defer close(r.finished)
	last := -1
	report := func() {
		pct := int(r.done.Load() * 100 / r.total)
		for last < pct {
			last++
			if r.fn != nil {
				r.fn(last)
			}
		}
	}

	report()
	for range r.wake {
		report()
	}
	report()
}

// close stops the reporter after delivering every pending percent.
func (r *reporter) close() {
	close(r.wake)
	<-r.finished
}
