// Command batch runs many headless simulators in parallel and writes their
// averaged population statistics as a CSV time series.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/cellsim/batch"
	"github.com/pthm-cable/cellsim/config"
	"github.com/pthm-cable/cellsim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Directory for series.csv and the config snapshot (empty = CSV on stdout)")
	mode := flag.String("mode", "", "Reproduction mode override: asexual or sexual")
	instances := flag.Int("instances", 0, "Number of simulators (0 = use config)")
	samples := flag.Int("samples", 0, "Number of samples (0 = use config)")
	sampleEvery := flag.Int("sample-every", 0, "Ticks between samples (0 = use config)")
	startDensity := flag.Int("density", 0, "Starting food density (0 = use config)")
	switchDensity := flag.Int("switch-density", 0, "Food density after the switch (0 = use config)")
	switchAt := flag.Int("switch-at", -2, "Sample index of the density switch (-1 = never, -2 = use config)")
	seed := flag.Int64("seed", 1, "Seed of the first instance; instance i uses seed+i")
	flag.Parse()

	// Logs go to stderr so the series can be piped from stdout
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := batch.OptionsFrom(cfg)
	opts.Seed = *seed
	if *mode != "" {
		m, err := config.ParseMode(*mode)
		if err != nil {
			slog.Error("invalid flags", "error", err)
			os.Exit(2)
		}
		opts.Mode = m
	}
	setIfPositive(&opts.Instances, *instances)
	setIfPositive(&opts.Samples, *samples)
	setIfPositive(&opts.SampleEvery, *sampleEvery)
	setIfPositive(&opts.StartDensity, *startDensity)
	setIfPositive(&opts.SwitchDensity, *switchDensity)
	if *switchAt != -2 {
		opts.SwitchAt = *switchAt
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	opts.Progress = func(percent int) {
		if percent%5 == 0 {
			slog.Info("batch_progress", "percent", percent, "elapsed", time.Since(start).Round(time.Second).String())
		}
	}

	res, err := batch.Run(ctx, cfg, opts)
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}

	for _, e := range res.Extinctions {
		slog.Warn(fmt.Sprintf("extinction reached at tick %d", e.Tick), "instance", e.Instance)
	}

	if output != nil {
		err = output.WriteSeries(res.Rows)
	} else {
		err = telemetry.WriteSeriesCSV(os.Stdout, res.Rows)
	}
	if err != nil {
		slog.Error("failed to write series", "error", err)
		os.Exit(1)
	}

	slog.Info("batch_finished",
		"rows", len(res.Rows),
		"extinctions", len(res.Extinctions),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"output_dir", output.Dir(),
	)
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
