// Command gol runs a Life-family automaton from a random grid and records
// every generation to a video or animated GIF.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"ndlife/internal/config"
	"ndlife/internal/render"
	"ndlife/internal/video"
	"ndlife/pkg/life"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("run failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rules, err := cfg.Ruleset()
	if err != nil {
		return err
	}
	params, err := cfg.DrawParams()
	if err != nil {
		return err
	}
	initial, err := life.RandomSeeded(rules, cfg.Shape(), cfg.Seed)
	if err != nil {
		return err
	}
	slog.Info("starting run", "rule", rules, "w", cfg.Width, "h", cfg.Height, "seed", cfg.Seed,
		"ticks", cfg.Ticks, "population", initial.Population())

	start := time.Now()
	var final *life.State
	if cfg.Output == "" {
		final, err = initial.After(cfg.Ticks)
	} else {
		final, err = record(ctx, cfg, initial, params)
	}
	if err != nil {
		return err
	}

	if cfg.Snapshot != "" {
		if err := render.Save(cfg.Snapshot, final, params); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		slog.Debug("wrote snapshot", "path", cfg.Snapshot)
	}

	slog.Info("run complete", "generation", final.Generation(), "population", final.Population(),
		"output", cfg.Output, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func record(ctx context.Context, cfg *config.Config, initial *life.State, params render.DrawParams) (*life.State, error) {
	opts, err := cfg.SinkOptions()
	if err != nil {
		return nil, err
	}
	sink, err := video.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened sink", "output", opts.Output, "frame", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"pix_fmt", opts.PixelFormat, "fps", opts.Framerate)

	final, runErr := life.RunAndRecord(initial, cfg.Ticks, params.RenderFunc(opts.PixelFormat), sink)
	if closeErr := sink.Close(); closeErr != nil {
		runErr = errors.Join(runErr, closeErr)
	}
	if runErr != nil {
		return nil, runErr
	}
	return final, nil
}
