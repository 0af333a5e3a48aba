package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gocv.io/x/gocv"

	"vseg/internal/config"
	"vseg/internal/display"
	"vseg/internal/logger"
	"vseg/internal/pipeline"
	"vseg/internal/segmentation"
	"vseg/internal/shutdown"
	"vseg/internal/threshold"
	"vseg/internal/video"
)

const (
	exitOK                = 0
	exitUsage             = 1
	exitSourceUnavailable = 2
	exitEmptyStream       = 3
	exitRuntime           = 4
)

// exitCode maps a run error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalidConfig):
		return exitUsage
	case errors.Is(err, video.ErrSourceUnavailable):
		return exitSourceUnavailable
	case errors.Is(err, pipeline.ErrEmptyStream):
		return exitEmptyStream
	default:
		return exitRuntime
	}
}

func exitWith(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), exitCode(err))
}

func action(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return exitWith(err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return exitWith(errors.Wrap(config.ErrInvalidConfig, err.Error()))
	}
	log := logger.NewConsoleLogger(level)

	return exitWith(run(c.Context, cfg, log))
}

func run(parent context.Context, cfg config.Config, log logger.Logger) error {
	log.Info("main", "starting", cfg.Fields())

	shut := shutdown.NewManager(parent, log)
	defer shut.Shutdown()
	shut.Listen()

	capture, err := video.OpenCapture(cfg.Input)
	if err != nil {
		return err
	}
	shut.Register("capture", capture)

	first := gocv.NewMat()
	if err := capture.Next(&first); err != nil {
		first.Close()
		return errors.Wrapf(pipeline.ErrEmptyStream, "no frame could be read from %q", cfg.Input)
	}
	source := video.NewPrimed(first, capture)
	shut.Register("primed frame", source)

	log.Info("main", "source opened", map[string]interface{}{
		"input":  cfg.Input,
		"device": capture.IsDevice(),
		"width":  first.Cols(),
		"height": first.Rows(),
		"fps":    capture.FPS(),
		"codec":  capture.Codec(),
	})

	var sink pipeline.FrameSink
	writer, err := video.OpenWriter(cfg.Output, capture.Codec(), capture.FPS(), first.Cols(), first.Rows())
	if err != nil {
		log.Warning("main", "output video unavailable, continuing without it", map[string]interface{}{
			"output": cfg.Output,
			"error":  err.Error(),
		})
	} else {
		sink = writer
		shut.Register("writer", writer)
	}

	var stills pipeline.StillSink
	exporter, err := video.NewStillExporter(cfg.StillsDir)
	if err != nil {
		log.Warning("main", "snapshot directory unavailable, snapshots disabled", map[string]interface{}{
			"dir":   cfg.StillsDir,
			"error": err.Error(),
		})
	} else {
		stills = exporter
	}

	ctrl := threshold.New(cfg.Threshold)
	frontend, err := display.New(cfg.Display, ctrl, log)
	if err != nil {
		return err
	}
	// Windows must be destroyed on the locked main thread.
	defer frontend.Close()

	coordinator, err := pipeline.NewCoordinator(pipeline.Components{
		Source:    source,
		Segmenter: segmentation.NewEngine(segmentation.Options{Mode: cfg.Mode}, log),
		Threshold: ctrl,
		Display:   frontend,
		Sink:      sink,
		Stills:    stills,
	}, cfg.Radius, log)
	if err != nil {
		return err
	}

	var stats pipeline.Stats
	runErr := frontend.Run(shut.Context(), func(ctx context.Context) error {
		var loopErr error
		stats, loopErr = coordinator.Run(ctx)
		return loopErr
	})

	summary := stats.Fields()
	summary["final_threshold"] = ctrl.Get()
	if runErr != nil {
		log.Error("main", runErr, summary)
		return runErr
	}
	log.Info("main", "finished", summary)
	return nil
}
