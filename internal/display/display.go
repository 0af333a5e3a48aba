// Package display shows the segmentation outputs and turns user input into
// threshold updates and pipeline keys.
package display

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"vseg/internal/config"
	"vseg/internal/logger"
	"vseg/internal/pipeline"
	"vseg/internal/threshold"
)

const (
	maskWindowName   = "Threshold"
	outputWindowName = "Output"
	trackbarName     = "Threshold"
)

// Frontend is a pipeline.Display that also owns the thread the UI toolkit
// must run on.
type Frontend interface {
	pipeline.Display

	// Run executes loop and returns its error. Toolkits that need the main
	// thread run loop on another goroutine and block in their event loop.
	Run(ctx context.Context, loop func(ctx context.Context) error) error
	Close() error
}

func New(backend config.DisplayBackend, ctrl *threshold.Controller, log logger.Logger) (Frontend, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch backend {
	case config.DisplayHighGUI:
		return NewHighGUI(ctrl, log), nil
	case config.DisplayFyne:
		return NewFyne(ctrl, log), nil
	case config.DisplayHeadless:
		return Headless{}, nil
	default:
		return nil, errors.Wrapf(config.ErrInvalidConfig, "unknown display backend %q", backend)
	}
}

// Headless shows nothing and never reports a key.
type Headless struct{}

func (Headless) Show(mask, foreground gocv.Mat) error { return nil }

func (Headless) PollKey() pipeline.Key { return pipeline.KeyNone }

func (Headless) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	return loop(ctx)
}

func (Headless) Close() error { return nil }
