// Package config holds the run configuration and its defaults.
package config

import (
	"strings"

	"github.com/pkg/errors"

	"vseg/internal/logger"
	"vseg/internal/segmentation"
	"vseg/internal/threshold"
)

const (
	DefaultThreshold = 13
	DefaultRadius    = 0
	DefaultStillsDir = "."
)

var ErrInvalidConfig = errors.New("invalid configuration")

// DisplayBackend selects how frames are shown and how the threshold and
// keyboard controls are provided.
type DisplayBackend string

const (
	DisplayHighGUI  DisplayBackend = "highgui"
	DisplayFyne     DisplayBackend = "fyne"
	DisplayHeadless DisplayBackend = "headless"
)

func ParseDisplayBackend(s string) (DisplayBackend, error) {
	switch b := DisplayBackend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return DisplayHighGUI, nil
	case DisplayHighGUI, DisplayFyne, DisplayHeadless:
		return b, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfig, "unknown display backend %q", s)
	}
}

type Config struct {
	// Input is a video file path or a capture device index.
	Input string
	// Output is the path of the mask video.
	Output string

	Threshold int
	Radius    int
	Mode      segmentation.Mode
	Display   DisplayBackend
	StillsDir string
	LogLevel  string
}

func Default() Config {
	return Config{
		Threshold: DefaultThreshold,
		Radius:    DefaultRadius,
		Mode:      segmentation.ModeLiteral,
		Display:   DisplayHighGUI,
		StillsDir: DefaultStillsDir,
		LogLevel:  "info",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return errors.Wrap(ErrInvalidConfig, "input video name is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.Wrap(ErrInvalidConfig, "output file name is required")
	}
	if c.Threshold < threshold.Min || c.Threshold > threshold.Max {
		return errors.Wrapf(ErrInvalidConfig, "threshold %d outside [%d, %d]", c.Threshold, threshold.Min, threshold.Max)
	}
	if c.Radius < 0 {
		return errors.Wrapf(ErrInvalidConfig, "radius %d is negative", c.Radius)
	}
	if c.Mode != segmentation.ModeLiteral && c.Mode != segmentation.ModeLogical {
		return errors.Wrapf(ErrInvalidConfig, "unknown combine mode %d", int(c.Mode))
	}
	if _, err := ParseDisplayBackend(string(c.Display)); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

func (c Config) Fields() map[string]interface{} {
	return map[string]interface{}{
		"input":      c.Input,
		"output":     c.Output,
		"threshold":  c.Threshold,
		"radius":     c.Radius,
		"mode":       c.Mode.String(),
		"display":    string(c.Display),
		"stills_dir": c.StillsDir,
	}
}
