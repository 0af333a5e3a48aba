package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"vseg/internal/config"
	"vseg/internal/segmentation"
)

const (
	flagVideoName   = "videoname"
	flagOutFileName = "outfilename"
	flagThreshold   = "threshold"
	flagRadius      = "radius"
	flagDisplay     = "display"
	flagCombine     = "combine"
	flagStillsDir   = "stills-dir"
	flagLogLevel    = "log-level"
)

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagVideoName,
			Aliases:  []string{"v"},
			Usage:    "video path, or capture device index when only digits",
			EnvVars:  []string{"VSEG_VIDEONAME"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagOutFileName,
			Aliases:  []string{"o"},
			Usage:    "output video path",
			EnvVars:  []string{"VSEG_OUTFILENAME"},
			Required: true,
		},
		&cli.IntFlag{
			Name:    flagThreshold,
			Aliases: []string{"t"},
			Usage:   "initial difference threshold, 0-255",
			EnvVars: []string{"VSEG_THRESHOLD"},
			Value:   config.DefaultThreshold,
		},
		&cli.IntFlag{
			Name:    flagRadius,
			Aliases: []string{"s"},
			Usage:   "structuring element radius, 0 disables cleanup",
			EnvVars: []string{"VSEG_RADIUS"},
			Value:   config.DefaultRadius,
		},
		&cli.StringFlag{
			Name:    flagDisplay,
			Aliases: []string{"d"},
			Usage:   "display backend: highgui, fyne or headless",
			EnvVars: []string{"VSEG_DISPLAY"},
			Value:   string(config.DisplayHighGUI),
		},
		&cli.StringFlag{
			Name:    flagCombine,
			Usage:   "opening/closing combination: literal (saturating add) or logical (or)",
			EnvVars: []string{"VSEG_COMBINE"},
			Value:   segmentation.ModeLiteral.String(),
		},
		&cli.StringFlag{
			Name:    flagStillsDir,
			Usage:   "directory for foreground snapshots",
			EnvVars: []string{"VSEG_STILLS_DIR"},
			Value:   config.DefaultStillsDir,
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "debug, info, warn or error",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "info",
		},
	}
}

func configFromContext(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	cfg.Input = c.String(flagVideoName)
	cfg.Output = c.String(flagOutFileName)
	cfg.Threshold = c.Int(flagThreshold)
	cfg.Radius = c.Int(flagRadius)
	cfg.StillsDir = c.String(flagStillsDir)
	cfg.LogLevel = c.String(flagLogLevel)

	display, err := config.ParseDisplayBackend(c.String(flagDisplay))
	if err != nil {
		return cfg, err
	}
	cfg.Display = display

	mode, err := segmentation.ParseMode(c.String(flagCombine))
	if err != nil {
		return cfg, errors.Wrap(config.ErrInvalidConfig, err.Error())
	}
	cfg.Mode = mode

	return cfg, cfg.Validate()
}
