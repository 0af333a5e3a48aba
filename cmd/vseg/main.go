// Command vseg segments moving foreground out of a video stream by
// differencing consecutive frames.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	AppName  = "vseg"
	AppUsage = "Video segmentation"
)

func init() {
	// OpenCV windows and the fyne driver both expect the main thread.
	runtime.LockOSThread()
}

func main() {
	// Values from a .env file act as environment defaults for the flags.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:        AppName,
		Usage:       AppUsage,
		HideVersion: true,
		Flags:       flags(),
		Action:      action,
	}
}
