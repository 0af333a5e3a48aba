package pipeline

import (
	"gocv.io/x/gocv"

	"vseg/internal/segmentation"
)

// FrameSource yields decoded CV_8UC3 frames. Next returns io.EOF once the
// stream is exhausted; any other error is also treated as end of stream by
// the Coordinator, after the first frame.
type FrameSource interface {
	Next(dst *gocv.Mat) error
}

// FrameSink persists one mask per processed frame pair.
type FrameSink interface {
	WriteFrame(frame gocv.Mat) error
}

// StillSink exports a single frame on user request and reports where it went.
type StillSink interface {
	WriteStill(frame gocv.Mat, frameNumber int) (string, error)
}

// Display shows the outputs of each iteration and reports the user's input.
// PollKey is called once per iteration, after Show.
type Display interface {
	Show(mask, foreground gocv.Mat) error
	PollKey() Key
}

type Segmenter interface {
	Segment(prev, curr gocv.Mat, threshold, radius int) (*segmentation.Result, error)
}

// ThresholdSource is read once at the start of every frame.
type ThresholdSource interface {
	Get() int
}

type Key int

const (
	KeyNone Key = iota
	// KeySnapshot exports the current foreground.
	KeySnapshot
	// KeyQuit ends the run after the current iteration.
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeySnapshot:
		return "snapshot"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}
