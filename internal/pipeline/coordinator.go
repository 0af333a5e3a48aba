package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"vseg/internal/logger"
	"vseg/internal/segmentation"
)

// ErrEmptyStream means the source could not deliver a first frame.
var ErrEmptyStream = errors.New("could not read any image from stream")

// Components are the collaborators driven by a Coordinator. Sink and Stills
// may be nil: without a sink the run is display only, without a still sink
// snapshot requests are ignored.
type Components struct {
	Source    FrameSource
	Segmenter Segmenter
	Threshold ThresholdSource
	Display   Display
	Sink      FrameSink
	Stills    StillSink
}

// Coordinator runs the segmentation loop over a two-frame sliding window.
type Coordinator struct {
	components Components
	radius     int
	logger     logger.Logger
	timings    *stageTimings
}

func NewCoordinator(components Components, radius int, log logger.Logger) (*Coordinator, error) {
	if components.Source == nil {
		return nil, errors.New("pipeline requires a frame source")
	}
	if components.Segmenter == nil {
		return nil, errors.New("pipeline requires a segmenter")
	}
	if components.Threshold == nil {
		return nil, errors.New("pipeline requires a threshold source")
	}
	if components.Display == nil {
		return nil, errors.New("pipeline requires a display")
	}
	if radius < 0 {
		return nil, errors.Wrapf(segmentation.ErrInvalidParameter, "negative radius %d", radius)
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Coordinator{
		components: components,
		radius:     radius,
		logger:     log,
	}, nil
}

// Run processes frames until the source is exhausted, the user quits or ctx
// is cancelled. Cancellation is only observed between iterations. A
// segmentation failure aborts the run and is returned; sink and still export
// failures are logged and counted.
func (c *Coordinator) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	c.timings = newStageTimings()
	defer func() {
		stats.Duration = time.Since(start)
		stats.StageAverages = c.timings.averages()
		c.logger.Info("Pipeline", "run finished", stats.Fields())
	}()

	previous := gocv.NewMat()
	defer previous.Close()
	current := gocv.NewMat()
	defer current.Close()

	if readErr := c.components.Source.Next(&previous); readErr != nil {
		stats.StopReason = StopFailed
		return stats, errors.Wrap(ErrEmptyStream, readErr.Error())
	}
	stats.FramesRead++

	c.logger.Info("Pipeline", "first frame read", map[string]interface{}{
		"width":  previous.Cols(),
		"height": previous.Rows(),
		"radius": c.radius,
		"sink":   c.components.Sink != nil,
	})

	frameNumber := 0
	for {
		select {
		case <-ctx.Done():
			stats.StopReason = StopCancelled
			return stats, nil
		default:
		}

		frameNumber++

		stopRead := c.timings.track(stageRead)
		readErr := c.components.Source.Next(&current)
		stopRead()
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				c.logger.Warning("Pipeline", "frame read failed, treating as end of stream", map[string]interface{}{
					"frame": frameNumber,
					"error": readErr.Error(),
				})
			}
			stats.StopReason = StopEndOfStream
			return stats, nil
		}
		stats.FramesRead++

		key, pairErr := c.processPair(previous, current, frameNumber, &stats)
		if pairErr != nil {
			stats.StopReason = StopFailed
			return stats, pairErr
		}

		if key == KeyQuit {
			stats.StopReason = StopQuit
			return stats, nil
		}

		// The frame just read becomes the previous one; the old previous
		// buffer is overwritten by the next read.
		previous, current = current, previous
	}
}

func (c *Coordinator) processPair(previous, current gocv.Mat, frameNumber int, stats *Stats) (Key, error) {
	thresh := c.components.Threshold.Get()

	stopSegment := c.timings.track(stageSegment)
	result, err := c.components.Segmenter.Segment(previous, current, thresh, c.radius)
	stopSegment()
	if err != nil {
		return KeyNone, errors.Wrapf(err, "segment frame %d", frameNumber)
	}
	defer result.Close()
	stats.FramesSegmented++

	if sink := c.components.Sink; sink != nil {
		stopWrite := c.timings.track(stageWrite)
		err := sink.WriteFrame(result.Mask)
		stopWrite()
		if err != nil {
			stats.SinkErrors++
			c.logger.Warning("Pipeline", "mask write failed", map[string]interface{}{
				"frame": frameNumber,
				"error": err.Error(),
			})
		} else {
			stats.FramesWritten++
		}
	}

	stopDisplay := c.timings.track(stageDisplay)
	err = c.components.Display.Show(result.Mask, result.Foreground)
	stopDisplay()
	if err != nil {
		c.logger.Warning("Pipeline", "display update failed", map[string]interface{}{
			"frame": frameNumber,
			"error": err.Error(),
		})
	}

	key := c.components.Display.PollKey()
	if key == KeySnapshot {
		c.exportStill(result.Foreground, frameNumber, stats)
	}

	return key, nil
}

func (c *Coordinator) exportStill(foreground gocv.Mat, frameNumber int, stats *Stats) {
	if c.components.Stills == nil {
		c.logger.Debug("Pipeline", "snapshot requested without a still sink", nil)
		return
	}

	path, err := c.components.Stills.WriteStill(foreground, frameNumber)
	if err != nil {
		c.logger.Warning("Pipeline", "still export failed", map[string]interface{}{
			"frame": frameNumber,
			"error": err.Error(),
		})
		return
	}

	stats.StillsExported++
	c.logger.Info("Pipeline", "still exported", map[string]interface{}{
		"frame": frameNumber,
		"path":  path,
	})
}
