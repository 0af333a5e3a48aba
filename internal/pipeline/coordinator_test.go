package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vseg/internal/segmentation"
	"vseg/internal/threshold"
)

type sliceSource struct {
	frames []gocv.Mat
	next   int
	err    error
}

func (s *sliceSource) Next(dst *gocv.Mat) error {
	if s.next >= len(s.frames) {
		if s.err != nil {
			return s.err
		}
		return io.EOF
	}
	s.frames[s.next].CopyTo(dst)
	s.next++
	return nil
}

type recordingSink struct {
	frames [][]byte
	err    error
}

func (s *recordingSink) WriteFrame(frame gocv.Mat) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame.ToBytes())
	return nil
}

type still struct {
	frameNumber int
	data        []byte
}

type recordingStills struct {
	stills []still
}

func (s *recordingStills) WriteStill(frame gocv.Mat, frameNumber int) (string, error) {
	s.stills = append(s.stills, still{frameNumber: frameNumber, data: frame.ToBytes()})
	return "out.jpg", nil
}

type scriptedDisplay struct {
	keys   []Key
	polls  int
	shown  int
	onPoll func(poll int)
}

func (d *scriptedDisplay) Show(mask, foreground gocv.Mat) error {
	d.shown++
	return nil
}

func (d *scriptedDisplay) PollKey() Key {
	d.polls++
	if d.onPoll != nil {
		d.onPoll(d.polls)
	}
	if d.polls <= len(d.keys) {
		return d.keys[d.polls-1]
	}
	return KeyNone
}

func grayFrames(t *testing.T, levels ...float64) []gocv.Mat {
	t.Helper()
	frames := make([]gocv.Mat, len(levels))
	for i, v := range levels {
		frames[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 4, 4, gocv.MatTypeCV8UC3)
	}
	t.Cleanup(func() {
		for i := range frames {
			frames[i].Close()
		}
	})
	return frames
}

func filled(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func newCoordinator(t *testing.T, c Components) *Coordinator {
	t.Helper()
	if c.Segmenter == nil {
		c.Segmenter = segmentation.NewEngine(segmentation.Options{}, nil)
	}
	if c.Threshold == nil {
		c.Threshold = threshold.New(10)
	}
	if c.Display == nil {
		c.Display = &scriptedDisplay{}
	}
	coord, err := NewCoordinator(c, 0, nil)
	require.NoError(t, err)
	return coord
}

func TestRunSlidesWindowOverEveryFrame(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 50, 50, 200)}
	sink := &recordingSink{}
	display := &scriptedDisplay{}

	stats, err := newCoordinator(t, Components{Source: source, Sink: sink, Display: display}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StopEndOfStream, stats.StopReason)
	assert.Equal(t, 4, stats.FramesRead)
	assert.Equal(t, 3, stats.FramesSegmented)
	assert.Equal(t, 3, stats.FramesWritten)
	assert.Equal(t, 3, display.shown)
	assert.Contains(t, stats.StageAverages, stageSegment)
	assert.Contains(t, stats.StageAverages, stageWrite)
	assert.Contains(t, stats.Fields(), "avg_segment_ms")

	require.Len(t, sink.frames, 3)
	assert.Equal(t, filled(48, 255), sink.frames[0])
	assert.Equal(t, filled(48, 0), sink.frames[1])
	assert.Equal(t, filled(48, 255), sink.frames[2])
}

func TestRunEmptyStream(t *testing.T) {
	source := &sliceSource{}

	stats, err := newCoordinator(t, Components{Source: source}).Run(context.Background())

	assert.True(t, errors.Is(err, ErrEmptyStream))
	assert.Equal(t, StopFailed, stats.StopReason)
	assert.Zero(t, stats.FramesSegmented)
}

func TestRunSingleFrame(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0)}

	stats, err := newCoordinator(t, Components{Source: source}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StopEndOfStream, stats.StopReason)
	assert.Equal(t, 1, stats.FramesRead)
	assert.Zero(t, stats.FramesSegmented)
}

func TestRunReadFailureEndsStream(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 80), err: errors.New("decoder hiccup")}

	stats, err := newCoordinator(t, Components{Source: source}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StopEndOfStream, stats.StopReason)
	assert.Equal(t, 1, stats.FramesSegmented)
}

func TestRunSnapshotExportsForeground(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 0, 120)}
	stills := &recordingStills{}
	display := &scriptedDisplay{keys: []Key{KeyNone, KeySnapshot}}

	stats, err := newCoordinator(t, Components{Source: source, Stills: stills, Display: display}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.StillsExported)
	require.Len(t, stills.stills, 1)
	assert.Equal(t, 2, stills.stills[0].frameNumber)
	assert.Equal(t, filled(48, 120), stills.stills[0].data)
}

func TestRunSnapshotWithoutStillSink(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 90)}
	display := &scriptedDisplay{keys: []Key{KeySnapshot}}

	stats, err := newCoordinator(t, Components{Source: source, Display: display}).Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.StillsExported)
}

func TestRunQuitKeyStops(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 50, 100, 150)}
	sink := &recordingSink{}
	display := &scriptedDisplay{keys: []Key{KeyQuit}}

	stats, err := newCoordinator(t, Components{Source: source, Sink: sink, Display: display}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StopQuit, stats.StopReason)
	assert.Equal(t, 1, stats.FramesSegmented)
	assert.Len(t, sink.frames, 1)
}

func TestRunCancelledContext(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 50, 100)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := newCoordinator(t, Components{Source: source}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, StopCancelled, stats.StopReason)
	assert.Zero(t, stats.FramesSegmented)
}

func TestRunSinkErrorsAreTolerated(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 50, 100)}
	sink := &recordingSink{err: errors.New("disk full")}

	stats, err := newCoordinator(t, Components{Source: source, Sink: sink}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.FramesSegmented)
	assert.Equal(t, 2, stats.SinkErrors)
	assert.Zero(t, stats.FramesWritten)
}

func TestRunReadsThresholdEveryFrame(t *testing.T) {
	source := &sliceSource{frames: grayFrames(t, 0, 50, 100)}
	sink := &recordingSink{}
	ctrl := threshold.New(10)
	display := &scriptedDisplay{onPoll: func(int) { ctrl.Set(100) }}

	_, err := newCoordinator(t, Components{Source: source, Sink: sink, Threshold: ctrl, Display: display}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.frames, 2)
	assert.Equal(t, filled(48, 255), sink.frames[0])
	assert.Equal(t, filled(48, 0), sink.frames[1])
}

func TestRunSegmentationFailure(t *testing.T) {
	small := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer small.Close()
	large := gocv.NewMatWithSize(5, 5, gocv.MatTypeCV8UC3)
	defer large.Close()
	source := &sliceSource{frames: []gocv.Mat{small, large}}

	stats, err := newCoordinator(t, Components{Source: source}).Run(context.Background())

	assert.True(t, errors.Is(err, segmentation.ErrInvalidFrame))
	assert.Equal(t, StopFailed, stats.StopReason)
}

func TestNewCoordinatorValidates(t *testing.T) {
	_, err := NewCoordinator(Components{}, 0, nil)
	assert.Error(t, err)

	source := &sliceSource{}
	_, err = NewCoordinator(Components{
		Source:    source,
		Segmenter: segmentation.NewEngine(segmentation.Options{}, nil),
		Threshold: threshold.New(10),
		Display:   &scriptedDisplay{},
	}, -1, nil)
	assert.True(t, errors.Is(err, segmentation.ErrInvalidParameter))
}
