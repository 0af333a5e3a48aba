package video

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestIsDeviceIndex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"12", true},
		{"", false},
		{"video.avi", false},
		{"1.avi", false},
		{"-1", false},
		{" 1", false},
		{"٣", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDeviceIndex(tt.in), "%q", tt.in)
	}
}

func TestNormalizeCodec(t *testing.T) {
	assert.Equal(t, "XVID", normalizeCodec("XVID"))
	assert.Equal(t, "avc1", normalizeCodec("avc1"))
	assert.Equal(t, "H264", normalizeCodec("H264\x00"))
	assert.Equal(t, fallbackCodec, normalizeCodec(""))
	assert.Equal(t, fallbackCodec, normalizeCodec("\x00\x00\x00\x00"))
	assert.Equal(t, fallbackCodec, normalizeCodec("MPEG4"))
}

func TestStillName(t *testing.T) {
	assert.Equal(t, "out_1.jpg", StillName(1))
	assert.Equal(t, "out_250.jpg", StillName(250))
}

func TestStillExporterWritesJPEG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stills")
	exporter, err := NewStillExporter(dir)
	require.NoError(t, err)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 128, 255, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	path, err := exporter.WriteStill(frame, 7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out_7.jpg"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	decoded := gocv.IMRead(path, gocv.IMReadColor)
	defer decoded.Close()
	assert.Equal(t, 8, decoded.Rows())
	assert.Equal(t, 8, decoded.Cols())
}

func TestOpenCaptureMissingFile(t *testing.T) {
	_, err := OpenCapture(filepath.Join(t.TempDir(), "missing.avi"))
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

func TestOpenWriterInvalidSize(t *testing.T) {
	_, err := OpenWriter(filepath.Join(t.TempDir(), "out.avi"), "MJPG", 25, 0, 10)
	assert.True(t, errors.Is(err, ErrSinkUnavailable))
}

func TestWriterCaptureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")

	w, err := OpenWriter(path, "MJPG", 10, 32, 24)
	if errors.Is(err, ErrSinkUnavailable) {
		t.Skipf("no MJPG writer available: %v", err)
	}
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(i*80), 0, 0, 0), 24, 32, gocv.MatTypeCV8UC3)
		require.NoError(t, w.WriteFrame(frame))
		frame.Close()
	}
	assert.Equal(t, 3, w.Frames())
	require.NoError(t, w.Close())

	c, err := OpenCapture(path)
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.IsDevice())
	assert.InDelta(t, 10.0, c.FPS(), 0.5)

	frame := gocv.NewMat()
	defer frame.Close()
	read := 0
	for c.Next(&frame) == nil {
		assert.Equal(t, 24, frame.Rows())
		assert.Equal(t, 32, frame.Cols())
		read++
	}
	assert.Equal(t, 3, read)
}
