package video

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultFPS is used for capture devices and for files that do not report a
// frame rate.
const DefaultFPS = 25.0

var ErrSourceUnavailable = errors.New("the input stream is not opened")

// IsDeviceIndex reports whether input names a capture device rather than a
// file: a non-empty string made only of ASCII digits.
func IsDeviceIndex(input string) bool {
	if input == "" {
		return false
	}
	for i := 0; i < len(input); i++ {
		if input[i] < '0' || input[i] > '9' {
			return false
		}
	}
	return true
}

type Capture struct {
	input  string
	device bool
	vc     *gocv.VideoCapture
}

// OpenCapture opens a capture device when input is a device index and a
// video file otherwise.
func OpenCapture(input string) (*Capture, error) {
	device := IsDeviceIndex(input)

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if device {
		id, convErr := strconv.Atoi(input)
		if convErr != nil {
			return nil, errors.Wrapf(ErrSourceUnavailable, "device index %q: %v", input, convErr)
		}
		vc, err = gocv.VideoCaptureDevice(id)
	} else {
		vc, err = gocv.VideoCaptureFile(input)
	}
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: %v", input, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Wrap(ErrSourceUnavailable, input)
	}

	return &Capture{input: input, device: device, vc: vc}, nil
}

// Next reads the next frame into dst and returns io.EOF when the stream
// cannot deliver one.
func (c *Capture) Next(dst *gocv.Mat) error {
	if ok := c.vc.Read(dst); !ok || dst.Empty() {
		return io.EOF
	}
	return nil
}

func (c *Capture) IsDevice() bool {
	return c.device
}

// FPS returns the container frame rate, or DefaultFPS for devices and
// containers that do not report one.
func (c *Capture) FPS() float64 {
	if c.device {
		return DefaultFPS
	}
	fps := c.vc.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		return DefaultFPS
	}
	return fps
}

// Codec returns the fourcc of the input stream.
func (c *Capture) Codec() string {
	return c.vc.CodecString()
}

func (c *Capture) Close() error {
	return c.vc.Close()
}
