package video

import (
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// fallbackCodec is used when the input does not report a usable fourcc.
const fallbackCodec = "MJPG"

var ErrSinkUnavailable = errors.New("the output stream is not opened")

type Writer struct {
	path   string
	vw     *gocv.VideoWriter
	frames int
}

// OpenWriter opens a color video writer. codec is a fourcc such as "MJPG";
// anything that is not four printable characters falls back to MJPG.
func OpenWriter(path, codec string, fps float64, width, height int) (*Writer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrSinkUnavailable, "%s: invalid frame size %dx%d", path, width, height)
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	vw, err := gocv.VideoWriterFile(path, normalizeCodec(codec), fps, width, height, true)
	if err != nil {
		if vw != nil {
			vw.Close()
		}
		return nil, errors.Wrapf(ErrSinkUnavailable, "%s: %v", path, err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, errors.Wrap(ErrSinkUnavailable, path)
	}

	return &Writer{path: path, vw: vw}, nil
}

func (w *Writer) WriteFrame(frame gocv.Mat) error {
	if err := w.vw.Write(frame); err != nil {
		return errors.Wrapf(err, "write frame %d to %s", w.frames+1, w.path)
	}
	w.frames++
	return nil
}

func (w *Writer) Frames() int {
	return w.frames
}

func (w *Writer) Close() error {
	return w.vw.Close()
}

func normalizeCodec(codec string) string {
	codec = strings.TrimRight(codec, "\x00 ")
	if len(codec) != 4 {
		return fallbackCodec
	}
	for i := 0; i < len(codec); i++ {
		if codec[i] < 0x20 || codec[i] > 0x7e {
			return fallbackCodec
		}
	}
	return codec
}
