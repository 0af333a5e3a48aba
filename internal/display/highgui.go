package display

import (
	"context"

	"gocv.io/x/gocv"

	"vseg/internal/logger"
	"vseg/internal/pipeline"
	"vseg/internal/threshold"
)

const (
	keyDelayMillis = 20
	keySpace       = 32
	keyEscape      = 27
)

// HighGUI uses OpenCV windows. All calls must come from the thread that
// created it.
type HighGUI struct {
	maskWindow   *gocv.Window
	outputWindow *gocv.Window
	trackbar     *gocv.Trackbar
	ctrl         *threshold.Controller
	lastPos      int
	logger       logger.Logger
}

func NewHighGUI(ctrl *threshold.Controller, log logger.Logger) *HighGUI {
	maskWindow := gocv.NewWindow(maskWindowName)
	trackbar := maskWindow.CreateTrackbar(trackbarName, threshold.Max)
	trackbar.SetPos(ctrl.Get())

	return &HighGUI{
		maskWindow:   maskWindow,
		outputWindow: gocv.NewWindow(outputWindowName),
		trackbar:     trackbar,
		ctrl:         ctrl,
		lastPos:      ctrl.Get(),
		logger:       log,
	}
}

func (h *HighGUI) Show(mask, foreground gocv.Mat) error {
	h.maskWindow.IMShow(mask)
	h.outputWindow.IMShow(foreground)
	return nil
}

// PollKey waits briefly for a key and picks up trackbar moves made while
// waiting.
func (h *HighGUI) PollKey() pipeline.Key {
	code := h.outputWindow.WaitKey(keyDelayMillis)

	if pos := h.trackbar.GetPos(); pos != h.lastPos {
		h.lastPos = h.ctrl.Set(pos)
		h.logger.Debug("HighGUI", "threshold changed", map[string]interface{}{
			"threshold": h.lastPos,
		})
	}

	return KeyFromCode(code)
}

func (h *HighGUI) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	return loop(ctx)
}

func (h *HighGUI) Close() error {
	maskErr := h.maskWindow.Close()
	outErr := h.outputWindow.Close()
	if maskErr != nil {
		return maskErr
	}
	return outErr
}

// KeyFromCode maps a WaitKey result to a pipeline key. Modifier bits above
// the low byte are ignored.
func KeyFromCode(code int) pipeline.Key {
	if code < 0 {
		return pipeline.KeyNone
	}
	switch code & 0xFF {
	case keySpace:
		return pipeline.KeySnapshot
	case keyEscape:
		return pipeline.KeyQuit
	default:
		return pipeline.KeyNone
	}
}
