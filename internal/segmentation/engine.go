package segmentation

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"vseg/internal/logger"
	"vseg/internal/opencv/safe"
	"vseg/internal/threshold"
)

var (
	ErrInvalidFrame     = errors.New("invalid frame")
	ErrInvalidParameter = errors.New("invalid segmentation parameter")
)

type Options struct {
	Mode Mode
}

// Result holds the outputs of one Segment call. Both Mats are CV_8UC3 and
// have the size of the input frames.
type Result struct {
	Mask       gocv.Mat
	Foreground gocv.Mat

	// ForegroundPixels counts the pixels set in Mask.
	ForegroundPixels int
}

func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	maskErr := r.Mask.Close()
	fgErr := r.Foreground.Close()
	if maskErr != nil {
		return maskErr
	}
	return fgErr
}

type Engine struct {
	mode   Mode
	logger logger.Logger
}

func NewEngine(opts Options, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		mode:   opts.Mode,
		logger: log,
	}
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// Segment computes the foreground mask of curr relative to prev. It has no
// side effects beyond allocating the returned Result, which the caller must
// close.
func (e *Engine) Segment(prev, curr gocv.Mat, thresh, radius int) (*Result, error) {
	if err := validateInputs(prev, curr, thresh, radius); err != nil {
		return nil, err
	}

	start := time.Now()

	diff := gocv.NewMat()
	defer diff.Close()
	Difference(prev, curr, &diff)

	binary := gocv.NewMat()
	defer binary.Close()
	Binarize(diff, thresh, &binary)

	kernel := StructuringElement(radius)
	defer kernel.Close()

	opening := gocv.NewMat()
	defer opening.Close()
	closing := gocv.NewMat()
	defer closing.Close()
	Morphology(binary, kernel, &opening, &closing)

	combined := gocv.NewMat()
	defer combined.Close()
	Recombine(opening, closing, e.mode, &combined)

	plane := gocv.NewMat()
	defer plane.Close()
	if err := ReduceChannels(combined, &plane); err != nil {
		return nil, err
	}
	Brighten(&plane, e.mode)

	result := &Result{
		Mask:             gocv.NewMat(),
		Foreground:       gocv.NewMat(),
		ForegroundPixels: gocv.CountNonZero(plane),
	}
	Replicate(plane, &result.Mask)
	ApplyMask(curr, result.Mask, &result.Foreground)

	e.logger.Debug("Segmentation", "frame segmented", map[string]interface{}{
		"threshold":         thresh,
		"radius":            radius,
		"mode":              e.mode.String(),
		"foreground_pixels": result.ForegroundPixels,
		"duration_ms":       time.Since(start).Milliseconds(),
	})

	return result, nil
}

func validateInputs(prev, curr gocv.Mat, thresh, radius int) error {
	if err := safe.ValidateColorFrame(prev, "Segment previous"); err != nil {
		return errors.Wrap(ErrInvalidFrame, err.Error())
	}
	if err := safe.ValidateColorFrame(curr, "Segment current"); err != nil {
		return errors.Wrap(ErrInvalidFrame, err.Error())
	}
	if err := safe.ValidateSameSize(prev, curr, "Segment"); err != nil {
		return errors.Wrap(ErrInvalidFrame, err.Error())
	}
	if thresh < threshold.Min || thresh > threshold.Max {
		return errors.Wrapf(ErrInvalidParameter, "threshold %d outside [%d, %d]", thresh, threshold.Min, threshold.Max)
	}
	if radius < 0 {
		return errors.Wrapf(ErrInvalidParameter, "negative radius %d", radius)
	}
	return nil
}
