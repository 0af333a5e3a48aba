package segmentation

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"vseg/internal/opencv/safe"
)

const maxIntensity = 255

// Difference writes |curr - prev| into dst.
func Difference(prev, curr gocv.Mat, dst *gocv.Mat) {
	gocv.AbsDiff(curr, prev, dst)
}

// Binarize sets every channel value strictly greater than threshold to 255
// and everything else to 0.
func Binarize(diff gocv.Mat, threshold int, dst *gocv.Mat) {
	gocv.Threshold(diff, dst, float32(threshold), maxIntensity, gocv.ThresholdBinary)
}

// StructuringElement returns a (2*radius+1) square kernel anchored at its
// center, (radius, radius). The caller closes it.
func StructuringElement(radius int) gocv.Mat {
	side := 2*radius + 1
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(side, side))
}

// Morphology opens and closes binary independently with the same kernel.
func Morphology(binary, kernel gocv.Mat, opening, closing *gocv.Mat) {
	gocv.MorphologyEx(binary, closing, gocv.MorphClose, kernel)
	gocv.MorphologyEx(binary, opening, gocv.MorphOpen, kernel)
}

func Recombine(opening, closing gocv.Mat, mode Mode, dst *gocv.Mat) {
	if mode == ModeLogical {
		gocv.BitwiseOr(opening, closing, dst)
		return
	}
	gocv.Add(opening, closing, dst)
}

// ReduceChannels ANDs the three channels of mask into the single channel dst.
func ReduceChannels(mask gocv.Mat, dst *gocv.Mat) error {
	if err := safe.ValidateChannel(2, mask.Channels(), "ReduceChannels"); err != nil {
		return errors.Wrap(ErrInvalidFrame, err.Error())
	}

	channels := gocv.Split(mask)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()

	gocv.BitwiseAnd(channels[0], channels[1], dst)
	gocv.BitwiseAnd(*dst, channels[2], dst)
	return nil
}

// Brighten scales plane in place so that foreground pixels reach 255.
func Brighten(plane *gocv.Mat, mode Mode) {
	if mode == ModeLogical {
		gocv.Threshold(*plane, plane, 0, maxIntensity, gocv.ThresholdBinary)
		return
	}
	plane.MultiplyUChar(maxIntensity)
}

// Replicate merges plane into all three channels of dst.
func Replicate(plane gocv.Mat, dst *gocv.Mat) {
	gocv.Merge([]gocv.Mat{plane, plane, plane}, dst)
}

// ApplyMask keeps the pixels of curr that are set in mask and blacks out the
// rest.
func ApplyMask(curr, mask gocv.Mat, dst *gocv.Mat) {
	gocv.BitwiseAnd(curr, mask, dst)
}
