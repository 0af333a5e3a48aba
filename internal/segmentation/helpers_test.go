package segmentation

import (
	"math/rand"
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(t *testing.T, rows, cols int, b, g, r float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

func randomFrame(t *testing.T, rng *rand.Rand, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			for c := 0; c < 3; c++ {
				m.SetUCharAt3(y, x, c, uint8(rng.Intn(256)))
			}
		}
	}
	return m
}

func setPixel(m gocv.Mat, row, col int, b, g, r uint8) {
	m.SetUCharAt3(row, col, 0, b)
	m.SetUCharAt3(row, col, 1, g)
	m.SetUCharAt3(row, col, 2, r)
}

func segment(t *testing.T, e *Engine, prev, curr gocv.Mat, thresh, radius int) *Result {
	t.Helper()
	res, err := e.Segment(prev, curr, thresh, radius)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	t.Cleanup(func() { res.Close() })
	return res
}

func allBytes(m gocv.Mat, want uint8) bool {
	for _, b := range m.ToBytes() {
		if b != want {
			return false
		}
	}
	return true
}

func whitePixels(m gocv.Mat) int {
	n := 0
	for y := 0; y < m.Rows(); y++ {
		for x := 0; x < m.Cols(); x++ {
			if m.GetUCharAt3(y, x, 0) == 255 {
				n++
			}
		}
	}
	return n
}
