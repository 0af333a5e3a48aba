// Package threshold holds the live-adjustable segmentation threshold.
package threshold

import "sync/atomic"

const (
	Min = 0
	Max = 255
)

// Controller is a threshold that UI callbacks may update while the pipeline
// reads it once per frame. A read may lag a concurrent write by one frame.
type Controller struct {
	value atomic.Int32
}

func New(initial int) *Controller {
	c := &Controller{}
	c.Set(initial)
	return c
}

func (c *Controller) Get() int {
	return int(c.value.Load())
}

// Set stores v clamped to [Min, Max] and returns the stored value.
func (c *Controller) Set(v int) int {
	v = Clamp(v)
	c.value.Store(int32(v))
	return v
}

func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
