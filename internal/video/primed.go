package video

import "gocv.io/x/gocv"

type frameReader interface {
	Next(dst *gocv.Mat) error
}

// Primed replays a frame that was read ahead of time, then continues with
// the underlying reader. It lets the caller size the output writer from the
// first frame without losing it.
type Primed struct {
	first    gocv.Mat
	reader   frameReader
	replayed bool
}

// NewPrimed takes ownership of first. It is released once replayed, or by
// Close if the frame was never consumed.
func NewPrimed(first gocv.Mat, reader frameReader) *Primed {
	return &Primed{first: first, reader: reader}
}

func (p *Primed) Next(dst *gocv.Mat) error {
	if !p.replayed {
		p.replayed = true
		p.first.CopyTo(dst)
		return p.first.Close()
	}
	return p.reader.Next(dst)
}

func (p *Primed) Close() error {
	if p.replayed {
		return nil
	}
	p.replayed = true
	return p.first.Close()
}
