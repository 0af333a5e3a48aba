package video

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// StillExporter writes single frames as out_<frameNumber>.jpg into Dir.
type StillExporter struct {
	Dir string
}

func NewStillExporter(dir string) (*StillExporter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create stills directory %s", dir)
	}
	return &StillExporter{Dir: dir}, nil
}

func StillName(frameNumber int) string {
	return fmt.Sprintf("out_%d.jpg", frameNumber)
}

func (s *StillExporter) WriteStill(frame gocv.Mat, frameNumber int) (string, error) {
	path := filepath.Join(s.Dir, StillName(frameNumber))
	if !gocv.IMWrite(path, frame) {
		return "", errors.Errorf("could not write still %s", path)
	}
	return path, nil
}
