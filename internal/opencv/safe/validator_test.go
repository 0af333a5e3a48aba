package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestValidateMatForOperation(t *testing.T) {
	assert.Error(t, ValidateMatForOperation(gocv.Mat{}, "zero value"))

	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, ValidateMatForOperation(empty, "empty"))

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8UC1)
	defer m.Close()
	assert.NoError(t, ValidateMatForOperation(m, "ok"))
}

func TestValidateColorFrame(t *testing.T) {
	gray := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer gray.Close()
	assert.Error(t, ValidateColorFrame(gray, "gray"))

	color := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer color.Close()
	assert.NoError(t, ValidateColorFrame(color, "color"))
}

func TestValidateSameSize(t *testing.T) {
	a := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := gocv.NewMatWithSize(4, 5, gocv.MatTypeCV8UC3)
	defer b.Close()
	c := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer c.Close()
	d := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer d.Close()

	assert.Error(t, ValidateSameSize(a, b, "width"))
	assert.Error(t, ValidateSameSize(a, c, "type"))
	assert.NoError(t, ValidateSameSize(a, d, "match"))
}

func TestValidateChannel(t *testing.T) {
	assert.NoError(t, ValidateChannel(2, 3, "split"))
	assert.Error(t, ValidateChannel(3, 3, "split"))
	assert.Error(t, ValidateChannel(-1, 3, "split"))
}
