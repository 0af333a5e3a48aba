package display

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"vseg/internal/logger"
	"vseg/internal/pipeline"
	"vseg/internal/threshold"
)

const (
	AppID   = "io.vseg.segmenter"
	AppName = "Video Segmentation"

	ImageAreaWidth  = 480
	ImageAreaHeight = 360

	keyBuffer = 8
)

// Fyne shows both outputs side by side under a threshold slider. Slider and
// key callbacks run on the fyne event goroutine, so the threshold is only
// touched through the atomic controller and keys travel over a channel.
type Fyne struct {
	app            fyne.App
	window         fyne.Window
	maskImage      *canvas.Image
	foregroundImg  *canvas.Image
	slider         *widget.Slider
	thresholdLabel *widget.Label
	ctrl           *threshold.Controller
	keys           chan pipeline.Key
	logger         logger.Logger
}

func NewFyne(ctrl *threshold.Controller, log logger.Logger) *Fyne {
	return NewFyneWithApp(app.NewWithID(AppID), ctrl, log)
}

// NewFyneWithApp builds the window on an existing fyne application.
func NewFyneWithApp(a fyne.App, ctrl *threshold.Controller, log logger.Logger) *Fyne {
	f := &Fyne{
		app:    a,
		ctrl:   ctrl,
		keys:   make(chan pipeline.Key, keyBuffer),
		logger: log,
	}
	f.createComponents()
	f.setupLayout()
	return f
}

func (f *Fyne) createComponents() {
	f.maskImage = newFrameCanvas()
	f.foregroundImg = newFrameCanvas()

	f.thresholdLabel = widget.NewLabel(thresholdText(f.ctrl.Get()))

	f.slider = widget.NewSlider(threshold.Min, threshold.Max)
	f.slider.Step = 1
	f.slider.SetValue(float64(f.ctrl.Get()))
	f.slider.OnChanged = f.onThresholdChanged
}

func newFrameCanvas() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (f *Fyne) setupLayout() {
	maskContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**"+maskWindowName+"**"),
		nil, nil, nil,
		f.maskImage,
	)
	outputContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**"+outputWindowName+"**"),
		nil, nil, nil,
		f.foregroundImg,
	)

	split := container.NewHSplit(maskContainer, outputContainer)
	split.SetOffset(0.5)

	controls := container.NewBorder(nil, nil, f.thresholdLabel, nil, f.slider)
	hint := widget.NewLabel("space: save foreground    esc: quit")

	f.window = f.app.NewWindow(AppName)
	f.window.SetContent(container.NewBorder(controls, hint, nil, nil, split))
	f.window.Canvas().SetOnTypedKey(f.onTypedKey)
	f.window.SetMaster()
}

func (f *Fyne) onThresholdChanged(value float64) {
	stored := f.ctrl.Set(int(value))
	f.thresholdLabel.SetText(thresholdText(stored))
	f.logger.Debug("FyneDisplay", "threshold changed", map[string]interface{}{
		"threshold": stored,
	})
}

func (f *Fyne) onTypedKey(ev *fyne.KeyEvent) {
	key := keyFromName(ev.Name)
	if key == pipeline.KeyNone {
		return
	}
	select {
	case f.keys <- key:
	default:
		f.logger.Warning("FyneDisplay", "key dropped, pipeline is not polling", map[string]interface{}{
			"key": key.String(),
		})
	}
}

func (f *Fyne) Show(mask, foreground gocv.Mat) error {
	maskImg, err := mask.ToImage()
	if err != nil {
		return errors.Wrap(err, "convert mask")
	}
	fgImg, err := foreground.ToImage()
	if err != nil {
		return errors.Wrap(err, "convert foreground")
	}

	fyne.Do(func() {
		setImage(f.maskImage, maskImg)
		setImage(f.foregroundImg, fgImg)
	})
	return nil
}

func setImage(c *canvas.Image, img image.Image) {
	c.Image = img
	c.Refresh()
}

// PollKey waits up to the same delay as the highgui backend for a key.
func (f *Fyne) PollKey() pipeline.Key {
	timer := time.NewTimer(keyDelayMillis * time.Millisecond)
	defer timer.Stop()

	select {
	case key := <-f.keys:
		return key
	case <-timer.C:
		return pipeline.KeyNone
	}
}

// Run blocks in the fyne event loop while loop runs on its own goroutine.
// Closing the window cancels the loop's context; the loop finishing or ctx
// being cancelled quits the application.
func (f *Fyne) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.window.SetOnClosed(cancel)

	var quitOnce sync.Once
	quit := func() {
		quitOnce.Do(func() { fyne.Do(f.app.Quit) })
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- loop(runCtx)
		quit()
	}()
	go func() {
		<-runCtx.Done()
		quit()
	}()

	f.window.ShowAndRun()
	cancel()

	return <-errCh
}

func (f *Fyne) Close() error {
	return nil
}

func keyFromName(name fyne.KeyName) pipeline.Key {
	switch name {
	case fyne.KeySpace:
		return pipeline.KeySnapshot
	case fyne.KeyEscape:
		return pipeline.KeyQuit
	default:
		return pipeline.KeyNone
	}
}

func thresholdText(v int) string {
	return fmt.Sprintf("Threshold: %3d", v)
}
