package common

import (
	"fmt"
)

var (
	Canvas4K   = Canvas{Width: 3840, Height: 2160}
	Canvas1080 = Canvas{Width: 1920, Height: 1080}
)

// Canvas is a pixel size. The compiler distinguishes the working canvas
// (what segments are normalized to before compositing) from the desired
// output canvas (the final export size); they may differ, which forces a
// late resize stage.
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func CanvasFromString(str string) (Canvas, error) {
	var c Canvas
	_, err := fmt.Sscanf(str, "%dx%d", &c.Width, &c.Height)
	if err != nil {
		return Canvas{}, fmt.Errorf("failed to parse canvas string %s, err: %v", str, err)
	}
	return c, nil
}

func (c Canvas) FFMpegString() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}

func (c Canvas) Ratio() float64 {
	if c.Height == 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

// Portrait reports whether the canvas is taller than wide.
func (c Canvas) Portrait() bool {
	return c.Height > c.Width
}

func (c Canvas) Zero() bool {
	return c.Width == 0 || c.Height == 0
}

// EnsureEven rounds both dimensions up to even values, which most encoders
// require for 4:2:0 content.
func (c Canvas) EnsureEven() Canvas {
	if c.Width%2 != 0 {
		c.Width++
	}
	if c.Height%2 != 0 {
		c.Height++
	}
	return c
}

// FitWithin returns the biggest canvas with this canvas's aspect ratio that
// fits inside target, so a letterbox/pillarbox pad can fill the rest.
func (c Canvas) FitWithin(target Canvas) Canvas {
	out := target
	if target.Ratio() > c.Ratio() {
		out.Width = int(float64(target.Height) * c.Ratio())
	} else {
		out.Height = int(float64(target.Width) / c.Ratio())
	}
	return out.EnsureEven()
}
