package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellW = 8
	cellH = 16
)

var errNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterizes canvas frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int // hundredths of a second per frame
}

func NewRecorder(fps int) *Recorder {
	delay := 2
	if fps > 0 {
		delay = 100 / fps
	}
	return &Recorder{delay: delay}
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture draws every raised dot of c as a white block on black.
func (r *Recorder) Capture(c *Canvas, ink color.Color) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), color.Palette{color.Black, ink})
	dotW, dotH := cellW/2, cellH/4

	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and clears them.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}

func themeInk() color.Color {
	r, g, b := parseHex(string(CurrentTheme.Water))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
