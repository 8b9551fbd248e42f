package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/plife/internal/life"
)

// DefaultMaxFrames caps a recording so a forgotten toggle cannot exhaust memory.
const DefaultMaxFrames = 600

// Recorder captures snapshots into paletted frames, one palette entry per
// group plus a black background.
type Recorder struct {
	Width, Height int
	Dot           int
	Delay         int // hundredths of a second between frames
	MaxFrames     int

	palette color.Palette
	frames  []*image.Paletted
}

// NewRecorder sizes frames to width pixels wide, keeping the world's aspect ratio.
func NewRecorder(s *life.Snapshot, width int) *Recorder {
	height := width
	if s.Bounds.Width > 0 {
		height = max(int(float64(width)*s.Bounds.Height/s.Bounds.Width), 1)
	}
	pal := color.Palette{color.Black}
	for _, g := range s.Groups {
		pal = append(pal, g.Color)
	}
	return &Recorder{
		Width:     width,
		Height:    height,
		Dot:       2,
		Delay:     3,
		MaxFrames: DefaultMaxFrames,
		palette:   pal,
	}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Full reports whether the frame cap has been reached.
func (r *Recorder) Full() bool { return r.MaxFrames > 0 && len(r.frames) >= r.MaxFrames }

// Capture renders s into a new frame. Frames beyond MaxFrames are ignored.
func (r *Recorder) Capture(s *life.Snapshot) {
	if r.Full() || s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return
	}
	img := image.NewPaletted(image.Rect(0, 0, r.Width, r.Height), r.palette)
	sx := float64(r.Width) / s.Bounds.Width
	sy := float64(r.Height) / s.Bounds.Height
	for sp := range s.All() {
		idx := uint8(sp.Group + 1)
		if int(idx) >= len(r.palette) {
			continue
		}
		x0, y0 := int(sp.Pos.X*sx), int(sp.Pos.Y*sy)
		for dy := range r.Dot {
			for dx := range r.Dot {
				x, y := x0+dx, y0+dy
				if x < r.Width && y < r.Height {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes all captured frames as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
