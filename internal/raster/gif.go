package raster

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/particlefield/internal/field"
)

var ErrNoFrames = errors.New("raster: no frames captured")

// BuildPalette returns the GIF palette for a field: the background plus
// each colour faded into it in even steps, at most 256 entries.
func BuildPalette(bg colorful.Color, pal field.Palette) color.Palette {
	out := color.Palette{bg.Clamped()}
	if len(pal) == 0 {
		return out
	}
	steps := min(255/len(pal), 32)
	for _, c := range pal {
		for i := 1; i <= steps; i++ {
			out = append(out, c.Over(bg, float64(i)/float64(steps)))
		}
	}
	return out
}

// GIFRecorder collects frames and encodes them as a looping GIF.
type GIFRecorder struct {
	palette color.Palette
	delay   int
	frames  []*image.Paletted
	index   map[uint32]uint8
}

// NewGIFRecorder records at fps frames per second. GIF delays are in
// hundredths of a second, so rates above 50 are capped.
func NewGIFRecorder(p color.Palette, fps int) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(100/fps, 2)
	}
	return &GIFRecorder{palette: p, delay: delay, index: make(map[uint32]uint8)}
}

// Capture quantises img to the recorder palette and keeps it. Frames
// hold few distinct colours, so nearest-colour lookups are memoised.
func (g *GIFRecorder) Capture(img *image.RGBA) {
	r := img.Rect
	frame := image.NewPaletted(r, g.palette)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			o := img.PixOffset(x, y)
			px := img.Pix[o : o+3 : o+3]
			key := uint32(px[0])<<16 | uint32(px[1])<<8 | uint32(px[2])
			idx, ok := g.index[key]
			if !ok {
				idx = uint8(g.palette.Index(color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xff}))
				g.index[key] = idx
			}
			frame.Pix[frame.PixOffset(x, y)] = idx
		}
	}
	g.frames = append(g.frames, frame)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (g *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
