// Package raster renders a particle field into images with a software
// canvas and encodes runs as animated GIFs.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/particlefield/internal/field"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Surface is a field.Surface backed by an in-memory RGBA canvas.
type Surface struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	bg      colorful.Color
}

func NewSurface(w, h int, bg colorful.Color) *Surface {
	b := softwarebackend.New(max(w, 1), max(h, 1))
	return &Surface{backend: b, cv: canvas.New(b), bg: bg}
}

func (s *Surface) Size() (int, int) { return s.cv.Width(), s.cv.Height() }

func (s *Surface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.backend.SetSize(max(w, 1), max(h, 1))
}

// Clear paints the whole surface in the background colour.
func (s *Surface) Clear() {
	w, h := s.Size()
	s.cv.Save()
	s.cv.SetGlobalAlpha(1)
	s.cv.SetFillStyle(s.bg.Hex())
	s.cv.FillRect(0, 0, float64(w), float64(h))
	s.cv.Restore()
}

func (s *Surface) Save()                  { s.cv.Save() }
func (s *Surface) Restore()               { s.cv.Restore() }
func (s *Surface) SetAlpha(a float64)     { s.cv.SetGlobalAlpha(a) }
func (s *Surface) SetLineWidth(w float64) { s.cv.SetLineWidth(w) }

func (s *Surface) SetColor(c field.Color) {
	r, g, b := c.RGB().RGB255()
	col := color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(c.Alpha() * 255))}
	s.cv.SetFillStyle(col)
	s.cv.SetStrokeStyle(col)
}

func (s *Surface) FillCircle(x, y, r float64) {
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, 2*math.Pi, false)
	s.cv.ClosePath()
	s.cv.Fill()
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	s.cv.BeginPath()
	s.cv.MoveTo(x0, y0)
	s.cv.LineTo(x1, y1)
	s.cv.Stroke()
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.RGBA {
	w, h := s.Size()
	return s.cv.GetImageData(0, 0, w, h)
}

// Background is the colour Clear paints.
func (s *Surface) Background() colorful.Color { return s.bg }
