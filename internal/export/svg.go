// Package export writes single frames of a particle field as SVG.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/particlefield/internal/field"
)

type svgPen struct {
	alpha     float64
	lineWidth float64
	color     field.Color
}

// SVG is a field.Surface that keeps the last frame as SVG elements.
// Clear drops everything drawn since the previous Clear.
type SVG struct {
	width, height int
	background    colorful.Color

	pen   svgPen
	saved []svgPen
	body  strings.Builder
	count int
}

func NewSVG(w, h int, bg colorful.Color) *SVG {
	return &SVG{width: w, height: h, background: bg, pen: svgPen{alpha: 1, lineWidth: 1}}
}

func (s *SVG) Size() (int, int)       { return s.width, s.height }
func (s *SVG) Resize(w, h int)        { s.width, s.height = w, h }
func (s *SVG) Save()                  { s.saved = append(s.saved, s.pen) }
func (s *SVG) SetAlpha(a float64)     { s.pen.alpha = a }
func (s *SVG) SetColor(c field.Color) { s.pen.color = c }
func (s *SVG) SetLineWidth(w float64) { s.pen.lineWidth = w }
func (s *SVG) opacity() float64       { return s.pen.alpha * s.pen.color.Alpha() }
func (s *SVG) Elements() int          { return s.count }

func (s *SVG) Clear() {
	s.body.Reset()
	s.count = 0
}

func (s *SVG) Restore() {
	if n := len(s.saved); n > 0 {
		s.pen = s.saved[n-1]
		s.saved = s.saved[:n-1]
	}
}

func (s *SVG) FillCircle(x, y, r float64) {
	fmt.Fprintf(&s.body, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" fill-opacity=\"%.3f\"/>\n",
		x, y, r, s.pen.color.Hex(), s.opacity())
	s.count++
}

func (s *SVG) StrokeLine(x0, y0, x1, y1 float64) {
	fmt.Fprintf(&s.body, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-opacity=\"%.3f\" stroke-width=\"%.2f\"/>\n",
		x0, y0, x1, y1, s.pen.color.Hex(), s.opacity(), s.pen.lineWidth)
	s.count++
}

// WriteTo writes the current frame as a standalone SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, s.background.Hex())
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (s *SVG) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *SVG) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}
