package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/particlefield/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBlank = 0x2800

	// CellWidth and CellHeight approximate a terminal cell in pixels.
	CellWidth  = 8
	CellHeight = 16
)

type ink struct {
	color colorful.Color
	alpha float64
}

type pen struct {
	alpha     float64
	lineWidth float64
	color     field.Color
}

// Canvas is a Braille dot grid that implements field.Surface. Surface
// coordinates are pixels; each dot covers CellWidth/2 x CellHeight/4 of them.
// A cell takes the colour of the most opaque stroke that touched it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Background    colorful.Color

	inks  [][]ink
	pen   pen
	saved []pen
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{pen: pen{alpha: 1, lineWidth: 1}}
	c.alloc(w, h)
	return c
}

func (c *Canvas) alloc(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.inks = make([][]ink, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.inks[i] = make([]ink, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Set sets a dot at (x, y) in dot coordinates.
// The canvas size in dots is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])

	if c.pen.color.IsZero() {
		return
	}
	a := c.pen.alpha * c.pen.color.Alpha()
	if cell := &c.inks[row][col]; a >= cell.alpha {
		cell.color = c.pen.color.RGB()
		cell.alpha = a
	}
}

// Unset clears a dot
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.inks[i][j] = ink{}
		}
	}
}

// DrawLine draws a line in dot coordinates using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Size reports the canvas in pixels.
func (c *Canvas) Size() (int, int) {
	return c.Width * CellWidth, c.Height * CellHeight
}

// Resize reallocates the grid to cover w x h pixels.
func (c *Canvas) Resize(w, h int) {
	c.alloc((w+CellWidth-1)/CellWidth, (h+CellHeight-1)/CellHeight)
}

func (c *Canvas) Save() { c.saved = append(c.saved, c.pen) }

func (c *Canvas) Restore() {
	if n := len(c.saved); n > 0 {
		c.pen = c.saved[n-1]
		c.saved = c.saved[:n-1]
	}
}

func (c *Canvas) SetAlpha(a float64)       { c.pen.alpha = a }
func (c *Canvas) SetColor(col field.Color) { c.pen.color = col }
func (c *Canvas) SetLineWidth(w float64)   { c.pen.lineWidth = w }

const (
	dotW = CellWidth / 2
	dotH = CellHeight / 4
)

func toDot(x, y float64) (int, int) {
	return int(math.Floor(x / dotW)), int(math.Floor(y / dotH))
}

// FillCircle sets every dot whose centre lies inside the circle, and
// always the dot under the centre so small particles stay visible.
func (c *Canvas) FillCircle(x, y, r float64) {
	cx, cy := toDot(x, y)
	c.Set(cx, cy)

	rx, ry := int(math.Ceil(r/dotW)), int(math.Ceil(r/dotH))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			px := (float64(cx+dx) + 0.5) * dotW
			py := (float64(cy+dy) + 0.5) * dotH
			if math.Hypot(px-x, py-y) <= r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// StrokeLine draws a one-dot line. Hairlines thinner than a quarter
// pixel are skipped.
func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64) {
	if c.pen.lineWidth < 0.25 {
		return
	}
	ax, ay := toDot(x0, y0)
	bx, by := toDot(x1, y1)
	c.DrawLine(ax, ay, bx, by)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the grid with each cell's ink composited over the
// background. Runs of equal colour share one style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runHex)).Render(run.String()))
			}
			run.Reset()
		}

		for j, r := range row {
			hex := ""
			if fg, ok := c.inked(i, j); ok {
				hex = fg.Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Cell returns the rune at (col, row) and its ink composited over the
// background. ok is false for blank or uncoloured cells.
func (c *Canvas) Cell(col, row int) (r rune, fg colorful.Color, ok bool) {
	if row < 0 || row >= c.Height || col < 0 || col >= c.Width {
		return brailleBlank, c.Background, false
	}
	fg, ok = c.inked(row, col)
	return c.Grid[row][col], fg, ok
}

func (c *Canvas) inked(row, col int) (colorful.Color, bool) {
	in := c.inks[row][col]
	if c.Grid[row][col] == brailleBlank || in.alpha <= 0 {
		return c.Background, false
	}
	return c.Background.BlendRgb(in.color, clamp01(in.alpha)).Clamped(), true
}

// Dots counts the dots currently set.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			bits := int(r - brailleBlank)
			for bits != 0 {
				n += bits & 1
				bits >>= 1
			}
		}
	}
	return n
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
