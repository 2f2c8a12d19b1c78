package field

import (
	"errors"
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in    string
		want  Mode
		known bool
	}{
		{"dna", ModeDNA, true},
		{" Molecules ", ModeMolecules, true},
		{"NETWORK", ModeNetwork, true},
		{"sparkles", Mode("sparkles"), false},
		{"", Mode(""), false},
	}

	for _, tt := range tests {
		m := ParseMode(tt.in)
		if m != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, m, tt.want)
		}
		if m.Known() != tt.known {
			t.Errorf("%q.Known() = %v", m, m.Known())
		}
		_, err := ParseModeStrict(tt.in)
		if tt.known && err != nil {
			t.Errorf("ParseModeStrict(%q) failed: %v", tt.in, err)
		}
		if !tt.known && !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseModeStrict(%q) = %v, want ErrUnknownMode", tt.in, err)
		}
	}
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{ModeDNA, 100},
		{ModeMolecules, 100},
		{ModeNetwork, 50},
		{Mode("other"), 100},
	}
	for _, tt := range tests {
		if got := tt.mode.PoolSize(); got != tt.want {
			t.Errorf("%s: pool size %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestMotion(t *testing.T) {
	tests := []struct {
		mode   Mode
		dx, dy func(p Particle) float64
	}{
		{
			ModeDNA,
			func(p Particle) float64 { return math.Sin(float64(p.Age)*0.01) * 0.5 },
			func(p Particle) float64 { return p.Speed },
		},
		{
			ModeMolecules,
			func(p Particle) float64 { return math.Cos(float64(p.Age)*0.02) * 0.8 },
			func(p Particle) float64 { return p.Speed * 0.7 },
		},
		{
			ModeNetwork,
			func(p Particle) float64 { return math.Sin(float64(p.Age)*0.015) * 1.2 },
			func(p Particle) float64 { return p.Speed * 0.5 },
		},
		{
			Mode("fallback"),
			func(p Particle) float64 { return 0 },
			func(p Particle) float64 { return p.Speed },
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := Particle{X: 100, Y: 50, Speed: 1.5, Age: 314}
			want := p
			want.X += tt.dx(p)
			want.Y += tt.dy(p)

			styleFor(tt.mode).move(&p)
			if math.Abs(p.X-want.X) > 1e-12 || math.Abs(p.Y-want.Y) > 1e-12 {
				t.Errorf("moved to (%f, %f), want (%f, %f)", p.X, p.Y, want.X, want.Y)
			}
		})
	}
}

type callLog struct {
	circles [][3]float64
	lines   [][4]float64
	widths  []float64
	alphas  []float64
	w, h    int
}

func (c *callLog) Size() (int, int)           { return c.w, c.h }
func (c *callLog) Resize(w, h int)            { c.w, c.h = w, h }
func (c *callLog) Clear()                     {}
func (c *callLog) Save()                      {}
func (c *callLog) Restore()                   {}
func (c *callLog) SetAlpha(a float64)         { c.alphas = append(c.alphas, a) }
func (c *callLog) SetColor(Color)             {}
func (c *callLog) SetLineWidth(w float64)     { c.widths = append(c.widths, w) }
func (c *callLog) FillCircle(x, y, r float64) { c.circles = append(c.circles, [3]float64{x, y, r}) }
func (c *callLog) StrokeLine(x0, y0, x1, y1 float64) {
	c.lines = append(c.lines, [4]float64{x0, y0, x1, y1})
}

func TestDrawRung(t *testing.T) {
	s := &callLog{}
	var st FrameStats
	pool := []Particle{{X: 10, Y: 20, Size: 2}}
	drawRung(s, pool, 0, &st)

	if len(s.circles) != 1 || s.circles[0] != [3]float64{10, 20, 2} {
		t.Errorf("circles = %v", s.circles)
	}
	if len(s.lines) != 1 || s.lines[0] != [4]float64{6, 20, 14, 20} {
		t.Errorf("lines = %v", s.lines)
	}
	if st.Circles != 1 || st.Lines != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestDrawMolecule(t *testing.T) {
	s := &callLog{}
	var st FrameStats
	pool := []Particle{{X: 0, Y: 0, Size: 2}}
	drawMolecule(s, pool, 0, &st)

	if len(s.lines) != 3 || len(s.circles) != 4 {
		t.Fatalf("got %d lines, %d circles", len(s.lines), len(s.circles))
	}
	for i, l := range s.lines {
		length := math.Hypot(l[2]-l[0], l[3]-l[1])
		if math.Abs(length-6) > 1e-9 {
			t.Errorf("bond %d length %f, want 6", i, length)
		}
		end := s.circles[i+1]
		if math.Abs(end[2]-1.2) > 1e-9 || end[0] != l[2] || end[1] != l[3] {
			t.Errorf("bond %d end = %v", i, end)
		}
	}
	// first bond points right, the others 120 degrees apart
	if math.Abs(s.lines[0][2]-6) > 1e-9 || math.Abs(s.lines[0][3]) > 1e-9 {
		t.Errorf("first bond ends at (%f, %f)", s.lines[0][2], s.lines[0][3])
	}
}

func TestDrawNode(t *testing.T) {
	s := &callLog{}
	var st FrameStats
	pool := []Particle{
		{X: 0, Y: 0, Size: 1, Opacity: 0.5},
		{X: 30, Y: 40, Size: 1, Opacity: 0.5}, // 50 away
		{X: 200, Y: 0, Size: 1, Opacity: 0.5}, // out of range
		{X: 100, Y: 0, Size: 1, Opacity: 0.5}, // exactly at the limit
	}
	drawNode(s, pool, 0, &st)

	if len(s.lines) != 1 {
		t.Fatalf("expected 1 link, got %d", len(s.lines))
	}
	if math.Abs(s.widths[0]-0.5) > 1e-9 {
		t.Errorf("width %f, want 0.5", s.widths[0])
	}
	if math.Abs(s.alphas[0]-0.25) > 1e-9 {
		t.Errorf("alpha %f, want 0.25", s.alphas[0])
	}
	if st.Lines != 1 || st.Circles != 1 {
		t.Errorf("stats = %+v", st)
	}
}
