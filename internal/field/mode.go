package field

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how particles move and how they are drawn.
type Mode string

const (
	ModeDNA       Mode = "dna"
	ModeMolecules Mode = "molecules"
	ModeNetwork   Mode = "network"
)

const (
	DefaultPoolSize = 100
	NetworkPoolSize = 50
)

// ParseMode normalises s. Unknown names are kept and animate with the
// fallback style.
func ParseMode(s string) Mode {
	return Mode(strings.ToLower(strings.TrimSpace(s)))
}

// ParseModeStrict is ParseMode that rejects names without a style.
func ParseModeStrict(s string) (Mode, error) {
	m := ParseMode(s)
	if !m.Known() {
		return m, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMode, s, Modes())
	}
	return m, nil
}

// Modes lists the modes with a dedicated style.
func Modes() []Mode {
	return []Mode{ModeDNA, ModeMolecules, ModeNetwork}
}

func (m Mode) Known() bool {
	_, ok := styles[m]
	return ok
}

func (m Mode) PoolSize() int {
	return styleFor(m).poolSize
}

func (m Mode) String() string { return string(m) }

// style pairs a motion function with a draw function. It is resolved
// once per mount.
type style struct {
	poolSize int
	move     func(p *Particle)
	draw     func(s Surface, pool []Particle, i int, st *FrameStats)
}

var styles = map[Mode]style{
	ModeDNA: {
		poolSize: DefaultPoolSize,
		move: func(p *Particle) {
			p.Y += p.Speed
			p.X += math.Sin(float64(p.Age)*0.01) * 0.5
		},
		draw: drawRung,
	},
	ModeMolecules: {
		poolSize: DefaultPoolSize,
		move: func(p *Particle) {
			p.Y += p.Speed * 0.7
			p.X += math.Cos(float64(p.Age)*0.02) * 0.8
		},
		draw: drawMolecule,
	},
	ModeNetwork: {
		poolSize: NetworkPoolSize,
		move: func(p *Particle) {
			p.Y += p.Speed * 0.5
			p.X += math.Sin(float64(p.Age)*0.015) * 1.2
		},
		draw: drawNode,
	},
}

var fallbackStyle = style{
	poolSize: DefaultPoolSize,
	move:     func(p *Particle) { p.Y += p.Speed },
	draw:     drawDot,
}

func styleFor(m Mode) style {
	if st, ok := styles[m]; ok {
		return st
	}
	return fallbackStyle
}

func drawDot(s Surface, pool []Particle, i int, st *FrameStats) {
	p := &pool[i]
	s.FillCircle(p.X, p.Y, p.Size)
	st.Circles++
}

// drawRung is a dot with a horizontal bar through it, a ladder rung.
func drawRung(s Surface, pool []Particle, i int, st *FrameStats) {
	drawDot(s, pool, i, st)
	p := &pool[i]
	half := p.Size * 2
	s.SetLineWidth(1)
	s.StrokeLine(p.X-half, p.Y, p.X+half, p.Y)
	st.Lines++
}

// drawMolecule is a dot with three bonds 120 degrees apart, each capped
// with a smaller atom.
func drawMolecule(s Surface, pool []Particle, i int, st *FrameStats) {
	drawDot(s, pool, i, st)
	p := &pool[i]
	bond := p.Size * 3
	s.SetLineWidth(1)
	for k := 0; k < 3; k++ {
		angle := float64(k) / 3 * 2 * math.Pi
		ex := p.X + math.Cos(angle)*bond
		ey := p.Y + math.Sin(angle)*bond
		s.StrokeLine(p.X, p.Y, ex, ey)
		s.FillCircle(ex, ey, p.Size*0.6)
		st.Lines++
		st.Circles++
	}
}

// drawNode is a dot joined to every other particle within LinkDistance.
// The scan is O(n^2), which is fine at NetworkPoolSize.
func drawNode(s Surface, pool []Particle, i int, st *FrameStats) {
	drawDot(s, pool, i, st)
	p := &pool[i]
	for j := range pool {
		if j == i {
			continue
		}
		d := Distance(*p, pool[j])
		if d >= LinkDistance {
			continue
		}
		k := linkStrength(d)
		s.SetLineWidth(k)
		s.SetAlpha(p.Opacity * k)
		s.StrokeLine(p.X, p.Y, pool[j].X, pool[j].Y)
		st.Lines++
	}
}
