package metrics

import "github.com/san-kum/particlefield/internal/field"

// Metric accumulates one number over a run of frames.
type Metric interface {
	Name() string
	Observe(s field.FrameStats)
	Value() float64
	Reset()
}

// mean is the shared running-average bookkeeping.
type mean struct {
	name    string
	samples int
	total   float64
	pick    func(field.FrameStats) float64
}

func (m *mean) Name() string { return m.name }

func (m *mean) Observe(s field.FrameStats) {
	m.total += m.pick(s)
	m.samples++
}

func (m *mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *mean) Reset() {
	m.total = 0
	m.samples = 0
}

// NewRecycleRate averages recycled particles per frame.
func NewRecycleRate() Metric {
	return &mean{name: "recycle_rate", pick: func(s field.FrameStats) float64 { return float64(s.Recycled) }}
}

// NewLineDensity averages line segments per frame.
func NewLineDensity() Metric {
	return &mean{name: "line_density", pick: func(s field.FrameStats) float64 { return float64(s.Lines) }}
}

// NewDrawLoad averages total primitives per frame.
func NewDrawLoad() Metric {
	return &mean{name: "draw_load", pick: func(s field.FrameStats) float64 { return float64(s.Lines + s.Circles) }}
}

// PeakLines tracks the busiest frame.
type PeakLines struct {
	peak int
}

func NewPeakLines() *PeakLines { return &PeakLines{} }

func (p *PeakLines) Name() string { return "peak_lines" }

func (p *PeakLines) Observe(s field.FrameStats) {
	if s.Lines > p.peak {
		p.peak = s.Lines
	}
}

func (p *PeakLines) Value() float64 { return float64(p.peak) }
func (p *PeakLines) Reset()         { p.peak = 0 }

// Default returns the metrics every run reports.
func Default() []Metric {
	return []Metric{NewRecycleRate(), NewLineDensity(), NewDrawLoad(), NewPeakLines()}
}
