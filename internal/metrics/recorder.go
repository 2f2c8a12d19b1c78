package metrics

import (
	"sort"

	"github.com/san-kum/particlefield/internal/field"
)

const DefaultHistory = 600

// Recorder is a field.Observer that feeds a set of metrics and keeps a
// bounded history of recent frames for plotting.
type Recorder struct {
	metrics  []Metric
	capacity int
	history  []field.FrameStats
	last     field.FrameStats
}

func NewRecorder(capacity int, ms ...Metric) *Recorder {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	if len(ms) == 0 {
		ms = Default()
	}
	return &Recorder{
		metrics:  ms,
		capacity: capacity,
		history:  make([]field.FrameStats, 0, capacity),
	}
}

func (r *Recorder) OnFrame(s field.FrameStats) {
	for _, m := range r.metrics {
		m.Observe(s)
	}
	r.last = s
	r.history = append(r.history, s)
	if len(r.history) > r.capacity {
		r.history = r.history[1:]
	}
}

func (r *Recorder) Last() field.FrameStats { return r.last }

// Series extracts one value per recorded frame, oldest first.
func (r *Recorder) Series(pick func(field.FrameStats) float64) []float64 {
	out := make([]float64, len(r.history))
	for i, s := range r.history {
		out[i] = pick(s)
	}
	return out
}

func Recycled(s field.FrameStats) float64 { return float64(s.Recycled) }
func Lines(s field.FrameStats) float64    { return float64(s.Lines) }
func Circles(s field.FrameStats) float64  { return float64(s.Circles) }

// Values returns metric name to value.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.history = r.history[:0]
	r.last = field.FrameStats{}
}

// Names returns the metric names sorted.
func (r *Recorder) Names() []string {
	names := make([]string, 0, len(r.metrics))
	for _, m := range r.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
