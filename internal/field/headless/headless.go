// Package headless provides a pixel-free host for the particle field.
// It counts drawing calls instead of rasterising them, which is what the
// bench and trace commands and most tests need.
package headless

import (
	"errors"

	"github.com/san-kum/particlefield/internal/field"
)

// Surface counts the calls made against it.
type Surface struct {
	Width, Height int

	Clears   int
	Circles  int
	Lines    int
	Resizes  int
	Colors   map[string]int
	LastLine float64

	depth  int
	alpha  float64
	stack  []float64
	Alphas []float64
}

func NewSurface(w, h int) *Surface {
	return &Surface{Width: w, Height: h, alpha: 1, Colors: make(map[string]int)}
}

func (s *Surface) Size() (int, int) { return s.Width, s.Height }

func (s *Surface) Resize(w, h int) {
	s.Width, s.Height = w, h
	s.Resizes++
}

func (s *Surface) Clear() { s.Clears++ }

func (s *Surface) Save() {
	s.depth++
	s.stack = append(s.stack, s.alpha)
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.depth--
	s.alpha = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) SetAlpha(a float64) { s.alpha = a }

func (s *Surface) SetColor(c field.Color) { s.Colors[c.String()]++ }

func (s *Surface) SetLineWidth(w float64) { s.LastLine = w }

func (s *Surface) FillCircle(x, y, r float64) { s.Circles++ }

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	s.Lines++
	s.Alphas = append(s.Alphas, s.alpha)
}

// Draws is the total number of primitives drawn.
func (s *Surface) Draws() int { return s.Circles + s.Lines }

// Depth reports unbalanced Save calls.
func (s *Surface) Depth() int { return s.depth }

// Reset zeroes the counters but keeps the size.
func (s *Surface) Reset() {
	s.Clears, s.Circles, s.Lines, s.Resizes = 0, 0, 0, 0
	s.Colors = make(map[string]int)
	s.Alphas = nil
}

// Viewport is a settable viewport.
type Viewport struct {
	width, height int
	next          int
	listeners     map[int]func(int, int)
}

func NewViewport(w, h int) *Viewport {
	return &Viewport{width: w, height: h, listeners: make(map[int]func(int, int))}
}

func (v *Viewport) Size() (int, int) { return v.width, v.height }

func (v *Viewport) OnResize(fn func(int, int)) func() {
	v.next++
	id := v.next
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// Resize changes the size and notifies every listener.
func (v *Viewport) Resize(w, h int) {
	v.width, v.height = w, h
	for _, fn := range v.listeners {
		fn(w, h)
	}
}

// Listeners reports how many resize listeners are registered.
func (v *Viewport) Listeners() int { return len(v.listeners) }

// ErrNoCanvas is returned by a Host built without a surface.
var ErrNoCanvas = errors.New("headless: no canvas")

// Host bundles a Surface, Viewport and FrameQueue.
type Host struct {
	Surf  *Surface
	View  *Viewport
	Queue *field.FrameQueue
}

// NewHost builds a host of the given pixel size.
func NewHost(w, h int) *Host {
	return &Host{
		Surf:  NewSurface(w, h),
		View:  NewViewport(w, h),
		Queue: field.NewFrameQueue(),
	}
}

func (h *Host) AcquireSurface() (field.Surface, error) {
	if h.Surf == nil {
		return nil, ErrNoCanvas
	}
	return h.Surf, nil
}

func (h *Host) Viewport() field.Viewport { return h.View }

func (h *Host) Scheduler() field.Scheduler { return h.Queue }

// Frames flushes the queue n times, one repaint each, and returns the
// number of callbacks that ran.
func (h *Host) Frames(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		ran += h.Queue.Flush()
	}
	return ran
}
