package raster

import (
	"errors"

	"github.com/san-kum/particlefield/internal/field"
)

var ErrNotMounted = errors.New("raster: animator did not mount")

// fixedViewport never resizes.
type fixedViewport struct{ w, h int }

func (v fixedViewport) Size() (int, int)               { return v.w, v.h }
func (v fixedViewport) OnResize(func(w, h int)) func() { return func() {} }

// Host runs an animator offscreen as fast as frames can be drawn.
type Host struct {
	surface *Surface
	view    fixedViewport
	queue   *field.FrameQueue
}

func NewHost(s *Surface) *Host {
	w, h := s.Size()
	return &Host{surface: s, view: fixedViewport{w, h}, queue: field.NewFrameQueue()}
}

func (h *Host) AcquireSurface() (field.Surface, error) { return h.surface, nil }
func (h *Host) Viewport() field.Viewport               { return h.view }
func (h *Host) Scheduler() field.Scheduler             { return h.queue }

// Record mounts anim, runs frames and hands every rendered frame to g.
// It returns the pool as it stood after the last frame; the animator is
// unmounted on return.
func (h *Host) Record(anim *field.Animator, frames int, g *GIFRecorder) ([]field.Particle, error) {
	anim.Mount(h)
	defer anim.Unmount()
	if anim.State() != field.Running {
		return nil, ErrNotMounted
	}
	for i := 0; i < frames; i++ {
		if h.queue.Flush() == 0 {
			break
		}
		if g != nil {
			g.Capture(h.surface.Image())
		}
	}
	return anim.Pool(), nil
}
