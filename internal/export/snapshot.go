package export

import (
	"errors"

	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/field/headless"
)

var ErrNotMounted = errors.New("export: animator did not mount")

type snapshotHost struct {
	svg   *SVG
	view  *headless.Viewport
	queue *field.FrameQueue
}

func (h *snapshotHost) AcquireSurface() (field.Surface, error) { return h.svg, nil }
func (h *snapshotHost) Viewport() field.Viewport               { return h.view }
func (h *snapshotHost) Scheduler() field.Scheduler             { return h.queue }

// Snapshot mounts anim on svg, runs frames and leaves the last one in svg.
func Snapshot(anim *field.Animator, svg *SVG, frames int) error {
	w, h := svg.Size()
	host := &snapshotHost{svg: svg, view: headless.NewViewport(w, h), queue: field.NewFrameQueue()}

	anim.Mount(host)
	defer anim.Unmount()
	if anim.State() != field.Running {
		return ErrNotMounted
	}
	for i := 0; i < max(frames, 1); i++ {
		host.queue.Flush()
	}
	return nil
}
