package field

// Surface is a 2D drawing context sized in pixels.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	Save()
	Restore()
	SetAlpha(alpha float64)
	SetColor(c Color)
	SetLineWidth(w float64)
	FillCircle(x, y, r float64)
	StrokeLine(x0, y0, x1, y1 float64)
}

// Viewport reports the host's visible area and notifies size changes.
type Viewport interface {
	Size() (width, height int)
	// OnResize registers fn and returns a function that removes it.
	OnResize(fn func(width, height int)) (remove func())
}

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler runs a callback once, right before the host's next repaint.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Host supplies everything an Animator needs from its environment.
type Host interface {
	AcquireSurface() (Surface, error)
	Viewport() Viewport
	Scheduler() Scheduler
}

// FrameStats summarises the work done by one frame.
type FrameStats struct {
	Frame    uint64
	Recycled int
	Circles  int
	Lines    int
}

// Observer receives FrameStats after each frame's draw pass.
type Observer interface {
	OnFrame(s FrameStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameStats)

func (f ObserverFunc) OnFrame(s FrameStats) { f(s) }
