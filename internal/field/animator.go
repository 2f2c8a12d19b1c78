package field

import (
	"io"
	"log"
	"math/rand"
	"time"
)

// State is the animator's lifecycle state.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// DefaultPalette is used when no palette option is given.
var DefaultPalette = MustPalette("#00758a", "#0844b2")

// Animator runs the particle field on a host.
type Animator struct {
	mode      Mode
	palette   Palette
	rng       *rand.Rand
	logger    *log.Logger
	observers []Observer

	state        State
	style        style
	host         Host
	surface      Surface
	sched        Scheduler
	pending      FrameID
	hasPending   bool
	removeResize func()
	gen          uint64

	pool  []Particle
	frame uint64
}

type Option func(*Animator)

func WithMode(m Mode) Option { return func(a *Animator) { a.mode = m } }

func WithPalette(p Palette) Option {
	return func(a *Animator) { a.palette = append(Palette(nil), p...) }
}

// WithRand injects the random source. The animator owns it from then on.
func WithRand(r *rand.Rand) Option { return func(a *Animator) { a.rng = r } }

func WithSeed(seed int64) Option {
	return func(a *Animator) { a.rng = rand.New(rand.NewSource(seed)) }
}

func WithObserver(o Observer) Option {
	return func(a *Animator) { a.observers = append(a.observers, o) }
}

func WithLogger(l *log.Logger) Option { return func(a *Animator) { a.logger = l } }

func New(opts ...Option) *Animator {
	a := &Animator{
		mode:    ModeDNA,
		palette: DefaultPalette,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	return a
}

func (a *Animator) Mode() Mode       { return a.mode }
func (a *Animator) State() State     { return a.state }
func (a *Animator) Frame() uint64    { return a.frame }
func (a *Animator) Palette() Palette { return append(Palette(nil), a.palette...) }

// Pool returns a copy of the particles.
func (a *Animator) Pool() []Particle {
	return append([]Particle(nil), a.pool...)
}

// Mount acquires a surface from h, fills the pool and requests the first
// frame. A host without a surface or scheduler leaves the animator
// stopped. Mounting a running animator remounts it.
func (a *Animator) Mount(h Host) {
	if a.state == Running {
		a.Unmount()
	}

	surf, err := h.AcquireSurface()
	if err != nil || surf == nil {
		a.logger.Printf("field: mount skipped: %v", err)
		return
	}
	sched := h.Scheduler()
	if sched == nil {
		a.logger.Printf("field: mount skipped: no scheduler")
		return
	}

	vp := h.Viewport()
	if vp != nil {
		w, hgt := vp.Size()
		surf.Resize(w, hgt)
		a.removeResize = vp.OnResize(a.resize)
	}

	a.host, a.surface, a.sched = h, surf, sched
	a.style = styleFor(a.mode)
	a.populate()
	a.frame = 0
	a.state = Running
	a.logger.Printf("field: mounted mode=%s particles=%d", a.mode, len(a.pool))
	a.schedule()
}

// Unmount cancels the pending frame and removes the resize listener.
// It is safe to call more than once.
func (a *Animator) Unmount() {
	a.gen++
	if a.hasPending && a.sched != nil {
		a.sched.CancelFrame(a.pending)
	}
	a.hasPending = false
	if a.removeResize != nil {
		a.removeResize()
		a.removeResize = nil
	}
	if a.state == Running {
		a.logger.Printf("field: unmounted after %d frames", a.frame)
	}
	a.state = Stopped
	a.host, a.surface, a.sched = nil, nil, nil
	a.pool = nil
}

// Reconfigure swaps mode and palette. A mounted animator is torn down
// and rebuilt on the same host so no particle outlives its style.
func (a *Animator) Reconfigure(m Mode, p Palette) {
	h := a.host
	running := a.state == Running
	if running {
		a.Unmount()
	}
	a.mode = m
	a.palette = append(Palette(nil), p...)
	if running {
		a.Mount(h)
	}
}

func (a *Animator) populate() {
	w, h := a.surface.Size()
	a.pool = make([]Particle, a.style.poolSize)
	for i := range a.pool {
		a.pool[i].spawn(float64(w), float64(h), a.palette, a.rng)
	}
}

func (a *Animator) resize(w, h int) {
	if a.surface == nil {
		return
	}
	a.surface.Resize(w, h)
}

func (a *Animator) schedule() {
	gen := a.gen
	a.pending = a.sched.RequestFrame(func() { a.runFrame(gen) })
	a.hasPending = true
}

func (a *Animator) runFrame(gen uint64) {
	if a.state != Running || gen != a.gen {
		return
	}
	a.hasPending = false

	st := a.step()
	for _, o := range a.observers {
		o.OnFrame(st)
	}

	// an observer may have unmounted us
	if a.state == Running && gen == a.gen {
		a.schedule()
	}
}

// step clears the surface, then advances and draws every particle in
// pool order.
func (a *Animator) step() FrameStats {
	a.frame++
	st := FrameStats{Frame: a.frame}

	w, h := a.surface.Size()
	a.surface.Clear()

	for i := range a.pool {
		p := &a.pool[i]
		p.Age++
		a.style.move(p)
		if p.offscreen(float64(h)) {
			p.recycle(float64(w), a.palette, a.rng)
			st.Recycled++
		}
		a.draw(i, &st)
	}
	return st
}

func (a *Animator) draw(i int, st *FrameStats) {
	p := &a.pool[i]
	if p.Color.IsZero() {
		return
	}
	a.surface.Save()
	a.surface.SetAlpha(p.Opacity)
	a.surface.SetColor(p.Color)
	a.style.draw(a.surface, a.pool, i, st)
	a.surface.Restore()
}
