// Package term hosts a particle field directly on a tcell screen.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/viz"
)

const statusRows = 1

// Host implements field.Host on a tcell.Screen. Frames run on the
// goroutine that calls Run; the screen is repainted after each one.
type Host struct {
	screen tcell.Screen
	canvas *viz.Canvas
	view   *viz.Viewport
	sched  *field.LoopScheduler
	logger *log.Logger

	status string
}

func NewHost(screen tcell.Screen, fps int, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cols, rows := screen.Size()
	rows = max(rows-statusRows, 1)
	return &Host{
		screen: screen,
		canvas: viz.NewCanvas(cols, rows),
		view:   viz.NewViewport(cols*viz.CellWidth, rows*viz.CellHeight),
		sched:  field.NewLoopScheduler(fps),
		logger: logger,
	}
}

func (h *Host) AcquireSurface() (field.Surface, error) { return h.canvas, nil }
func (h *Host) Viewport() field.Viewport               { return h.view }
func (h *Host) Scheduler() field.Scheduler             { return h }

// RequestFrame queues fn and repaints the screen once it has run.
func (h *Host) RequestFrame(fn func()) field.FrameID {
	return h.sched.RequestFrame(func() {
		fn()
		h.Draw()
	})
}

func (h *Host) CancelFrame(id field.FrameID) { h.sched.CancelFrame(id) }

// SetBackground sets the colour particles are composited onto.
func (h *Host) SetBackground(c colorful.Color) { h.canvas.Background = c }

// SetStatus replaces the text on the bottom row.
func (h *Host) SetStatus(s string) { h.status = s }

// Draw copies the canvas to the screen and shows it.
func (h *Host) Draw() {
	bgR, bgG, bgB := h.canvas.Background.RGB255()
	base := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(bgR), int32(bgG), int32(bgB)))

	for row := 0; row < h.canvas.Height; row++ {
		for col := 0; col < h.canvas.Width; col++ {
			r, fg, ok := h.canvas.Cell(col, row)
			style := base
			if ok {
				fr, fgG, fb := fg.RGB255()
				style = style.Foreground(tcell.NewRGBColor(int32(fr), int32(fgG), int32(fb)))
			}
			if r == 0x2800 {
				r = ' '
			}
			h.screen.SetContent(col, row, r, nil, style)
		}
	}

	muted := tcell.StyleDefault.Foreground(tcell.ColorGray)
	row := h.canvas.Height
	col := 0
	for _, r := range h.status {
		if col >= h.canvas.Width {
			break
		}
		h.screen.SetContent(col, row, r, nil, muted)
		col++
	}
	for ; col < h.canvas.Width; col++ {
		h.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
	}
	h.screen.Show()
}

func (h *Host) resize(cols, rows int) {
	rows = max(rows-statusRows, 1)
	h.view.Resize(cols*viz.CellWidth, rows*viz.CellHeight)
	h.screen.Sync()
}

// handle reacts to one screen event. It reports false when the user
// asked to quit.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return false
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		h.sched.Post(func() { h.resize(cols, rows) })
	}
	return true
}

// Run mounts anim and drives it until ctx is done, the user quits or
// the animator stops requesting frames. The caller owns the screen and
// must Fini it afterwards, which also ends the event goroutine.
func (h *Host) Run(ctx context.Context, anim *field.Animator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	anim.Mount(h)
	defer anim.Unmount()
	if anim.State() != field.Running {
		return fmt.Errorf("term: animator did not start")
	}
	h.logger.Printf("term: running mode=%s", anim.Mode())

	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			if !h.handle(ev) {
				cancel()
				return
			}
		}
	}()

	err := h.sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
