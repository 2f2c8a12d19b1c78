package viz

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlefield/internal/config"
	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/metrics"
)

const (
	defaultCols = 80
	defaultRows = 24
	statusRows  = 2
)

type frameMsg time.Time

type configMsg struct{ cfg *config.Config }

// Viewport reports a terminal's size in pixels and fans out resizes to
// its listeners.
type Viewport struct {
	w, h      int
	next      int
	listeners map[int]func(w, h int)
}

func NewViewport(w, h int) *Viewport {
	return &Viewport{w: w, h: h, listeners: make(map[int]func(w, h int))}
}

func (v *Viewport) Size() (int, int) { return v.w, v.h }

func (v *Viewport) OnResize(fn func(w, h int)) func() {
	id := v.next
	v.next++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// Resize records the new size and notifies every listener.
func (v *Viewport) Resize(w, h int) {
	v.w, v.h = w, h
	for _, fn := range v.listeners {
		fn(w, h)
	}
}

// teaHost adapts the bubbletea program to field.Host. Frames requested by
// the animator wait in the queue until the next frameMsg.
type teaHost struct {
	canvas *Canvas
	view   *Viewport
	queue  *field.FrameQueue
}

func (h *teaHost) AcquireSurface() (field.Surface, error) { return h.canvas, nil }
func (h *teaHost) Viewport() field.Viewport               { return h.view }
func (h *teaHost) Scheduler() field.Scheduler             { return h.queue }

// Model is the interactive terminal view of a particle field.
type Model struct {
	anim     *field.Animator
	host     *teaHost
	cfg      *config.Config
	recorder *metrics.Recorder
	theme    Theme
	logger   *log.Logger
	updates  <-chan *config.Config

	cols, rows int
	paused     bool
	showHelp   bool
	err        error
}

// NewModel builds the animator from cfg. The animator is mounted by Init.
func NewModel(cfg *config.Config, logger *log.Logger) (*Model, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder(metrics.DefaultHistory, metrics.Default()...)
	opts = append(opts, field.WithObserver(rec), field.WithLogger(logger))

	m := &Model{
		anim:     field.New(opts...),
		cfg:      cfg,
		recorder: rec,
		theme:    GetTheme(cfg.Theme),
		logger:   logger,
		cols:     defaultCols,
		rows:     defaultRows - statusRows,
	}
	m.host = &teaHost{
		canvas: NewCanvas(m.cols, m.rows),
		view:   NewViewport(m.cols*CellWidth, m.rows*CellHeight),
		queue:  field.NewFrameQueue(),
	}
	m.applyBackground()
	return m, nil
}

// Watch feeds reloaded configurations into the running model.
func (m *Model) Watch(updates <-chan *config.Config) { m.updates = updates }

func (m *Model) Animator() *field.Animator   { return m.anim }
func (m *Model) Recorder() *metrics.Recorder { return m.recorder }

func (m *Model) Init() tea.Cmd {
	m.anim.Mount(m.host)
	return tea.Batch(m.tick(), m.waitForConfig())
}

func (m *Model) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) waitForConfig() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

// Update handles input and drives one animation frame per frameMsg.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.anim.Unmount()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.recorder.Reset()
			m.anim.Mount(m.host)
		case "tab":
			m.cycleAgent()
		case "m":
			m.cycleMode()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.cfg.Theme = m.theme.Name
			m.cfg.Background = string(m.theme.Background)
			m.applyBackground()
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-statusRows, 1)
		m.host.view.Resize(m.cols*CellWidth, m.rows*CellHeight)

	case frameMsg:
		if !m.paused {
			m.host.queue.Flush()
		}
		return m, m.tick()

	case configMsg:
		m.logger.Printf("viz: config reloaded agent=%s mode=%s", msg.cfg.Agent, msg.cfg.Mode)
		m.cfg = msg.cfg
		m.theme = GetTheme(m.cfg.Theme)
		m.applyBackground()
		m.reconfigure()
		return m, m.waitForConfig()
	}
	return m, nil
}

func (m *Model) cycleAgent() {
	names := config.ListPresets()
	next := names[0]
	for i, n := range names {
		if n == m.cfg.Agent {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := m.cfg.ApplyAgent(next); err != nil {
		m.err = err
		return
	}
	m.reconfigure()
}

func (m *Model) cycleMode() {
	modes := field.Modes()
	next := modes[0]
	for i, md := range modes {
		if md == m.anim.Mode() {
			next = modes[(i+1)%len(modes)]
			break
		}
	}
	m.cfg.Mode = next.String()
	m.reconfigure()
}

func (m *Model) reconfigure() {
	pal, err := m.cfg.FieldPalette()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.recorder.Reset()
	m.anim.Reconfigure(m.cfg.FieldMode(), pal)
}

func (m *Model) applyBackground() {
	bg := m.theme.BackgroundRGB()
	if c, err := field.ParseColor(m.cfg.Background); err == nil {
		bg = c.RGB()
	}
	m.host.canvas.Background = bg
}

// View renders the field and a status line.
func (m *Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var s strings.Builder
	s.WriteString(m.host.canvas.Render())
	s.WriteString("\n")
	s.WriteString(m.statusView())
	return s.String()
}

func (m *Model) statusView() string {
	status := StatusRunning.Render("RUNNING")
	if m.paused {
		status = StatusPaused.Render("PAUSED")
	}
	if m.anim.State() != field.Running {
		status = StatusPaused.Render("STOPPED")
	}

	title := m.cfg.Agent
	if a := config.GetPreset(m.cfg.Agent); a != nil {
		title = a.Title
	}

	last := m.recorder.Last()
	parts := []string{
		status,
		GradientText(title, m.theme.Primary, m.theme.Secondary),
		MetricLabel.Render("mode ") + MetricValue.Render(m.anim.Mode().String()),
		MetricLabel.Render("frame ") + MetricValue.Render(fmt.Sprint(m.anim.Frame())),
		MetricLabel.Render("lines ") + MetricValue.Render(fmt.Sprint(last.Lines)),
		SparklineChart(m.recorder.Series(metrics.Recycled), 24),
		Swatch(m.anim.Palette().Strings()),
	}
	line := strings.Join(parts, "  ")
	if m.err != nil {
		line += "  " + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.err.Error())
	}
	return line + "\n" + KeyHint.Render("space pause · tab agent · m mode · t theme · r restart · ? help · q quit")
}

func (m *Model) helpView() string {
	rows := [][2]string{
		{"space", "pause / resume"},
		{"tab", "next agent preset"},
		{"m", "next mode"},
		{"t", "next theme"},
		{"r", "restart the field"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(GradientText("particlefield", m.theme.Primary, m.theme.Secondary) + "\n\n")
	for _, r := range rows {
		b.WriteString(MetricValue.Render(fmt.Sprintf("%-6s", r[0])) + " " + MetricLabel.Render(r[1]) + "\n")
	}
	b.WriteString("\n" + MetricLabel.Render("agents: ") + strings.Join(config.ListPresets(), ", "))
	return HelpPanel.Render(b.String())
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
