package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/particlefield/internal/config"
	"github.com/san-kum/particlefield/internal/field"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	m.Init()
	return m
}

func key(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelInitMounts(t *testing.T) {
	m := newTestModel(t)
	if m.anim.State() != field.Running {
		t.Fatalf("state = %s after Init", m.anim.State())
	}
	if m.anim.Frame() != 0 {
		t.Error("Init must not run a frame")
	}
	if len(m.anim.Pool()) != field.DefaultPoolSize {
		t.Errorf("pool = %d", len(m.anim.Pool()))
	}
}

func TestModelFrameTick(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("frameMsg should schedule the next tick")
	}
	m.Update(frameMsg(time.Now()))
	if m.anim.Frame() != 2 {
		t.Errorf("Frame() = %d after two ticks", m.anim.Frame())
	}
	if len(m.recorder.Series(func(s field.FrameStats) float64 { return 1 })) != 2 {
		t.Error("recorder did not see both frames")
	}

	m.Update(key(" "))
	m.Update(frameMsg(time.Now()))
	if m.anim.Frame() != 2 {
		t.Error("paused model advanced")
	}
	m.Update(key(" "))
	m.Update(frameMsg(time.Now()))
	if m.anim.Frame() != 3 {
		t.Error("resumed model did not advance")
	}
}

func TestModelWindowResize(t *testing.T) {
	m := newTestModel(t)
	before := m.anim.Pool()

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.host.canvas.Width != 40 || m.host.canvas.Height != 10 {
		t.Errorf("canvas = %dx%d cells, want 40x10", m.host.canvas.Width, m.host.canvas.Height)
	}
	after := m.anim.Pool()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("resize moved particles")
		}
	}
}

func TestModelCycleAgent(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("tab"))

	if m.cfg.Agent != "chemist" {
		t.Fatalf("agent = %s, want chemist", m.cfg.Agent)
	}
	if m.anim.Mode() != field.ModeMolecules {
		t.Errorf("mode = %s", m.anim.Mode())
	}
	if m.anim.State() != field.Running || m.anim.Frame() != 0 {
		t.Error("reconfigure should remount from frame 0")
	}
	want := config.GetPreset("chemist").Palette()
	for _, p := range m.anim.Pool() {
		if !want.Contains(p.Color) {
			t.Fatalf("particle colour %s not in chemist palette", p.Color)
		}
	}
}

func TestModelCycleMode(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("m"))
	m.Update(key("m"))
	if m.anim.Mode() != field.ModeNetwork {
		t.Fatalf("mode = %s, want network", m.anim.Mode())
	}
	if len(m.anim.Pool()) != field.NetworkPoolSize {
		t.Errorf("pool = %d", len(m.anim.Pool()))
	}
}

func TestModelConfigReload(t *testing.T) {
	m := newTestModel(t)
	cfg := config.DefaultConfig()
	if err := cfg.ApplyAgent("gene-analyst"); err != nil {
		t.Fatal(err)
	}
	cfg.Background = "#102030"

	m.Update(configMsg{cfg: cfg})
	if m.anim.Mode() != field.ModeNetwork {
		t.Errorf("mode = %s", m.anim.Mode())
	}
	if m.host.canvas.Background.Hex() != "#102030" {
		t.Errorf("background = %s", m.host.canvas.Background.Hex())
	}
}

func TestModelQuitUnmounts(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if m.anim.State() != field.Stopped {
		t.Error("animator still running after quit")
	}
	if m.host.queue.Len() != 0 {
		t.Error("pending frame survived quit")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m.Update(frameMsg(time.Now()))

	v := m.View()
	if !strings.Contains(v, "RUNNING") || !strings.Contains(v, "dna") {
		t.Error("status line missing mode or run state")
	}

	m.Update(key("?"))
	if !strings.Contains(m.View(), "next agent preset") {
		t.Error("help view not shown")
	}
}

func TestNextTheme(t *testing.T) {
	if NextTheme("research").Name != "cyberpunk" {
		t.Error("research should be followed by cyberpunk")
	}
	if NextTheme("sunset").Name != "research" {
		t.Error("themes should wrap")
	}
	if GetTheme("nope").Name != "research" {
		t.Error("unknown theme should fall back to research")
	}
}
