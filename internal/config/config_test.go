package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/particlefield/internal/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "omics", cfg.Agent)
	assert.Equal(t, field.ModeDNA, cfg.FieldMode())
	assert.Equal(t, []string{"#00758aff", "#0844b2ff"}, cfg.Palette)
	assert.Positive(t, cfg.FPS)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	a := GetPreset("chemist")
	require.NotNil(t, a)
	assert.Equal(t, field.ModeMolecules, a.Mode)
	assert.Len(t, a.Palette(), 2)

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"chemist", "gene-analyst", "literature-reviewer", "omics"}, ListPresets())
}

func TestEveryPresetParses(t *testing.T) {
	for _, name := range ListPresets() {
		a := GetPreset(name)
		_, err := field.ParsePalette(a.Primary, a.Secondary)
		assert.NoError(t, err, name)
		assert.True(t, a.Mode.Known(), name)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent: gene-analyst\nfps: 30\nseed: 9\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, field.ModeNetwork, cfg.FieldMode())
	assert.Equal(t, []string{"#10B981", "#059669"}, cfg.Palette)
	assert.Equal(t, 30, cfg.FPS)
	assert.EqualValues(t, 9, cfg.Seed)
	assert.Equal(t, DefaultWidth, cfg.Width)
}

func TestLoadFileOverridesAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")
	body := "agent: chemist\nmode: dna\npalette: [\"#FF0000\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "chemist", cfg.Agent)
	assert.Equal(t, field.ModeDNA, cfg.FieldMode())
	assert.Equal(t, []string{"#FF0000"}, cfg.Palette)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.toml")
	body := "mode = \"molecules\"\npalette = [\"#8B5CF6\"]\nwidth = 320\nheight = 200\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, field.ModeMolecules, cfg.FieldMode())
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"unknown agent": "agent: dentist\n",
		"bad colour":    "palette: [\"red\"]\n",
		"negative fps":  "fps: -1\n",
		"bad yaml":      "mode: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "field.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestUnknownModeIsAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "sparkles"
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.FieldMode().Known())
}

func TestEmptyPaletteIsAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette = nil
	require.NoError(t, cfg.Validate())
	pal, err := cfg.FieldPalette()
	require.NoError(t, err)
	assert.Empty(t, pal)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "field"+ext)
			cfg := DefaultConfig()
			require.NoError(t, cfg.ApplyAgent("chemist"))
			cfg.Seed = 42

			require.NoError(t, Save(path, cfg))
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent: omics\n"), 0644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go w.Run(ctx)

	// a broken write is skipped, the next good one is delivered
	require.NoError(t, os.WriteFile(path, []byte("fps: -5\n"), 0644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("agent: chemist\n"), 0644))

	select {
	case cfg := <-w.Updates():
		require.NotNil(t, cfg)
		assert.Equal(t, field.ModeMolecules, cfg.FieldMode())
	case <-ctx.Done():
		t.Fatal("no config update received")
	}
}
