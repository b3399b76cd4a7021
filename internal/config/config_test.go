package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Blood Moon", cfg.Window.Title)
	assert.Equal(t, 1500, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.InDelta(t, 0.5, cfg.Render.Exposure, 1e-6)
	assert.True(t, cfg.Render.Bloom)
	assert.Equal(t, 10, cfg.Render.BlurPasses)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSearchesWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "bloodmoon.yaml", `
window:
  width: 800
  height: 600
render:
  exposure: 1.5
  bloom: false
  blur_passes: 4
assets:
  root: /opt/bloodmoon
`)
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "Blood Moon", cfg.Window.Title)
	assert.InDelta(t, 1.5, cfg.Render.Exposure, 1e-6)
	assert.False(t, cfg.Render.Bloom)
	assert.Equal(t, 4, cfg.Render.BlurPasses)
	assert.InDelta(t, 2.2, cfg.Render.Gamma, 1e-6)
	assert.Equal(t, "/opt/bloodmoon", cfg.Assets.Root)
	assert.Equal(t, filepath.Join("/opt/bloodmoon", "shaders"), cfg.Assets.ShaderPath())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "bloodmoon.yaml", "render:\n  exposure: 1.5\n")
	t.Setenv("BLOODMOON_RENDER_EXPOSURE", "2.25")
	t.Setenv("BLOODMOON_RENDER_BLUR_PASSES", "3")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, cfg.Render.Exposure, 1e-6)
	assert.Equal(t, 3, cfg.Render.BlurPasses)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, "bloodmoon.yaml", "render:\n  blur_passes: -1\n")
	_, err := Load(viper.New(), path)
	assert.ErrorContains(t, err, "blur_passes")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"zero exposure", func(c *Config) { c.Render.Exposure = 0 }, "exposure"},
		{"negative gamma", func(c *Config) { c.Render.Gamma = -1 }, "gamma"},
		{"no assets root", func(c *Config) { c.Assets.Root = "" }, "assets.root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bloodmoon.yaml")
	cfg := DefaultConfig()
	cfg.Render.Exposure = 0.75
	cfg.Log.Level = "debug"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestRenderSettings(t *testing.T) {
	r := DefaultConfig().Render
	r.BlurPasses = 6
	s := r.Settings()

	assert.Equal(t, 6, s.BlurPasses)
	assert.Equal(t, r.Exposure, s.Exposure)
	assert.Equal(t, r.BrightThreshold, s.Threshold)
}

func TestAssetPath(t *testing.T) {
	a := AssetsConfig{Root: "resources"}
	assert.Equal(t, filepath.Join("resources", "objects", "moon", "moon.obj"), a.AssetPath("objects/moon/moon.obj"))
	assert.Equal(t, "/abs/sky.jpg", a.AssetPath("/abs/sky.jpg"))
	assert.Equal(t, "", a.ShaderPath())
}
