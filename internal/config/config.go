// Package config provides configuration management for the Blood Moon demo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"blood-moon/internal/hdr"
)

// EnvPrefix is the prefix for environment overrides, e.g. BLOODMOON_RENDER_EXPOSURE.
const EnvPrefix = "BLOODMOON"

// Config holds all application configuration
type Config struct {
	Window WindowConfig `mapstructure:"window" yaml:"window"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Assets AssetsConfig `mapstructure:"assets" yaml:"assets"`
	State  StateConfig  `mapstructure:"state" yaml:"state"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// WindowConfig configures the window
type WindowConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	VSync  bool   `mapstructure:"vsync" yaml:"vsync"`
}

// RenderConfig holds the startup values of the HDR/bloom settings.
type RenderConfig struct {
	Exposure        float32 `mapstructure:"exposure" yaml:"exposure"`
	Bloom           bool    `mapstructure:"bloom" yaml:"bloom"`
	BloomStrength   float32 `mapstructure:"bloom_strength" yaml:"bloom_strength"`
	BlurPasses      int     `mapstructure:"blur_passes" yaml:"blur_passes"`
	Gamma           float32 `mapstructure:"gamma" yaml:"gamma"`
	BrightThreshold float32 `mapstructure:"bright_threshold" yaml:"bright_threshold"`
}

// AssetsConfig locates models, textures and shader overrides.
type AssetsConfig struct {
	Root      string `mapstructure:"root" yaml:"root"`
	ShaderDir string `mapstructure:"shader_dir" yaml:"shader_dir"` // optional GLSL overrides, relative to Root
	HotReload bool   `mapstructure:"hot_reload" yaml:"hot_reload"`
}

// StateConfig locates the persisted program state.
type StateConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DefaultConfig returns the configuration the demo ships with.
func DefaultConfig() *Config {
	s := hdr.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Title:  "Blood Moon",
			Width:  1500,
			Height: 800,
			VSync:  true,
		},
		Render: RenderConfig{
			Exposure:        s.Exposure,
			Bloom:           s.Bloom,
			BloomStrength:   s.BloomStrength,
			BlurPasses:      s.BlurPasses,
			Gamma:           s.Gamma,
			BrightThreshold: s.Threshold,
		},
		Assets: AssetsConfig{
			Root:      "resources",
			ShaderDir: "shaders",
			HotReload: false,
		},
		State: StateConfig{
			Path: filepath.Join("resources", "program_state.yaml"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers every key with its default so environment variables
// and bound flags are visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.vsync", d.Window.VSync)

	v.SetDefault("render.exposure", d.Render.Exposure)
	v.SetDefault("render.bloom", d.Render.Bloom)
	v.SetDefault("render.bloom_strength", d.Render.BloomStrength)
	v.SetDefault("render.blur_passes", d.Render.BlurPasses)
	v.SetDefault("render.gamma", d.Render.Gamma)
	v.SetDefault("render.bright_threshold", d.Render.BrightThreshold)

	v.SetDefault("assets.root", d.Assets.Root)
	v.SetDefault("assets.shader_dir", d.Assets.ShaderDir)
	v.SetDefault("assets.hot_reload", d.Assets.HotReload)

	v.SetDefault("state.path", d.State.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads configuration from file and environment. An empty path searches
// for bloodmoon.yaml in the working directory and ~/.bloodmoon; a missing
// file there is not an error. An explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bloodmoon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bloodmoon"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the renderer cannot start with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Render.Exposure <= 0 {
		return fmt.Errorf("render.exposure must be positive, got %g", c.Render.Exposure)
	}
	if c.Render.BlurPasses < 0 {
		return fmt.Errorf("render.blur_passes must not be negative, got %d", c.Render.BlurPasses)
	}
	if c.Render.Gamma < 0 {
		return fmt.Errorf("render.gamma must not be negative, got %g", c.Render.Gamma)
	}
	if c.Assets.Root == "" {
		return errors.New("assets.root must be set")
	}
	return nil
}

// Settings converts the render section into per-frame pipeline settings.
func (r RenderConfig) Settings() hdr.Settings {
	return hdr.Settings{
		Exposure:      r.Exposure,
		Bloom:         r.Bloom,
		BloomStrength: r.BloomStrength,
		BlurPasses:    r.BlurPasses,
		Gamma:         r.Gamma,
		Threshold:     r.BrightThreshold,
	}
}

// AssetPath resolves a path relative to the assets root.
func (a AssetsConfig) AssetPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(a.Root, rel)
}

// ShaderPath returns the shader override directory, or "" when unset.
func (a AssetsConfig) ShaderPath() string {
	if a.ShaderDir == "" {
		return ""
	}
	return a.AssetPath(a.ShaderDir)
}
