package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v2"

	"island-fx/postfx"
	"island-fx/scene"
)

// Config represents the demo configuration
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Effects EffectsConfig `yaml:"effects"`
	Noise   NoiseConfig   `yaml:"noise"`
	Log     LogConfig     `yaml:"log"`
	Scene   string        `yaml:"scene"` // island, shapes
}

// WindowConfig sizes the window and both offscreen targets
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// CameraConfig contains the initial camera state
type CameraConfig struct {
	FOV         float32    `yaml:"fov"` // degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Sensitivity float32    `yaml:"sensitivity"`
	Position    [3]float32 `yaml:"position"`
}

// EffectsConfig contains the initial debug panel values
type EffectsConfig struct {
	MotionBlur      bool       `yaml:"motion_blur"`
	ColorCorrection bool       `yaml:"color_correction"`
	Vignette        bool       `yaml:"vignette"`
	FilmGrain       bool       `yaml:"film_grain"`
	ColorAdjust     [3]float32 `yaml:"color_adjust"` // each in [-1, 1]
	GrainAmount     float32    `yaml:"grain_amount"` // [0, 1]
}

// NoiseConfig seeds the film grain texture
type NoiseConfig struct {
	Seed uint64 `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	cam := scene.NewCameraState()
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "Floating Island",
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:         cam.FOV,
			Near:        cam.Near,
			Far:         cam.Far,
			Sensitivity: cam.Sensitivity,
			Position:    cam.Position,
		},
		Effects: EffectsConfig{
			GrainAmount: 0.1,
		},
		Noise: NoiseConfig{Seed: 1},
		Log:   LogConfig{Level: "info"},
		Scene: scene.NameIsland,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects values the pipeline cannot start with and clamps the
// panel sliders into their ranges.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip range [%g, %g] is empty", c.Camera.Near, c.Camera.Far)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if !slices.Contains(scene.Names, c.Scene) {
		return fmt.Errorf("unknown scene %q (want one of %s)", c.Scene, strings.Join(scene.Names, ", "))
	}

	c.Camera.FOV = mgl32.Clamp(c.Camera.FOV, 1, 179)
	for i := range c.Effects.ColorAdjust {
		c.Effects.ColorAdjust[i] = mgl32.Clamp(c.Effects.ColorAdjust[i], -1, 1)
	}
	c.Effects.GrainAmount = mgl32.Clamp(c.Effects.GrainAmount, 0, 1)
	return nil
}

// Mask returns the initially enabled passes.
func (c *Config) Mask() postfx.Mask {
	return postfx.MaskNone.
		Set(postfx.MaskMotionBlur, c.Effects.MotionBlur).
		Set(postfx.MaskColorCorrection, c.Effects.ColorCorrection).
		Set(postfx.MaskVignette, c.Effects.Vignette).
		Set(postfx.MaskFilmGrain, c.Effects.FilmGrain)
}

// CameraState builds the initial camera.
func (c *Config) CameraState() scene.CameraState {
	cam := scene.NewCameraState()
	cam.Position = c.Camera.Position
	cam.FOV = c.Camera.FOV
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	cam.Sensitivity = c.Camera.Sensitivity
	return cam
}

// LogLevel returns the configured slog level; Validate has already checked it.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
