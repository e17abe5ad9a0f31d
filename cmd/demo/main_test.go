package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/config"
	"island-fx/scene"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(options{scene: scene.NameShapes, logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, scene.NameShapes, cfg.Scene)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(options{scene: "nowhere"})
	assert.Error(t, err)
}

func TestRunHeadlessWritesFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 64, 48
	cfg.Effects.Vignette = true
	out := filepath.Join(t.TempDir(), "frame.png")

	require.NoError(t, runHeadless(cfg, 3, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	// Vignetted corner is darker than the sky behind it.
	_, _, b, _ := img.At(0, 0).RGBA()
	assert.Less(t, b>>8, uint32(255*scene.IslandSky.B))
}

func TestRunHeadlessUnknownScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene = "nowhere"
	assert.Error(t, runHeadless(cfg, 1, filepath.Join(t.TempDir(), "x.png")))
}

func TestWindowTitleShowsFPS(t *testing.T) {
	assert.Equal(t, "Floating Island | 60 FPS", windowTitle("Floating Island", 59.7))
	assert.Equal(t, "x | 0 FPS", windowTitle("x", 0))
}
