package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"island-fx/config"
	"island-fx/core"
	"island-fx/gpu"
	"island-fx/internal/opengl"
	"island-fx/internal/soft"
	"island-fx/renderer"
	"island-fx/scene"
	"island-fx/ui"
)

type options struct {
	configPath string
	scene      string
	logLevel   string
	headless   bool
	frames     int
	out        string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to a YAML configuration file")
	flag.StringVar(&o.scene, "scene", "", "Scene to render: island or shapes")
	flag.StringVar(&o.logLevel, "log", "", "Log level: debug, info, warn or error")
	flag.BoolVar(&o.headless, "headless", false, "Render with the software device, without a window")
	flag.IntVar(&o.frames, "frames", 2, "Frames to render in headless mode")
	flag.StringVar(&o.out, "out", "frame.png", "PNG written by headless mode")
	flag.Parse()
	return o
}

func loadConfig(o options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.scene != "" {
		cfg.Scene = o.scene
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	o := parseFlags()
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)
	gpu.SetLogger(logger)

	if o.headless {
		err = runHeadless(cfg, o.frames, o.out)
	} else {
		err = runWindowed(cfg)
	}
	if err != nil {
		var ctxErr *core.ContextInitError
		if errors.As(err, &ctxErr) {
			logger.Error("window or context unavailable", "err", err)
		} else {
			logger.Error("startup failed", "err", err)
		}
		os.Exit(1)
	}
}

// loadScene returns the configured scene. Shader failures are reported and
// the scene is kept; frames drawn with it may be black.
func loadScene(cfg *config.Config, dev gpu.Device, cache *gpu.ProgramCache) (scene.Scene, error) {
	sc, err := scene.Load(cfg.Scene, dev, cache)
	if sc == nil {
		return nil, err
	}
	if err != nil {
		gpu.Logger().Warn("scene built with errors", "scene", cfg.Scene, "err", err)
	}
	return sc, nil
}

func runWindowed(cfg *config.Config) error {
	windowConfig := core.DefaultWindowConfig()
	windowConfig.Width = cfg.Window.Width
	windowConfig.Height = cfg.Window.Height
	windowConfig.Title = cfg.Window.Title
	windowConfig.VSync = cfg.Window.VSync
	// The offscreen targets never resize.
	windowConfig.Resizable = false

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return &core.ContextInitError{Op: "failed to load OpenGL", Err: err}
	}
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	sc, err := loadScene(cfg, dev, cache)
	if err != nil {
		return err
	}
	defer sc.Close()

	controls := ui.NewControls(cfg.Mask(), cfg.Effects.ColorAdjust, cfg.Effects.GrainAmount)
	fps := &ui.FPSCounter{}
	overlay := ui.NewOverlay(window, controls, fps)
	defer overlay.Close()
	imguiRenderer, err := opengl.NewImguiRenderer(dev, overlay.IO())
	if err != nil {
		gpu.Logger().Warn("debug panel disabled", "err", err)
	} else {
		overlay.SetRenderer(imguiRenderer)
		defer imguiRenderer.Dispose()
	}

	driver, err := renderer.New(dev, cache, sc, renderer.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		NoiseSeed: cfg.Noise.Seed,
		Overlay:   overlay,
		Present:   window.SwapBuffers,
	})
	if err != nil {
		return err
	}
	defer driver.Close()
	driver.SetDisplaySize(window.GetFramebufferSize())

	// ── Input ─────────────────────────────────────────────────────────────────
	cam := cfg.CameraState()
	window.SetFramebufferSizeCallback(driver.SetDisplaySize)
	window.SetMouseButtonCallback(func(button int, pressed bool) {
		if button != core.MouseButtonLeft {
			return
		}
		if pressed && overlay.WantsMouse() {
			return
		}
		cam.HandleButton(pressed)
	})
	window.SetCursorCallback(cam.HandleCursor)

	gpu.Logger().Info("running",
		"scene", cfg.Scene, "effects", controls.Mask(), "programs", cache.Len())

	// ── Main loop ─────────────────────────────────────────────────────────────
	for !window.ShouldClose() {
		window.PollEvents()
		overlay.NewFrame()
		driver.RenderFrame(cam, controls.Mask(), controls.Params())

		if fps.Tick(window.Time()) {
			window.SetTitle(windowTitle(cfg.Window.Title, fps.FPS()))
			gpu.Logger().Debug("frame stats",
				"fps", fps.FPS(), "frame", driver.Stats().Frame, "passes", driver.Stats().Passes)
		}
	}

	gpu.Logger().Info("exiting", "frames", driver.Stats().Frame)
	return nil
}

func windowTitle(base string, fps float64) string {
	return fmt.Sprintf("%s | %.0f FPS", base, fps)
}

// runHeadless renders frames with the software device and writes the last
// presented image as a PNG.
func runHeadless(cfg *config.Config, frames int, out string) error {
	dev := soft.NewDevice(cfg.Window.Width, cfg.Window.Height)
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	sc, err := loadScene(cfg, dev, cache)
	if err != nil {
		return err
	}
	defer sc.Close()

	presented := 0
	driver, err := renderer.New(dev, cache, sc, renderer.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		NoiseSeed: cfg.Noise.Seed,
		Present:   func() { presented++ },
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	cam := cfg.CameraState()
	controls := ui.NewControls(cfg.Mask(), cfg.Effects.ColorAdjust, cfg.Effects.GrainAmount)
	for range max(frames, 1) {
		driver.RenderFrame(cam, controls.Mask(), controls.Params())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, dev.Image()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}

	gpu.Logger().Info("headless render written",
		"out", out, "frames", presented, "effects", controls.Mask())
	return nil
}
