package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

// ContextInitError reports a window or GL context that could not be created.
// It is fatal.
type ContextInitError struct {
	Op  string
	Err error
}

func (e *ContextInitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ContextInitError) Unwrap() error { return e.Err }

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onFramebufferSize func(width, height int)
	onCursor          func(x, y float64)
	onMouseButton     func(button int, pressed bool)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     800,
		Height:    600,
		Title:     "Floating Island",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &ContextInitError{Op: "failed to initialize GLFW", Err: err}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, &ContextInitError{Op: "failed to create window", Err: err}
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if window.onFramebufferSize != nil {
			window.onFramebufferSize(width, height)
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if window.onCursor != nil {
			window.onCursor(x, y)
		}
	})
	handle.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if window.onMouseButton != nil && action != glfw.Repeat {
			window.onMouseButton(int(b), action == glfw.Press)
		}
	})
	handle.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return window, nil
}

// SetFramebufferSizeCallback is called with the new drawable size in pixels.
func (w *Window) SetFramebufferSizeCallback(cb func(width, height int)) {
	w.onFramebufferSize = cb
}

func (w *Window) SetCursorCallback(cb func(x, y float64)) {
	w.onCursor = cb
}

// SetMouseButtonCallback receives press and release events; repeats are dropped.
func (w *Window) SetMouseButtonCallback(cb func(button int, pressed bool)) {
	w.onMouseButton = cb
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// ── Debug UI platform ─────────────────────────────────────────────────────────

// DisplaySize returns the window size in screen coordinates.
func (w *Window) DisplaySize() [2]float32 {
	return [2]float32{float32(w.Width), float32(w.Height)}
}

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() [2]float32 {
	fw, fh := w.Handle.GetFramebufferSize()
	return [2]float32{float32(fw), float32(fh)}
}

func (w *Window) CursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// MouseButtons reports the left, right and middle buttons.
func (w *Window) MouseButtons() [3]bool {
	return [3]bool{
		w.Handle.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press,
		w.Handle.GetMouseButton(glfw.MouseButtonRight) == glfw.Press,
		w.Handle.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press,
	}
}

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const MouseButtonLeft = int(glfw.MouseButtonLeft)
