package ui

import (
	"github.com/inkyblackness/imgui-go/v4"

	"island-fx/gpu"
)

// Platform supplies window size and pointer state to imgui.
type Platform interface {
	DisplaySize() [2]float32
	FramebufferSize() [2]float32
	CursorPos() (float64, float64)
	MouseButtons() [3]bool
	Time() float64
}

// DrawDataRenderer draws a finished imgui frame on the bound framebuffer.
type DrawDataRenderer interface {
	Render(displaySize, framebufferSize [2]float32, drawData imgui.DrawData)
}

// Overlay owns the imgui context and draws the panel after post-processing.
// Call NewFrame before reading the controls, Draw once the chain has run.
type Overlay struct {
	ctx      *imgui.Context
	io       imgui.IO
	platform Platform
	renderer DrawDataRenderer
	panel    Panel

	lastTime float64
	started  bool
}

// NewOverlay creates the imgui context. The renderer may be attached later
// with SetRenderer once it has built its font texture from IO.
func NewOverlay(platform Platform, controls *Controls, fps *FPSCounter) *Overlay {
	ctx := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	return &Overlay{
		ctx:      ctx,
		io:       io,
		platform: platform,
		panel:    Panel{Controls: controls, FPS: fps},
	}
}

// IO exposes the imgui IO, for building the renderer's font atlas.
func (o *Overlay) IO() imgui.IO { return o.io }

func (o *Overlay) SetRenderer(r DrawDataRenderer) { o.renderer = r }

// NewFrame feeds platform input to imgui and lays out the panel. Controls
// hold this frame's values afterwards.
func (o *Overlay) NewFrame() {
	size := o.platform.DisplaySize()
	o.io.SetDisplaySize(imgui.Vec2{X: size[0], Y: size[1]})

	now := o.platform.Time()
	delta := float32(now - o.lastTime)
	if o.lastTime <= 0 || delta <= 0 {
		delta = 1.0 / 60
	}
	o.lastTime = now
	o.io.SetDeltaTime(delta)

	x, y := o.platform.CursorPos()
	o.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	for i, down := range o.platform.MouseButtons() {
		o.io.SetMouseButtonDown(i, down)
	}

	imgui.NewFrame()
	o.started = true
	if o.panel.Build() {
		gpu.Logger().Debug("controls changed", "mask", o.panel.Controls.Mask())
	}
}

// Draw finishes the imgui frame and renders it. Without a prior NewFrame it
// does nothing.
func (o *Overlay) Draw() {
	if !o.started {
		return
	}
	o.started = false
	imgui.Render()
	if o.renderer != nil {
		o.renderer.Render(o.platform.DisplaySize(), o.platform.FramebufferSize(), imgui.RenderedDrawData())
	}
}

// WantsMouse reports whether imgui is using the pointer, in which case the
// camera should ignore it.
func (o *Overlay) WantsMouse() bool { return o.io.WantCaptureMouse() }

func (o *Overlay) Close() {
	o.ctx.Destroy()
}
