// Package postfx holds the offscreen render targets, the full-screen quad
// and the post-process chain that composites a rendered frame onto the
// default framebuffer.
package postfx

import (
	"fmt"

	"island-fx/gpu"
)

// RenderTarget is an offscreen colour + depth/stencil destination whose
// colour attachment can be sampled once the frame is rendered.
type RenderTarget struct {
	Color        *gpu.Texture
	DepthStencil *gpu.Renderbuffer
	fbo          *gpu.Framebuffer

	Width, Height int
}

// NewRenderTarget allocates an RGBA8 colour texture (linear, clamp to edge,
// no mipmaps), a DEPTH24_STENCIL8 renderbuffer of the same size and the
// framebuffer binding them. An incomplete framebuffer is an error.
func NewRenderTarget(dev gpu.Device, width, height int) (*RenderTarget, error) {
	color := gpu.NewTexture(dev, gpu.TextureDesc{
		Width:  width,
		Height: height,
		Format: gpu.FormatRGBA8,
		Filter: gpu.FilterLinear,
		Wrap:   gpu.WrapClamp,
	}, nil)
	ds := gpu.NewDepthStencil(dev, width, height)

	fbo, err := gpu.NewFramebuffer(dev, color, ds)
	if err != nil {
		ds.Close()
		color.Close()
		return nil, fmt.Errorf("render target %dx%d: %w", width, height, err)
	}
	return &RenderTarget{Color: color, DepthStencil: ds, fbo: fbo, Width: width, Height: height}, nil
}

// Framebuffer returns the framebuffer handle, for read-back in tools and tests.
func (t *RenderTarget) Framebuffer() gpu.Handle { return t.fbo.Handle() }

// Bind makes the target the draw destination and sets the viewport to cover it.
func (t *RenderTarget) Bind(dev gpu.Device) {
	t.fbo.Bind()
	dev.Viewport(t.Width, t.Height)
}

// Close releases the framebuffer before its attachments.
func (t *RenderTarget) Close() {
	t.fbo.Close()
	t.DepthStencil.Close()
	t.Color.Close()
}

// RenderTargetPair holds the ping and pong targets. One is written by the
// frame in flight; the other holds the most recently completed frame.
type RenderTargetPair struct {
	targets [2]*RenderTarget
	active  bool // false: ping is written, true: pong is written
}

// NewRenderTargetPair allocates both targets at a fixed size.
func NewRenderTargetPair(dev gpu.Device, width, height int) (*RenderTargetPair, error) {
	ping, err := NewRenderTarget(dev, width, height)
	if err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	pong, err := NewRenderTarget(dev, width, height)
	if err != nil {
		ping.Close()
		return nil, fmt.Errorf("pong: %w", err)
	}
	gpu.Logger().Info("render target pair created", "width", width, "height", height)
	return &RenderTargetPair{targets: [2]*RenderTarget{ping, pong}}, nil
}

func (p *RenderTargetPair) index() int {
	if p.active {
		return 1
	}
	return 0
}

// CurrentWrite returns the target selected by the active flag.
func (p *RenderTargetPair) CurrentWrite() *RenderTarget { return p.targets[p.index()] }

// CurrentRead returns the target not selected by the active flag.
func (p *RenderTargetPair) CurrentRead() *RenderTarget { return p.targets[1-p.index()] }

// Swap flips the active flag. Call it once per frame, after the frame has
// been presented.
func (p *RenderTargetPair) Swap() { p.active = !p.active }

// Size returns the fixed dimensions of both targets.
func (p *RenderTargetPair) Size() (int, int) {
	return p.targets[0].Width, p.targets[0].Height
}

func (p *RenderTargetPair) Close() {
	for _, t := range p.targets {
		t.Close()
	}
}
