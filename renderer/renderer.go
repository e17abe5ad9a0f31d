// Package renderer drives one frame: scene into the offscreen target,
// post-process passes onto the default framebuffer, overlay, present, swap.
package renderer

import (
	"fmt"

	"island-fx/gpu"
	"island-fx/postfx"
	"island-fx/scene"
)

// FrameState is the step of the frame currently executing.
type FrameState int

const (
	StateIdle FrameState = iota
	StateSceneRender
	StatePostProcess
	StateOverlay
	StatePresent
)

func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSceneRender:
		return "scene-render"
	case StatePostProcess:
		return "post-process"
	case StateOverlay:
		return "overlay"
	case StatePresent:
		return "present"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Overlay draws on top of the post-processed frame, on the default
// framebuffer. The debug UI implements it.
type Overlay interface {
	Draw()
}

// Options configure a Driver.
type Options struct {
	// Width and Height fix the size of both offscreen targets.
	Width, Height int
	// NoiseSeed seeds the film grain texture.
	NoiseSeed uint64
	// Effects is the pass table, in run order. Nil means postfx.DefaultEffects().
	Effects []postfx.Effect
	// Overlay is drawn after post-processing. Optional.
	Overlay Overlay
	// Present shows the default framebuffer, usually by swapping buffers. Optional.
	Present func()
}

// Stats describe the most recent frame.
type Stats struct {
	Frame  uint64
	Passes int
}

// Driver owns the render target pair, the full-screen quad, the noise
// texture and the post-process chain.
type Driver struct {
	dev   gpu.Device
	scene scene.Scene

	pair  *postfx.RenderTargetPair
	quad  *postfx.FullScreenQuad
	noise *gpu.Texture
	chain *postfx.Chain
	blit  *postfx.Chain

	overlay Overlay
	present func()

	displayW, displayH int

	state FrameState
	stats Stats

	// OnState, when set, is called on every state transition.
	OnState func(FrameState)
}

// New allocates the pipeline resources. Programs go through cache. An
// incomplete render target is returned as an error and must abort startup;
// shader failures are only logged.
func New(dev gpu.Device, cache *gpu.ProgramCache, sc scene.Scene, opts Options) (*Driver, error) {
	pair, err := postfx.NewRenderTargetPair(dev, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create render targets: %w", err)
	}

	effects := opts.Effects
	if effects == nil {
		effects = postfx.DefaultEffects()
	}

	d := &Driver{
		dev:      dev,
		scene:    sc,
		pair:     pair,
		quad:     postfx.NewFullScreenQuad(dev),
		noise:    postfx.NewNoiseTexture(dev, opts.Width, opts.Height, opts.NoiseSeed),
		overlay:  opts.Overlay,
		present:  opts.Present,
		displayW: opts.Width,
		displayH: opts.Height,
	}

	if d.chain, err = postfx.NewChain(dev, cache, d.quad, effects); err != nil {
		gpu.Logger().Warn("post-process chain incomplete", "err", err)
	}
	if d.blit, err = postfx.NewChain(dev, cache, d.quad, []postfx.Effect{postfx.CopyEffect()}); err != nil {
		gpu.Logger().Warn("copy pass unavailable", "err", err)
	}

	// Both targets start with the scene background so the first frame has a
	// sensible "previous" image.
	for range 2 {
		pair.CurrentWrite().Bind(dev)
		dev.Clear(sc.ClearColor())
		pair.Swap()
	}
	dev.BindFramebuffer(0)

	gpu.Logger().Info("frame driver ready",
		"width", opts.Width, "height", opts.Height, "passes", len(effects))
	return d, nil
}

// SetDisplaySize sets the viewport used on the default framebuffer. The
// offscreen targets keep their size.
func (d *Driver) SetDisplaySize(width, height int) {
	d.displayW, d.displayH = width, height
}

// SetOverlay replaces the overlay drawn after post-processing.
func (d *Driver) SetOverlay(o Overlay) { d.overlay = o }

// Targets exposes the render target pair, for read-back.
func (d *Driver) Targets() *postfx.RenderTargetPair { return d.pair }

// Chain exposes the post-process chain.
func (d *Driver) Chain() *postfx.Chain { return d.chain }

// State returns the step currently executing, StateIdle between frames.
func (d *Driver) State() FrameState { return d.state }

// Stats returns counters from the most recent RenderFrame.
func (d *Driver) Stats() Stats { return d.stats }

func (d *Driver) enter(s FrameState) {
	d.state = s
	if d.OnState != nil {
		d.OnState(s)
	}
}

// RenderFrame renders one frame and swaps the render target pair exactly
// once, after presenting. It never fails: broken programs are skipped.
func (d *Driver) RenderFrame(cam scene.CameraState, mask postfx.Mask, params postfx.Params) {
	// ── Scene ─────────────────────────────────────────────────────────────────
	d.enter(StateSceneRender)
	target := d.pair.CurrentWrite()
	target.Bind(d.dev)
	d.dev.SetDepthTest(true)
	d.dev.Clear(d.scene.ClearColor())
	w, h := d.pair.Size()
	d.scene.Draw(cam.View(), cam.Projection(float32(w)/float32(h)))

	// ── Post-process ──────────────────────────────────────────────────────────
	d.enter(StatePostProcess)
	d.dev.BindFramebuffer(0)
	d.dev.Viewport(d.displayW, d.displayH)
	d.dev.Clear(gpu.ColorBlack)

	src := postfx.Sources{
		Current:  target.Color,
		Previous: d.pair.CurrentRead().Color,
		Noise:    d.noise,
	}
	var passes int
	if mask&postfx.MaskAll == postfx.MaskNone {
		passes = d.blit.Run(postfx.MaskCopy, params, src)
	} else {
		passes = d.chain.Run(mask, params, src)
	}

	// ── Overlay and present ───────────────────────────────────────────────────
	d.enter(StateOverlay)
	if d.overlay != nil {
		d.overlay.Draw()
	}

	d.enter(StatePresent)
	if d.present != nil {
		d.present()
	}
	d.pair.Swap()

	d.stats.Frame++
	d.stats.Passes = passes
	d.enter(StateIdle)
}

// Close releases the driver's resources. Programs stay in the cache.
func (d *Driver) Close() {
	d.noise.Close()
	d.quad.Close()
	d.pair.Close()
}
