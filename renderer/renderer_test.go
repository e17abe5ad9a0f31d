package renderer_test

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/gpu"
	"island-fx/internal/soft"
	"island-fx/postfx"
	"island-fx/renderer"
	"island-fx/scene"
)

const texel = 1.0 / 255

type fixture struct {
	dev    *soft.Device
	cache  *gpu.ProgramCache
	scene  scene.Scene
	driver *renderer.Driver
}

func newFixture(t *testing.T, w, h int, opts renderer.Options) *fixture {
	t.Helper()
	dev := soft.NewDevice(w, h)
	cache := gpu.NewProgramCache(dev)
	sc, err := scene.Load(scene.NameIsland, dev, cache)
	require.NoError(t, err)

	opts.Width, opts.Height = w, h
	d, err := renderer.New(dev, cache, sc, opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		d.Close()
		sc.Close()
		cache.Close()
	})
	return &fixture{dev: dev, cache: cache, scene: sc, driver: d}
}

func TestFrameStateOrder(t *testing.T) {
	var (
		f         *fixture
		states    []renderer.FrameState
		presented *postfx.RenderTarget
	)
	f = newFixture(t, 32, 24, renderer.Options{
		Present: func() { presented = f.driver.Targets().CurrentWrite() },
	})
	f.driver.OnState = func(s renderer.FrameState) { states = append(states, s) }
	f.driver.SetOverlay(overlayFunc(func() {
		assert.Equal(t, renderer.StateOverlay, f.driver.State())
	}))
	written := f.driver.Targets().CurrentWrite()

	f.driver.RenderFrame(scene.NewCameraState(), postfx.MaskVignette, postfx.Params{})

	assert.Equal(t, []renderer.FrameState{
		renderer.StateSceneRender,
		renderer.StatePostProcess,
		renderer.StateOverlay,
		renderer.StatePresent,
		renderer.StateIdle,
	}, states)
	assert.Same(t, written, presented, "present runs before the swap")
	assert.NotSame(t, written, f.driver.Targets().CurrentWrite(), "pair swapped after present")
}

type overlayFunc func()

func (o overlayFunc) Draw() { o() }

func TestSwapOncePerFrame(t *testing.T) {
	f := newFixture(t, 16, 12, renderer.Options{})
	pair := f.driver.Targets()
	first := pair.CurrentWrite()

	for i := 1; i <= 4; i++ {
		f.driver.RenderFrame(scene.NewCameraState(), postfx.MaskNone, postfx.Params{})
		if i%2 == 0 {
			assert.Same(t, first, pair.CurrentWrite(), "frame %d", i)
		} else {
			assert.NotSame(t, first, pair.CurrentWrite(), "frame %d", i)
		}
	}
	assert.Equal(t, uint64(4), f.driver.Stats().Frame)
}

func TestEveryMaskCombination(t *testing.T) {
	f := newFixture(t, 32, 24, renderer.Options{NoiseSeed: 7})
	params := postfx.Params{ColorAdjust: mgl32.Vec3{0.1, 0, -0.1}, GrainAmount: 0.3}

	for mask := postfx.MaskNone; mask <= postfx.MaskAll; mask++ {
		f.driver.RenderFrame(scene.NewCameraState(), mask, params)

		want := bits.OnesCount8(uint8(mask))
		if mask == postfx.MaskNone {
			want = 1 // pass-through copy
		}
		assert.Equal(t, want, f.driver.Stats().Passes, "mask %s", mask)
		assert.True(t, f.dev.DepthTest(), "mask %s left depth test off", mask)
		assert.Equal(t, renderer.StateIdle, f.driver.State())
	}
}

// End to end: one scene draw, vignette only, one present at 800x600.
func TestVignetteFrameEndToEnd(t *testing.T) {
	presents := 0
	f := newFixture(t, 800, 600, renderer.Options{Present: func() { presents++ }})
	pair := f.driver.Targets()
	written, other := pair.CurrentWrite(), pair.CurrentRead()

	f.driver.RenderFrame(scene.NewCameraState(), postfx.MaskVignette, postfx.Params{})
	require.Equal(t, 1, presents)

	// Only the default framebuffer received the post-process draw.
	assert.Equal(t, 1, f.dev.DrawCount(0))
	assert.Equal(t, 6, f.dev.DrawCount(written.Framebuffer()), "scene draws")
	assert.Equal(t, 0, f.dev.DrawCount(other.Framebuffer()))

	// Offscreen targets hold scene-only content.
	sky := scene.IslandSky
	for _, rt := range []*postfx.RenderTarget{written, other} {
		c := rt.Framebuffer()
		px := f.dev.Pixel(c, 0, 0)
		assert.InDelta(t, sky.R, px.R, texel, "offscreen corner is undarkened sky")
		assert.InDelta(t, sky.B, px.B, texel)
	}

	// The default framebuffer holds the vignetted image.
	factor := postfx.VignetteFactor(mgl32.Vec2{0.5 / 800, 0.5 / 600})
	corner := f.dev.Pixel(0, 0, 0)
	assert.InDelta(t, sky.R*factor, corner.R, 2*texel)
	assert.InDelta(t, sky.B*factor, corner.B, 2*texel)
	assert.Less(t, corner.B, float32(0.5), "corner darkened")

	center := f.dev.Pixel(0, 400, 300)
	scenic := f.dev.Pixel(written.Framebuffer(), 400, 300)
	assert.InDelta(t, scenic.R, center.R, texel)
	assert.InDelta(t, scenic.G, center.G, texel)
	assert.InDelta(t, scenic.B, center.B, texel)
	assert.InDelta(t, 0.5, scenic.R, texel, "island at the centre")
}

func TestMotionBlurUsesPreviousFrame(t *testing.T) {
	f := newFixture(t, 32, 24, renderer.Options{})
	island := scene.NewCameraState()
	sky := scene.NewCameraState()
	sky.Yaw = 90
	sky.Front = scene.FrontFromAngles(sky.Yaw, sky.Pitch)

	f.driver.RenderFrame(island, postfx.MaskNone, postfx.Params{})
	prev := f.dev.Pixel(0, 16, 12)
	f.driver.RenderFrame(sky, postfx.MaskNone, postfx.Params{})
	cur := f.dev.Pixel(0, 16, 12)
	require.Greater(t, cur.B-prev.B, float32(0.5), "frames must differ")

	// The blurred frame mixes the sky into the island frame before it.
	f.driver.RenderFrame(island, postfx.MaskNone, postfx.Params{})
	f.driver.RenderFrame(sky, postfx.MaskMotionBlur, postfx.Params{})
	blurred := f.dev.Pixel(0, 16, 12)

	w := float32(postfx.MotionBlurWeight)
	assert.InDelta(t, (1-w)*cur.R+w*prev.R, blurred.R, 2*texel)
	assert.InDelta(t, (1-w)*cur.G+w*prev.G, blurred.G, 2*texel)
	assert.InDelta(t, (1-w)*cur.B+w*prev.B, blurred.B, 2*texel)
	assert.Equal(t, 1, f.driver.Stats().Passes)
}

func TestOverlayDrawsAfterPasses(t *testing.T) {
	var seen int
	f := newFixture(t, 16, 12, renderer.Options{})
	f.driver.SetOverlay(overlayFunc(func() { seen = f.dev.DrawCount(0) }))

	f.driver.RenderFrame(scene.NewCameraState(), postfx.MaskColorCorrection|postfx.MaskFilmGrain, postfx.Params{})
	assert.Equal(t, 2, seen)
}

func TestBrokenPassDoesNotStopFrames(t *testing.T) {
	effects := postfx.DefaultEffects()
	effects[1].Fragment = "not glsl"
	f := newFixture(t, 16, 12, renderer.Options{Effects: effects})

	assert.NotPanics(t, func() {
		f.driver.RenderFrame(scene.NewCameraState(), postfx.MaskAll, postfx.Params{})
	})
	assert.Equal(t, 3, f.driver.Stats().Passes)
}

func TestIncompleteTargetAbortsStartup(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()
	sc, err := scene.Load(scene.NameShapes, dev, cache)
	require.NoError(t, err)
	defer sc.Close()

	_, err = renderer.New(dev, cache, sc, renderer.Options{Width: 0, Height: 0})
	require.Error(t, err)
	var fe *gpu.FramebufferIncompleteError
	assert.True(t, errors.As(err, &fe))
}

func TestFrameStateString(t *testing.T) {
	assert.Equal(t, "scene-render", renderer.StateSceneRender.String())
	assert.Equal(t, "state(42)", renderer.FrameState(42).String())
}
