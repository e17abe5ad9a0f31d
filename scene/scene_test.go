package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/gpu"
	"island-fx/internal/soft"
	"island-fx/scene"
)

const texel = 1.0 / 255

func assertColor(t *testing.T, want, got gpu.Color, msg string) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, texel, "%s: red", msg)
	assert.InDelta(t, want.G, got.G, texel, "%s: green", msg)
	assert.InDelta(t, want.B, got.B, texel, "%s: blue", msg)
}

func TestIslandDraw(t *testing.T) {
	dev := soft.NewDevice(80, 60)
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	s, err := scene.Load(scene.NameIsland, dev, cache)
	require.NoError(t, err)
	defer s.Close()

	cam := scene.NewCameraState()
	dev.SetDepthTest(true)
	dev.Clear(s.ClearColor())
	s.Draw(cam.View(), cam.Projection(80.0/60.0))

	// island, two trees (leaves + trunk each), clouds
	assert.Equal(t, 6, dev.DrawCount(0))

	assertColor(t, gpu.Color{R: 0.5, G: 0.35, B: 0.05}, dev.Pixel(0, 40, 25), "island")
	assertColor(t, gpu.Color{R: 0.4, G: 0.25, B: 0.1}, dev.Pixel(0, 34, 33), "trunk")
	assertColor(t, gpu.ColorWhite, dev.Pixel(0, 23, 50), "cloud")
	assertColor(t, gpu.ColorSky, dev.Pixel(0, 40, 55), "sky")
}

func TestTreeModels(t *testing.T) {
	leaves, trunk := scene.TreeModels(mgl32.Vec3{-0.2, -0.1, 0})

	base := trunk.Mul4x1(mgl32.Vec4{0, 0.2, 0, 1})
	assert.True(t, base.ApproxEqual(mgl32.Vec4{-0.2, 0.1, 0, 1}), "trunk base: got %v", base)

	apex := leaves.Mul4x1(mgl32.Vec4{0, 0.2, 0, 1})
	assert.True(t, apex.ApproxEqualThreshold(mgl32.Vec4{-0.2, 0.35, 0, 1}, 1e-6), "leaf apex: got %v", apex)
}

func TestShapesDraw(t *testing.T) {
	dev := soft.NewDevice(40, 40)
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	s, err := scene.Load(scene.NameShapes, dev, cache)
	require.NoError(t, err)
	defer s.Close()

	dev.SetDepthTest(true)
	dev.Clear(s.ClearColor())
	s.Draw(mgl32.Ident4(), mgl32.Ident4())

	assert.True(t, dev.DepthTest(), "depth test restored")
	assert.Equal(t, 1, dev.DrawCount(0))

	base := dev.Pixel(0, 20, 10)
	assert.Greater(t, base.R, base.G, "island base is brown")
	assert.Greater(t, base.G, base.B, "island base is brown")

	water := dev.Pixel(0, 2, 2)
	assert.Greater(t, water.B, water.R, "water is blue")

	grass := dev.Pixel(0, 20, 21)
	assert.Greater(t, grass.G, grass.R, "grass is green")
}

func TestLoadUnknownScene(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	_, err := scene.Load("volcano", dev, gpu.NewProgramCache(dev))
	assert.ErrorContains(t, err, `unknown scene "volcano"`)
}
