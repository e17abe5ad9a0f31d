package gpu_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/gpu"
	"island-fx/internal/soft"
)

const (
	testVertex = `#version 410 core
layout (location = 0) in vec2 aPos;
void main() { gl_Position = vec4(aPos, 0.0, 1.0); }
`
	testFragment = `#version 410 core
out vec4 FragColor;
uniform vec3 tint;
void main() { FragColor = vec4(tint, 1.0); }
`
	brokenFragment = `#version 410 core
out vec4 FragColor;
void main() { FragColor = vec4(1.0) }
`
)

func init() {
	gpu.RegisterVertexKernel(testVertex, func(_ gpu.Uniforms, a [][]float32) (mgl32.Vec4, []float32) {
		return mgl32.Vec4{a[0][0], a[0][1], 0, 1}, nil
	})
	gpu.RegisterFragmentKernel(testFragment, func(u gpu.Uniforms, _ []float32) mgl32.Vec4 {
		return u.Vec3("tint").Vec4(1)
	})
}

// shaderCounter tracks live shader objects.
type shaderCounter struct {
	*soft.Device
	live int
}

func (d *shaderCounter) CreateShader(stage gpu.Stage, src string) (gpu.Handle, error) {
	h, err := d.Device.CreateShader(stage, src)
	if err == nil {
		d.live++
	}
	return h, err
}

func (d *shaderCounter) DeleteShader(h gpu.Handle) {
	d.live--
	d.Device.DeleteShader(h)
}

func TestBuildReleasesShaders(t *testing.T) {
	dev := &shaderCounter{Device: soft.NewDevice(4, 4)}

	p, err := gpu.Build(dev, testVertex, testFragment)
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.Valid())
	assert.Equal(t, 0, dev.live, "shader objects outlive the link")
}

func TestLinkFailureReleasesShaders(t *testing.T) {
	dev := &shaderCounter{Device: soft.NewDevice(4, 4)}

	vs, err := gpu.Compile(dev, gpu.StageVertex, testVertex)
	require.NoError(t, err)
	other, err := gpu.Compile(dev, gpu.StageVertex, testVertex)
	require.NoError(t, err)

	// Two vertex stages cannot link.
	p, err := gpu.Link(dev, vs, other)
	require.Error(t, err)

	var le *gpu.LinkError
	require.True(t, errors.As(err, &le))
	assert.NotEmpty(t, le.Log)
	assert.False(t, p.Valid())
	assert.Equal(t, 0, dev.live)
}

func TestCompileErrorCarriesLog(t *testing.T) {
	dev := &shaderCounter{Device: soft.NewDevice(4, 4)}

	p, err := gpu.Build(dev, testVertex, brokenFragment)
	require.Error(t, err)

	var ce *gpu.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.StageFragment, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Contains(t, err.Error(), "fragment shader compile failed")
	assert.False(t, p.Valid())
	assert.Equal(t, 0, dev.live, "vertex shader released after fragment failure")
	assert.NotPanics(t, p.Close)
}

func TestProgramCacheLoadsOnce(t *testing.T) {
	dev := &shaderCounter{Device: soft.NewDevice(4, 4)}
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	a, err := cache.Load("tint", testVertex, testFragment)
	require.NoError(t, err)
	b, err := cache.Load("tint", testVertex, testFragment)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, "tint", a.Name)

	got, ok := cache.Get("tint")
	assert.True(t, ok)
	assert.Same(t, a, got)
	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestProgramCacheKeepsInvalidProgram(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	p, err := cache.Load("broken", testVertex, brokenFragment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `program "broken"`)
	require.NotNil(t, p)
	assert.False(t, p.Valid())

	// Cached: the build is not retried but the failure is still reported.
	again, againErr := cache.Load("broken", testVertex, brokenFragment)
	assert.Same(t, p, again)
	assert.Equal(t, err, againErr)
	assert.Equal(t, 1, cache.Len())
}

func TestProgramCacheReportsFailureOnEveryHit(t *testing.T) {
	dev := &shaderCounter{Device: soft.NewDevice(4, 4)}
	cache := gpu.NewProgramCache(dev)
	defer cache.Close()

	first, err := cache.Load("x", testVertex, brokenFragment)
	require.Error(t, err)

	// A valid source under the same name still gets the cached failure.
	second, err := cache.Load("x", testVertex, testFragment)
	require.Error(t, err)
	var ce *gpu.CompileError
	assert.True(t, errors.As(err, &ce), "original compile error is kept")
	assert.Same(t, first, second)
	assert.False(t, second.Valid())
	assert.Equal(t, 0, dev.live)

	// Close forgets the failure along with the program.
	cache.Close()
	p, err := cache.Load("x", testVertex, testFragment)
	require.NoError(t, err)
	assert.True(t, p.Valid())
}

func TestProgramCacheClose(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	cache := gpu.NewProgramCache(dev)

	p, err := cache.Load("tint", testVertex, testFragment)
	require.NoError(t, err)
	cache.Close()

	assert.False(t, p.Valid())
	assert.Equal(t, 0, cache.Len())
	assert.NotPanics(t, cache.Close)
}

func TestProgramUniforms(t *testing.T) {
	dev := soft.NewDevice(2, 2)
	p, err := gpu.Build(dev, testVertex, testFragment)
	require.NoError(t, err)
	defer p.Close()

	va := gpu.NewVertexArray(dev, gpu.VertexLayout{{Location: 0, Size: 2}},
		[]float32{-1, -1, 3, -1, -1, 3}, nil)
	defer va.Close()
	assert.Equal(t, 3, va.VertexCount)

	p.Use()
	p.SetVec3("tint", mgl32.Vec3{0, 1, 0})
	assert.Equal(t, p.Location("tint"), p.Location("tint"))

	va.Bind()
	dev.DrawArrays(0, va.VertexCount)
	assert.Equal(t, gpu.Color{G: 1, A: 1}, dev.Pixel(0, 1, 1))
}
