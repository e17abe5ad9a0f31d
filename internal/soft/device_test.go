package soft

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/gpu"
)

const (
	flatVertex = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
out vec3 vColor;
void main() { vColor = aColor; gl_Position = vec4(aPos, 1.0); }
`
	flatFragment = `#version 410 core
in vec3 vColor;
out vec4 FragColor;
void main() { FragColor = vec4(vColor, 1.0); }
`
)

func init() {
	gpu.RegisterVertexKernel(flatVertex, func(_ gpu.Uniforms, a [][]float32) (mgl32.Vec4, []float32) {
		return mgl32.Vec4{a[0][0], a[0][1], a[0][2], 1}, a[1]
	})
	gpu.RegisterFragmentKernel(flatFragment, func(_ gpu.Uniforms, v []float32) mgl32.Vec4 {
		return mgl32.Vec4{v[0], v[1], v[2], 1}
	})
}

var flatLayout = gpu.VertexLayout{{Location: 0, Size: 3}, {Location: 1, Size: 3}}

// fullTriangle covers the whole viewport at depth z in colour c.
func fullTriangle(z float32, c mgl32.Vec3) []float32 {
	return []float32{
		-1, -1, z, c[0], c[1], c[2],
		3, -1, z, c[0], c[1], c[2],
		-1, 3, z, c[0], c[1], c[2],
	}
}

func newFlat(t *testing.T, d *Device) gpu.Handle {
	t.Helper()
	vs, err := d.CreateShader(gpu.StageVertex, flatVertex)
	require.NoError(t, err)
	fs, err := d.CreateShader(gpu.StageFragment, flatFragment)
	require.NoError(t, err)
	p, err := d.CreateProgram(vs, fs)
	require.NoError(t, err)
	d.DeleteShader(vs)
	d.DeleteShader(fs)
	return p
}

func TestUnknownSourceFailsToCompile(t *testing.T) {
	d := NewDevice(2, 2)
	_, err := d.CreateShader(gpu.StageFragment, "void main() {}")
	var ce *gpu.CompileError
	require.ErrorAs(t, err, &ce)
	assert.NotEmpty(t, ce.Log)

	_, err = d.CreateShader(gpu.StageVertex, "")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, gpu.StageVertex, ce.Stage)
}

func TestDepthTest(t *testing.T) {
	d := NewDevice(4, 4)
	d.UseProgram(newFlat(t, d))

	near := d.CreateVertexArray(flatLayout, fullTriangle(-0.5, mgl32.Vec3{1, 0, 0}), nil)
	far := d.CreateVertexArray(flatLayout, fullTriangle(0.5, mgl32.Vec3{0, 0, 1}), nil)

	d.SetDepthTest(true)
	d.Clear(gpu.ColorBlack)
	d.BindVertexArray(near)
	d.DrawArrays(0, 3)
	d.BindVertexArray(far)
	d.DrawArrays(0, 3)
	assert.Equal(t, gpu.Color{R: 1, A: 1}, d.Pixel(0, 2, 2), "far triangle hidden")

	d.SetDepthTest(false)
	d.Clear(gpu.ColorBlack)
	d.BindVertexArray(near)
	d.DrawArrays(0, 3)
	d.BindVertexArray(far)
	d.DrawArrays(0, 3)
	assert.Equal(t, gpu.Color{B: 1, A: 1}, d.Pixel(0, 2, 2), "painter's order without depth test")
	assert.Equal(t, 4, d.DrawCount(0))
}

func TestDrawElementsOffset(t *testing.T) {
	d := NewDevice(4, 4)
	d.UseProgram(newFlat(t, d))

	verts := append(fullTriangle(0, mgl32.Vec3{1, 0, 0}), fullTriangle(0, mgl32.Vec3{0, 1, 0})...)
	vao := d.CreateVertexArray(flatLayout, verts, []uint32{0, 1, 2, 3, 4, 5})
	d.BindVertexArray(vao)

	d.Clear(gpu.ColorBlack)
	d.DrawElements(3, 3)
	assert.Equal(t, gpu.Color{G: 1, A: 1}, d.Pixel(0, 0, 0))

	d.DrawElements(3, 6) // out of range: ignored
	assert.Equal(t, 1, d.DrawCount(0))
}

func TestFramebufferStatus(t *testing.T) {
	d := NewDevice(2, 2)
	tex := d.CreateTexture(gpu.TextureDesc{Width: 8, Height: 8}, nil)
	rb := d.CreateRenderbuffer(8, 8)
	small := d.CreateRenderbuffer(4, 4)
	float := d.CreateTexture(gpu.TextureDesc{Width: 8, Height: 8, Format: gpu.FormatRGB32F}, nil)

	_, status := d.CreateFramebuffer(tex, rb)
	assert.Equal(t, gpu.FramebufferComplete, status)
	_, status = d.CreateFramebuffer(tex, small)
	assert.Equal(t, gpu.FramebufferIncompleteDimensions, status)
	_, status = d.CreateFramebuffer(float, rb)
	assert.Equal(t, gpu.FramebufferIncompleteAttachment, status)
	_, status = d.CreateFramebuffer(tex, 0)
	assert.Equal(t, gpu.FramebufferIncompleteMissingAttach, status)
}

func TestOffscreenDrawLeavesScreen(t *testing.T) {
	d := NewDevice(4, 4)
	d.UseProgram(newFlat(t, d))
	tex := d.CreateTexture(gpu.TextureDesc{Width: 4, Height: 4}, nil)
	fb, status := d.CreateFramebuffer(tex, d.CreateRenderbuffer(4, 4))
	require.Equal(t, gpu.FramebufferComplete, status)

	d.BindVertexArray(d.CreateVertexArray(flatLayout, fullTriangle(0, mgl32.Vec3{1, 1, 0}), nil))
	d.BindFramebuffer(fb)
	d.DrawArrays(0, 3)

	assert.Equal(t, gpu.Color{R: 1, G: 1, A: 1}, d.Pixel(fb, 3, 3))
	assert.Equal(t, 1, d.DrawCount(fb))
	assert.Equal(t, 0, d.DrawCount(0))
	assert.Equal(t, gpu.Color{}, d.Pixel(0, 3, 3))
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, float32(0), quantize(-0.4))
	assert.Equal(t, float32(1), quantize(1.7))
	assert.InDelta(t, 0.5, quantize(0.5), 1.0/255)
	assert.Equal(t, quantize(quantize(0.3)), quantize(0.3))
}

func TestImageIsTopRowFirst(t *testing.T) {
	d := NewDevice(2, 2)
	d.UseProgram(newFlat(t, d))
	// Lower-left half only.
	tri := []float32{
		-1, -1, 0, 1, 1, 1,
		1, -1, 0, 1, 1, 1,
		-1, 1, 0, 1, 1, 1,
	}
	d.BindVertexArray(d.CreateVertexArray(flatLayout, tri, nil))
	d.Clear(gpu.ColorBlack)
	d.DrawArrays(0, 3)

	img := d.Image()
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 1).R, "bottom-left is white")
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 0).R, "top-right is black")
}
