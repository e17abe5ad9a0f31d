// Package soft is a software gpu.Device. It executes the CPU kernels that
// packages register next to their GLSL sources, so the whole pipeline can run
// without a GPU or a window: headless renders and the test suite use it.
package soft

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

const maxTextureUnits = 8

type texture struct {
	desc gpu.TextureDesc
	data []float32 // desc.Format.Components() floats per texel, row 0 at the bottom
}

type renderbuffer struct {
	width, height int
	depth         []float32
}

type framebuffer struct {
	color *texture
	depth []float32
	draws int
}

type vertexArray struct {
	layout   gpu.VertexLayout
	vertices []float32
	indices  []uint32
}

type shader struct {
	stage    gpu.Stage
	vertex   gpu.VertexKernel
	fragment gpu.FragmentKernel
}

type program struct {
	vertex   gpu.VertexKernel
	fragment gpu.FragmentKernel
	locs     map[string]int32
	values   map[int32][]float32
}

// Device is a single-threaded software rasterizer. Triangles are not
// clipped: primitives with a vertex behind the eye are dropped, and
// varyings are interpolated linearly in screen space.
type Device struct {
	next gpu.Handle

	shaders       map[gpu.Handle]*shader
	programs      map[gpu.Handle]*program
	textures      map[gpu.Handle]*texture
	renderbuffers map[gpu.Handle]*renderbuffer
	framebuffers  map[gpu.Handle]*framebuffer
	vertexArrays  map[gpu.Handle]*vertexArray

	screen *framebuffer

	boundFB   gpu.Handle
	current   gpu.Handle
	vao       gpu.Handle
	units     [maxTextureUnits]gpu.Handle
	depthTest bool
	viewportW int
	viewportH int
}

var _ gpu.Device = (*Device)(nil)

// NewDevice creates a device whose default framebuffer is width x height.
func NewDevice(width, height int) *Device {
	screen := &framebuffer{
		color: &texture{
			desc: gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatRGBA8},
			data: make([]float32, width*height*4),
		},
		depth: make([]float32, width*height),
	}
	return &Device{
		shaders:       make(map[gpu.Handle]*shader),
		programs:      make(map[gpu.Handle]*program),
		textures:      make(map[gpu.Handle]*texture),
		renderbuffers: make(map[gpu.Handle]*renderbuffer),
		framebuffers:  make(map[gpu.Handle]*framebuffer),
		vertexArrays:  make(map[gpu.Handle]*vertexArray),
		screen:        screen,
		viewportW:     width,
		viewportH:     height,
	}
}

func (d *Device) alloc() gpu.Handle {
	d.next++
	return d.next
}

// ── Shaders ───────────────────────────────────────────────────────────────────

func (d *Device) CreateShader(stage gpu.Stage, source string) (gpu.Handle, error) {
	if source == "" {
		return 0, &gpu.CompileError{Stage: stage, Log: "0:1(1): error: empty shader source"}
	}
	s := &shader{stage: stage}
	var ok bool
	switch stage {
	case gpu.StageVertex:
		s.vertex, ok = gpu.LookupVertexKernel(source)
	case gpu.StageFragment:
		s.fragment, ok = gpu.LookupFragmentKernel(source)
	}
	if !ok {
		return 0, &gpu.CompileError{
			Stage: stage,
			Log:   fmt.Sprintf("0:1(1): error: no software kernel registered for this %s source (%d bytes)", stage, len(source)),
		}
	}
	h := d.alloc()
	d.shaders[h] = s
	return h, nil
}

func (d *Device) DeleteShader(h gpu.Handle) { delete(d.shaders, h) }

func (d *Device) CreateProgram(vs, fs gpu.Handle) (gpu.Handle, error) {
	v, ok := d.shaders[vs]
	if !ok || v.stage != gpu.StageVertex {
		return 0, &gpu.LinkError{Log: "error: program lacks a compiled vertex shader"}
	}
	f, ok := d.shaders[fs]
	if !ok || f.stage != gpu.StageFragment {
		return 0, &gpu.LinkError{Log: "error: program lacks a compiled fragment shader"}
	}
	h := d.alloc()
	d.programs[h] = &program{
		vertex:   v.vertex,
		fragment: f.fragment,
		locs:     make(map[string]int32),
		values:   make(map[int32][]float32),
	}
	return h, nil
}

func (d *Device) DeleteProgram(h gpu.Handle) {
	delete(d.programs, h)
	if d.current == h {
		d.current = 0
	}
}

func (d *Device) UseProgram(h gpu.Handle) { d.current = h }

// UniformLocation hands out a location for any name; kernels simply read
// zero for uniforms nobody set.
func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	p, ok := d.programs[prog]
	if !ok {
		return -1
	}
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := int32(len(p.locs))
	p.locs[name] = loc
	return loc
}

func (d *Device) setUniform(loc int32, v ...float32) {
	p, ok := d.programs[d.current]
	if !ok || loc < 0 {
		return
	}
	p.values[loc] = v
}

func (d *Device) Uniform1i(loc int32, v int32)         { d.setUniform(loc, float32(v)) }
func (d *Device) Uniform1f(loc int32, v float32)       { d.setUniform(loc, v) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { d.setUniform(loc, x, y, z) }

func (d *Device) UniformMatrix4fv(loc int32, m *[16]float32) {
	d.setUniform(loc, m[:]...)
}

// ── Textures and framebuffers ─────────────────────────────────────────────────

func (d *Device) CreateTexture(desc gpu.TextureDesc, pixels []float32) gpu.Handle {
	n := desc.Width * desc.Height * desc.Format.Components()
	data := make([]float32, n)
	copy(data, pixels)
	h := d.alloc()
	d.textures[h] = &texture{desc: desc, data: data}
	return h
}

func (d *Device) DeleteTexture(h gpu.Handle) {
	delete(d.textures, h)
	for i := range d.units {
		if d.units[i] == h {
			d.units[i] = 0
		}
	}
}

func (d *Device) BindTexture(unit int, h gpu.Handle) {
	if unit >= 0 && unit < maxTextureUnits {
		d.units[unit] = h
	}
}

func (d *Device) CreateRenderbuffer(width, height int) gpu.Handle {
	h := d.alloc()
	d.renderbuffers[h] = &renderbuffer{width: width, height: height, depth: make([]float32, width*height)}
	return h
}

func (d *Device) DeleteRenderbuffer(h gpu.Handle) { delete(d.renderbuffers, h) }

func (d *Device) CreateFramebuffer(colorTex, depthStencil gpu.Handle) (gpu.Handle, gpu.FramebufferStatus) {
	h := d.alloc()
	tex, okc := d.textures[colorTex]
	rb, okd := d.renderbuffers[depthStencil]
	fb := &framebuffer{}
	d.framebuffers[h] = fb
	switch {
	case !okc || !okd:
		return h, gpu.FramebufferIncompleteMissingAttach
	case tex.desc.Width <= 0 || tex.desc.Height <= 0 || tex.desc.Format != gpu.FormatRGBA8:
		return h, gpu.FramebufferIncompleteAttachment
	case tex.desc.Width != rb.width || tex.desc.Height != rb.height:
		return h, gpu.FramebufferIncompleteDimensions
	}
	fb.color = tex
	fb.depth = rb.depth
	return h, gpu.FramebufferComplete
}

func (d *Device) DeleteFramebuffer(h gpu.Handle) {
	delete(d.framebuffers, h)
	if d.boundFB == h {
		d.boundFB = 0
	}
}

func (d *Device) BindFramebuffer(h gpu.Handle) { d.boundFB = h }

func (d *Device) Viewport(width, height int) {
	d.viewportW, d.viewportH = width, height
}

func (d *Device) target() *framebuffer {
	if d.boundFB == 0 {
		return d.screen
	}
	return d.framebuffers[d.boundFB]
}

func (d *Device) Clear(c gpu.Color) {
	fb := d.target()
	if fb == nil || fb.color == nil {
		return
	}
	px := fb.color.data
	for i := 0; i < len(px); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = quantize(c.R), quantize(c.G), quantize(c.B), quantize(c.A)
	}
	for i := range fb.depth {
		fb.depth[i] = 1
	}
}

func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }
func (d *Device) DepthTest() bool           { return d.depthTest }

// ── Geometry ──────────────────────────────────────────────────────────────────

func (d *Device) CreateVertexArray(layout gpu.VertexLayout, vertices []float32, indices []uint32) gpu.Handle {
	h := d.alloc()
	d.vertexArrays[h] = &vertexArray{
		layout:   append(gpu.VertexLayout(nil), layout...),
		vertices: append([]float32(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	}
	return h
}

func (d *Device) DeleteVertexArray(h gpu.Handle) {
	delete(d.vertexArrays, h)
	if d.vao == h {
		d.vao = 0
	}
}

func (d *Device) BindVertexArray(h gpu.Handle) { d.vao = h }

func (d *Device) DrawArrays(first, count int) {
	idx := make([]int, count)
	for i := range idx {
		idx[i] = first + i
	}
	d.draw(idx)
}

func (d *Device) DrawElements(count, offset int) {
	va, ok := d.vertexArrays[d.vao]
	if !ok || offset+count > len(va.indices) {
		return
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = int(va.indices[offset+i])
	}
	d.draw(idx)
}

// ── Read-back ─────────────────────────────────────────────────────────────────

// Pixel returns the colour stored at (x, y) of framebuffer fb, with y = 0 at
// the bottom as in OpenGL. fb 0 is the default framebuffer.
func (d *Device) Pixel(fb gpu.Handle, x, y int) gpu.Color {
	f := d.screen
	if fb != 0 {
		f = d.framebuffers[fb]
	}
	if f == nil || f.color == nil {
		return gpu.Color{}
	}
	w := f.color.desc.Width
	i := (y*w + x) * 4
	px := f.color.data
	return gpu.Color{R: px[i], G: px[i+1], B: px[i+2], A: px[i+3]}
}

// DrawCount returns how many draw calls have written into fb.
func (d *Device) DrawCount(fb gpu.Handle) int {
	if fb == 0 {
		return d.screen.draws
	}
	if f, ok := d.framebuffers[fb]; ok {
		return f.draws
	}
	return 0
}

// Image copies the default framebuffer into an image, top row first.
func (d *Device) Image() *image.NRGBA {
	w, h := d.screen.color.desc.Width, d.screen.color.desc.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := d.Pixel(0, x, y)
			img.SetNRGBA(x, h-1-y, color.NRGBA{
				R: uint8(math.Round(float64(c.R) * 255)),
				G: uint8(math.Round(float64(c.G) * 255)),
				B: uint8(math.Round(float64(c.B) * 255)),
				A: uint8(math.Round(float64(c.A) * 255)),
			})
		}
	}
	return img
}

// quantize stores v the way an RGBA8 attachment would.
func quantize(v float32) float32 {
	v = mgl32.Clamp(v, 0, 1)
	return float32(math.Round(float64(v)*255) / 255)
}
