package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"island-fx/gpu"
)

// Device is the OpenGL 4.1 core implementation of gpu.Device.
type Device struct {
	// buffers owned by each vertex array: VBO and optional EBO
	buffers map[uint32][2]uint32
}

var _ gpu.Device = (*Device)(nil)

// NewDevice loads the GL function pointers.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gpu.Logger().Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Device{buffers: make(map[uint32][2]uint32)}, nil
}

// ── Shaders ───────────────────────────────────────────────────────────────────

func (d *Device) CreateShader(stage gpu.Stage, source string) (gpu.Handle, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gpu.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}

	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &gpu.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.Handle(shader), nil
}

func (d *Device) DeleteShader(h gpu.Handle) { gl.DeleteShader(uint32(h)) }

func (d *Device) CreateProgram(vs, fs gpu.Handle) (gpu.Handle, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, uint32(vs))
	gl.AttachShader(prog, uint32(fs))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, &gpu.LinkError{Log: strings.TrimRight(log, "\x00")}
	}
	gl.DetachShader(prog, uint32(vs))
	gl.DetachShader(prog, uint32(fs))
	return gpu.Handle(prog), nil
}

func (d *Device) DeleteProgram(h gpu.Handle) { gl.DeleteProgram(uint32(h)) }
func (d *Device) UseProgram(h gpu.Handle)    { gl.UseProgram(uint32(h)) }

func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (d *Device) UniformMatrix4fv(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// ── Textures ──────────────────────────────────────────────────────────────────

func (d *Device) CreateTexture(desc gpu.TextureDesc, pixels []float32) gpu.Handle {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	filter := int32(gl.LINEAR)
	if desc.Filter == gpu.FilterNearest {
		filter = gl.NEAREST
	}
	wrap := int32(gl.CLAMP_TO_EDGE)
	if desc.Wrap == gpu.WrapRepeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

	var data unsafe.Pointer
	if len(pixels) > 0 {
		data = gl.Ptr(pixels)
	}
	switch desc.Format {
	case gpu.FormatRGB32F:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F,
			int32(desc.Width), int32(desc.Height), 0, gl.RGB, gl.FLOAT, data)
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
			int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.FLOAT, data)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Handle(id)
}

func (d *Device) DeleteTexture(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

func (d *Device) BindTexture(unit int, h gpu.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
}

// ── Framebuffers ──────────────────────────────────────────────────────────────

func (d *Device) CreateRenderbuffer(width, height int) gpu.Handle {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return gpu.Handle(rbo)
}

func (d *Device) DeleteRenderbuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteRenderbuffers(1, &id)
}

func (d *Device) CreateFramebuffer(color, depthStencil gpu.Handle) (gpu.Handle, gpu.FramebufferStatus) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, uint32(color), 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT,
		gl.RENDERBUFFER, uint32(depthStencil))
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return gpu.Handle(fbo), gpu.FramebufferStatus(status)
}

func (d *Device) DeleteFramebuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteFramebuffers(1, &id)
}

func (d *Device) BindFramebuffer(h gpu.Handle) { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(h)) }

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c gpu.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) DepthTest() bool { return gl.IsEnabled(gl.DEPTH_TEST) }

// ── Geometry ──────────────────────────────────────────────────────────────────

func (d *Device) CreateVertexArray(layout gpu.VertexLayout, vertices []float32, indices []uint32) gpu.Handle {
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(layout.Stride() * 4)
	for i, a := range layout {
		loc := uint32(a.Location)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, stride, gl.PtrOffset(layout.Offset(i)*4))
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.buffers[vao] = [2]uint32{vbo, ebo}
	return gpu.Handle(vao)
}

func (d *Device) DeleteVertexArray(h gpu.Handle) {
	vao := uint32(h)
	bufs := d.buffers[vao]
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &bufs[0])
	if bufs[1] != 0 {
		gl.DeleteBuffers(1, &bufs[1])
	}
	delete(d.buffers, vao)
}

func (d *Device) BindVertexArray(h gpu.Handle) { gl.BindVertexArray(uint32(h)) }

func (d *Device) DrawArrays(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (d *Device) DrawElements(count, offset int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(offset*4))
}
