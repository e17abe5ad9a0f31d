package gpu

// Device is the slice of a graphics API the pipeline needs. Every call must be
// issued from the thread that owns the device's context.
//
// internal/opengl implements it on top of an OpenGL 4.1 core context;
// internal/soft implements it in software for headless runs and tests.
type Device interface {
	// CreateShader compiles one stage. A failure returns a *CompileError
	// carrying the driver log; the shader object is released already.
	CreateShader(stage Stage, source string) (Handle, error)
	DeleteShader(h Handle)
	// CreateProgram links a vertex and fragment shader. A failure returns a
	// *LinkError; the shaders are left to the caller either way.
	CreateProgram(vs, fs Handle) (Handle, error)
	DeleteProgram(h Handle)
	UseProgram(h Handle)

	// UniformLocation returns -1 for names the program does not use.
	UniformLocation(program Handle, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4fv(loc int32, m *[16]float32)

	// CreateTexture allocates a 2D texture; pixels may be nil.
	CreateTexture(desc TextureDesc, pixels []float32) Handle
	DeleteTexture(h Handle)
	BindTexture(unit int, h Handle)

	// CreateRenderbuffer allocates combined 24-bit depth / 8-bit stencil storage.
	CreateRenderbuffer(width, height int) Handle
	DeleteRenderbuffer(h Handle)
	CreateFramebuffer(color, depthStencil Handle) (Handle, FramebufferStatus)
	DeleteFramebuffer(h Handle)
	// BindFramebuffer selects the draw target; 0 is the default framebuffer.
	BindFramebuffer(h Handle)
	Viewport(width, height int)
	// Clear clears colour and depth of the bound framebuffer.
	Clear(c Color)

	SetDepthTest(enabled bool)
	DepthTest() bool

	CreateVertexArray(layout VertexLayout, vertices []float32, indices []uint32) Handle
	DeleteVertexArray(h Handle)
	BindVertexArray(h Handle)
	// DrawArrays draws a triangle list from the bound vertex array.
	DrawArrays(first, count int)
	// DrawElements draws count indices starting at index offset.
	DrawElements(count, offset int)
}
