package gpu

// Owning wrappers around device handles. Each Close releases the object once;
// later calls are no-ops, so teardown can be deferred in creation order.

type Texture struct {
	dev    Device
	handle Handle
	Desc   TextureDesc
}

func NewTexture(dev Device, desc TextureDesc, pixels []float32) *Texture {
	return &Texture{dev: dev, handle: dev.CreateTexture(desc, pixels), Desc: desc}
}

func (t *Texture) Handle() Handle { return t.handle }

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit int) {
	t.dev.BindTexture(unit, t.handle)
}

func (t *Texture) Close() {
	if t.handle != 0 {
		t.dev.DeleteTexture(t.handle)
		t.handle = 0
	}
}

type Renderbuffer struct {
	dev           Device
	handle        Handle
	Width, Height int
}

// NewDepthStencil allocates a DEPTH24_STENCIL8 renderbuffer.
func NewDepthStencil(dev Device, width, height int) *Renderbuffer {
	return &Renderbuffer{dev: dev, handle: dev.CreateRenderbuffer(width, height), Width: width, Height: height}
}

func (r *Renderbuffer) Handle() Handle { return r.handle }

func (r *Renderbuffer) Close() {
	if r.handle != 0 {
		r.dev.DeleteRenderbuffer(r.handle)
		r.handle = 0
	}
}

type Framebuffer struct {
	dev    Device
	handle Handle
}

// NewFramebuffer binds a colour texture and a depth/stencil renderbuffer
// together. An incomplete framebuffer is released and reported as a
// *FramebufferIncompleteError.
func NewFramebuffer(dev Device, color *Texture, depthStencil *Renderbuffer) (*Framebuffer, error) {
	h, status := dev.CreateFramebuffer(color.Handle(), depthStencil.Handle())
	if status != FramebufferComplete {
		if h != 0 {
			dev.DeleteFramebuffer(h)
		}
		Logger().Error("framebuffer incomplete", "status", status.String())
		return nil, &FramebufferIncompleteError{Status: status}
	}
	return &Framebuffer{dev: dev, handle: h}, nil
}

func (f *Framebuffer) Handle() Handle { return f.handle }

func (f *Framebuffer) Bind() {
	f.dev.BindFramebuffer(f.handle)
}

func (f *Framebuffer) Close() {
	if f.handle != 0 {
		f.dev.DeleteFramebuffer(f.handle)
		f.handle = 0
	}
}

// VertexArray is an immutable vertex (and optional index) buffer pair.
type VertexArray struct {
	dev         Device
	handle      Handle
	VertexCount int
	IndexCount  int
}

func NewVertexArray(dev Device, layout VertexLayout, vertices []float32, indices []uint32) *VertexArray {
	return &VertexArray{
		dev:         dev,
		handle:      dev.CreateVertexArray(layout, vertices, indices),
		VertexCount: len(vertices) / layout.Stride(),
		IndexCount:  len(indices),
	}
}

func (v *VertexArray) Handle() Handle { return v.handle }

func (v *VertexArray) Bind() {
	v.dev.BindVertexArray(v.handle)
}

func (v *VertexArray) Close() {
	if v.handle != 0 {
		v.dev.DeleteVertexArray(v.handle)
		v.handle = 0
	}
}
