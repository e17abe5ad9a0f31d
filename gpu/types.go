package gpu

import "fmt"

// Handle names a GPU object owned by a Device. Zero never names a live object.
type Handle uint32

type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
	ColorSky   = Color{0.5, 0.7, 1.0, 1}
)

// Stage selects the pipeline stage a shader is compiled for.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

type TextureFormat int

const (
	// FormatRGBA8 is the fixed-point colour format used by render targets.
	FormatRGBA8 TextureFormat = iota
	// FormatRGB32F holds unclamped float data (noise).
	FormatRGB32F
)

// Components returns the number of channels per texel.
func (f TextureFormat) Components() int {
	if f == FormatRGB32F {
		return 3
	}
	return 4
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// TextureDesc describes a 2D texture without mipmaps.
type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Filter        Filter
	Wrap          Wrap
}

// Attrib is one float vertex attribute inside an interleaved buffer.
type Attrib struct {
	Location int
	Size     int // floats
}

// VertexLayout describes interleaved float vertices; attributes are packed in order.
type VertexLayout []Attrib

// Stride returns the number of floats per vertex.
func (l VertexLayout) Stride() int {
	n := 0
	for _, a := range l {
		n += a.Size
	}
	return n
}

// Offset returns the float offset of the i-th attribute.
func (l VertexLayout) Offset(i int) int {
	n := 0
	for _, a := range l[:i] {
		n += a.Size
	}
	return n
}

// FramebufferStatus mirrors glCheckFramebufferStatus results.
type FramebufferStatus uint32

const (
	FramebufferComplete                FramebufferStatus = 0x8CD5
	FramebufferIncompleteAttachment    FramebufferStatus = 0x8CD6
	FramebufferIncompleteMissingAttach FramebufferStatus = 0x8CD7
	FramebufferIncompleteDimensions    FramebufferStatus = 0x8CD9
	FramebufferUnsupported             FramebufferStatus = 0x8CDD
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferIncompleteMissingAttach:
		return "missing attachment"
	case FramebufferUnsupported:
		return "unsupported"
	case FramebufferIncompleteDimensions:
		return "attachment dimensions differ"
	}
	return fmt.Sprintf("status 0x%X", uint32(s))
}
