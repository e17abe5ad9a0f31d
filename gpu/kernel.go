package gpu

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler reads a bound texture at normalized texture coordinates.
type Sampler interface {
	Sample(uv mgl32.Vec2) mgl32.Vec4
}

// Uniforms exposes the values set on the current program to a kernel.
// Unset uniforms read as zero.
type Uniforms interface {
	Float(name string) float32
	Vec3(name string) mgl32.Vec3
	Mat4(name string) mgl32.Mat4
	Sampler(name string) Sampler
}

// VertexKernel is the CPU rendition of a vertex shader. attribs is indexed
// by attribute location.
type VertexKernel func(u Uniforms, attribs [][]float32) (position mgl32.Vec4, varyings []float32)

// FragmentKernel is the CPU rendition of a fragment shader. varyings are
// interpolated across the primitive.
type FragmentKernel func(u Uniforms, varyings []float32) mgl32.Vec4

var (
	kernelMu        sync.RWMutex
	vertexKernels   = map[string]VertexKernel{}
	fragmentKernels = map[string]FragmentKernel{}
)

// RegisterVertexKernel binds a CPU kernel to GLSL source text so that
// software devices can execute programs built from it. Packages call it
// from init next to the source they ship.
func RegisterVertexKernel(source string, k VertexKernel) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	vertexKernels[source] = k
}

// RegisterFragmentKernel is RegisterVertexKernel for fragment stages.
func RegisterFragmentKernel(source string, k FragmentKernel) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	fragmentKernels[source] = k
}

// LookupVertexKernel returns the kernel registered for source.
func LookupVertexKernel(source string) (VertexKernel, bool) {
	kernelMu.RLock()
	defer kernelMu.RUnlock()
	k, ok := vertexKernels[source]
	return k, ok
}

// LookupFragmentKernel returns the kernel registered for source.
func LookupFragmentKernel(source string) (FragmentKernel, bool) {
	kernelMu.RLock()
	defer kernelMu.RUnlock()
	k, ok := fragmentKernels[source]
	return k, ok
}
