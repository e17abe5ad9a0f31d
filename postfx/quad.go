package postfx

import "island-fx/gpu"

// quadVertices are two triangles covering clip space, as x, y, u, v.
var quadVertices = []float32{
	-1, 1, 0, 1,
	-1, -1, 0, 0,
	1, -1, 1, 0,

	-1, 1, 0, 1,
	1, -1, 1, 0,
	1, 1, 1, 1,
}

// QuadLayout is position at location 0 and texture coordinates at location 1.
var QuadLayout = gpu.VertexLayout{{Location: 0, Size: 2}, {Location: 1, Size: 2}}

// FullScreenQuad is the immutable geometry shared by every full-screen pass.
type FullScreenQuad struct {
	vao *gpu.VertexArray
	dev gpu.Device
}

func NewFullScreenQuad(dev gpu.Device) *FullScreenQuad {
	return &FullScreenQuad{vao: gpu.NewVertexArray(dev, QuadLayout, quadVertices, nil), dev: dev}
}

// Draw issues the 6-vertex triangle list with the current program.
func (q *FullScreenQuad) Draw() {
	q.vao.Bind()
	q.dev.DrawArrays(0, q.vao.VertexCount)
}

func (q *FullScreenQuad) Close() { q.vao.Close() }
