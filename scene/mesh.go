package scene

import "island-fx/gpu"

// ColorLayout is the position + colour vertex format shared by every scene
// mesh: location 0 carries the position, location 1 an RGB colour.
func ColorLayout(positionSize int) gpu.VertexLayout {
	return gpu.VertexLayout{{Location: 0, Size: positionSize}, {Location: 1, Size: 3}}
}

// Mesh holds CPU-side vertex/index data and the vertex array it was
// uploaded to.
type Mesh struct {
	Name     string
	Layout   gpu.VertexLayout
	Vertices []float32
	Indices  []uint32

	vao *gpu.VertexArray
}

func NewMesh(name string, layout gpu.VertexLayout, vertices []float32, indices []uint32) *Mesh {
	return &Mesh{Name: name, Layout: layout, Vertices: vertices, Indices: indices}
}

// VertexCount returns the number of vertices in the CPU-side data.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / m.Layout.Stride() }

// Upload creates the vertex array on first use.
func (m *Mesh) Upload(dev gpu.Device) {
	if m.vao == nil {
		m.vao = gpu.NewVertexArray(dev, m.Layout, m.Vertices, m.Indices)
	}
}

// DrawRange draws count indices starting at index offset. The mesh must be
// uploaded.
func (m *Mesh) DrawRange(dev gpu.Device, count, offset int) {
	m.vao.Bind()
	dev.DrawElements(count, offset)
}

// Draw draws the whole mesh, indexed when it has indices.
func (m *Mesh) Draw(dev gpu.Device) {
	m.vao.Bind()
	if len(m.Indices) > 0 {
		dev.DrawElements(len(m.Indices), 0)
		return
	}
	dev.DrawArrays(0, m.VertexCount())
}

func (m *Mesh) Destroy() {
	if m.vao != nil {
		m.vao.Close()
		m.vao = nil
	}
}
