package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// x, y, r, g, b in clip space, back to front.
var shapeVertices = []float32{
	// sky
	-1, 1, 0.5, 0.8, 1.0,
	1, 1, 0.5, 0.8, 1.0,
	-1, 0, 0.2, 0.6, 0.9,
	1, 0, 0.2, 0.6, 0.9,
	// water
	-1, 0, 0.1, 0.5, 0.7,
	1, 0, 0.1, 0.5, 0.7,
	-1, -1, 0.0, 0.3, 0.5,
	1, -1, 0.0, 0.3, 0.5,
	// island base
	-0.8, -0.4, 0.5, 0.3, 0.1,
	0.8, -0.4, 0.5, 0.3, 0.1,
	-0.4, -0.1, 0.6, 0.4, 0.2,
	0.4, -0.1, 0.6, 0.4, 0.2,
	0.0, -0.7, 0.5, 0.2, 0.1,
	// grass
	-0.7, -0.1, 0.1, 0.8, 0.1,
	0.7, -0.1, 0.1, 0.8, 0.1,
	-0.6, 0.3, 0.2, 0.9, 0.2,
	0.6, 0.3, 0.2, 0.9, 0.2,
	// trunk
	-0.05, 0.1, 0.5, 0.3, 0.1,
	0.05, 0.1, 0.5, 0.3, 0.1,
	-0.05, 0.3, 0.5, 0.3, 0.1,
	0.05, 0.3, 0.5, 0.3, 0.1,
	// foliage
	-0.15, 0.3, 0.1, 0.8, 0.1,
	0.15, 0.3, 0.1, 0.8, 0.1,
	0.0, 0.5, 0.1, 0.9, 0.1,
}

var shapeIndices = []uint32{
	0, 1, 2, 1, 2, 3, // sky
	4, 5, 6, 5, 6, 7, // water
	10, 11, 8, 11, 9, 8, 8, 9, 12, // island base
	13, 14, 15, 14, 15, 16, // grass
	17, 18, 19, 18, 19, 20, // trunk
	21, 22, 23, // foliage
}

// ShapesBackground is the clear colour of the 2D scene.
var ShapesBackground = gpu.Color{R: 0.5, G: 0.8, B: 0.95, A: 1}

// Shapes is a static 2D landscape drawn in painter's order. It ignores the
// camera.
type Shapes struct {
	dev    gpu.Device
	prog   *gpu.Program
	mesh   *Mesh
	warned bool
}

func NewShapes(dev gpu.Device, cache *gpu.ProgramCache) (*Shapes, error) {
	s := &Shapes{dev: dev, mesh: NewMesh("shapes", ColorLayout(2), shapeVertices, shapeIndices)}
	s.mesh.Upload(dev)
	prog, err := cache.Load("shapes", flatVertexShader, colorFragmentShader)
	s.prog = prog
	return s, err
}

func (s *Shapes) ClearColor() gpu.Color { return ShapesBackground }

// Draw ignores view and projection. All shapes lie at depth zero, so the
// depth test is off while they draw.
func (s *Shapes) Draw(_, _ mgl32.Mat4) {
	if !s.prog.Valid() {
		if !s.warned {
			gpu.Logger().Warn("shapes program invalid, scene not drawn")
			s.warned = true
		}
		return
	}
	depth := s.dev.DepthTest()
	s.dev.SetDepthTest(false)
	defer s.dev.SetDepthTest(depth)

	s.prog.Use()
	s.mesh.Draw(s.dev)
}

func (s *Shapes) Close() { s.mesh.Destroy() }
