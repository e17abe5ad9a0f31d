package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// ── Geometry ──────────────────────────────────────────────────────────────────
// x, y, z, r, g, b

var islandVertices = []float32{
	-0.6, 0.1, 0, 0.5, 0.35, 0.05,
	0.6, 0.1, 0, 0.5, 0.35, 0.05,
	0.6, -0.3, 0, 0.5, 0.35, 0.05,
	-0.6, -0.3, 0, 0.5, 0.35, 0.05,
}

var islandIndices = []uint32{0, 1, 2, 2, 3, 0}

var treeVertices = []float32{
	// trunk
	-0.05, 0.2, 0, 0.4, 0.25, 0.1,
	0.05, 0.2, 0, 0.4, 0.25, 0.1,
	0.05, 0.4, 0, 0.4, 0.25, 0.1,
	-0.05, 0.4, 0, 0.4, 0.25, 0.1,
	// leaves
	0, 0.2, 0, 0, 0.4, 0.2,
	-0.2, 0, 0, 0, 0.4, 0.2,
	0.2, 0, 0, 0, 0.4, 0.2,
}

const (
	trunkIndexCount  = 6
	leavesIndexCount = 3
)

var treeIndices = []uint32{
	0, 1, 2, 0, 2, 3,
	4, 5, 6,
}

var cloudVertices = []float32{
	-0.8, 0.8, 0, 1, 1, 1,
	-0.6, 0.8, 0, 1, 1, 1,
	-0.7, 0.9, 0, 1, 1, 1,

	0.7, 0.8, 0, 1, 1, 1,
	0.9, 0.8, 0, 1, 1, 1,
	0.8, 0.9, 0, 1, 1, 1,

	-0.4, 0.7, 0, 1, 1, 1,
	-0.2, 0.7, 0, 1, 1, 1,
	-0.3, 0.8, 0, 1, 1, 1,

	0.7, 0.6, 0, 1, 1, 1,
	0.5, 0.6, 0, 1, 1, 1,
	0.6, 0.7, 0, 1, 1, 1,
}

var cloudIndices = []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

// IslandSky is the clear colour behind the island.
var IslandSky = gpu.ColorSky

// DefaultTrees are the tree positions on the island.
var DefaultTrees = []mgl32.Vec3{{-0.2, -0.1, 0}, {0.4, -0.1, 0}}

// LeavesOffset and LeavesScale place the leaf triangle above the trunk.
var (
	LeavesOffset = mgl32.Vec3{0, 0.3, 0}
	LeavesScale  = float32(0.75)
)

// Island is the floating island with its trees and clouds.
type Island struct {
	dev  gpu.Device
	prog *gpu.Program

	ground *Mesh
	tree   *Mesh
	clouds *Mesh

	Trees []mgl32.Vec3

	warned bool
}

// NewIsland uploads the island geometry and loads its program through cache.
// A program build failure is returned for logging; the island then draws
// nothing.
func NewIsland(dev gpu.Device, cache *gpu.ProgramCache) (*Island, error) {
	layout := ColorLayout(3)
	s := &Island{
		dev:    dev,
		ground: NewMesh("island", layout, islandVertices, islandIndices),
		tree:   NewMesh("tree", layout, treeVertices, treeIndices),
		clouds: NewMesh("clouds", layout, cloudVertices, cloudIndices),
		Trees:  append([]mgl32.Vec3(nil), DefaultTrees...),
	}
	for _, m := range s.meshes() {
		m.Upload(dev)
	}

	prog, err := cache.Load("island", worldVertexShader, colorFragmentShader)
	s.prog = prog
	return s, err
}

func (s *Island) meshes() []*Mesh { return []*Mesh{s.ground, s.tree, s.clouds} }

func (s *Island) ClearColor() gpu.Color { return IslandSky }

// TreeModels returns the model matrices of a tree at pos: leaves first,
// then trunk, in draw order.
func TreeModels(pos mgl32.Vec3) (leaves, trunk mgl32.Mat4) {
	trunk = mgl32.Translate3D(pos[0], pos[1], pos[2])
	leaves = trunk.
		Mul4(mgl32.Translate3D(LeavesOffset[0], LeavesOffset[1], LeavesOffset[2])).
		Mul4(mgl32.Scale3D(LeavesScale, LeavesScale, LeavesScale))
	return leaves, trunk
}

// Draw draws the island, then each tree, then the clouds.
func (s *Island) Draw(view, projection mgl32.Mat4) {
	if !s.prog.Valid() {
		if !s.warned {
			gpu.Logger().Warn("island program invalid, scene not drawn")
			s.warned = true
		}
		return
	}

	s.prog.Use()
	s.prog.SetMat4("view", view)
	s.prog.SetMat4("projection", projection)

	s.prog.SetMat4("model", mgl32.Ident4())
	s.ground.Draw(s.dev)

	for _, pos := range s.Trees {
		leaves, trunk := TreeModels(pos)
		s.prog.SetMat4("model", leaves)
		s.tree.DrawRange(s.dev, leavesIndexCount, trunkIndexCount)
		s.prog.SetMat4("model", trunk)
		s.tree.DrawRange(s.dev, trunkIndexCount, 0)
	}

	s.prog.SetMat4("model", mgl32.Ident4())
	s.clouds.Draw(s.dev)
}

func (s *Island) Close() {
	for _, m := range s.meshes() {
		m.Destroy()
	}
}
