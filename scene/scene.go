// Package scene holds the hand-authored geometry drawn into the offscreen
// render target, and the camera that views it.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// Scene draws one frame of geometry into the bound framebuffer.
type Scene interface {
	ClearColor() gpu.Color
	Draw(view, projection mgl32.Mat4)
	Close()
}

const (
	NameIsland = "island"
	NameShapes = "shapes"
)

// Names lists the scenes Load accepts.
var Names = []string{NameIsland, NameShapes}

// Load builds the named scene. A scene whose program failed to build is
// still returned together with the build error.
func Load(name string, dev gpu.Device, cache *gpu.ProgramCache) (Scene, error) {
	switch name {
	case NameIsland:
		return NewIsland(dev, cache)
	case NameShapes:
		return NewShapes(dev, cache)
	}
	return nil, fmt.Errorf("unknown scene %q (want one of %v)", name, Names)
}
