package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is the fly camera as a plain value. Input handlers are the
// only code that mutates it; the frame driver reads it once per frame.
type CameraState struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3

	Yaw   float32 // degrees, -90 looks down -Z
	Pitch float32 // degrees, clamped to ±MaxPitch

	FOV         float32 // vertical, degrees
	Near, Far   float32
	Sensitivity float32 // degrees per pixel of mouse travel

	looking    bool
	firstMouse bool
	lastX      float64
	lastY      float64
}

// MaxPitch keeps the view from flipping over the poles.
const MaxPitch = 89.0

// NewCameraState returns the camera at (0, 0, 3) looking down -Z.
func NewCameraState() CameraState {
	return CameraState{
		Position:    mgl32.Vec3{0, 0, 3},
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		FOV:         45,
		Near:        0.1,
		Far:         100,
		Sensitivity: 0.05,
		firstMouse:  true,
	}
}

// View returns lookAt(position, position+front, up).
func (c CameraState) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c CameraState) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Looking reports whether mouse look is engaged.
func (c CameraState) Looking() bool { return c.looking }

// HandleButton engages mouse look while the look button is held. The first
// cursor event after a press only records the position, so the view does
// not jump.
func (c *CameraState) HandleButton(pressed bool) {
	if pressed && !c.looking {
		c.firstMouse = true
	}
	c.looking = pressed
}

// HandleCursor turns the camera by the cursor travel since the last event.
// Cursor movement is ignored while mouse look is not engaged.
func (c *CameraState) HandleCursor(x, y float64) {
	if !c.looking {
		return
	}
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
	}

	dx := float32(x-c.lastX) * c.Sensitivity
	dy := float32(c.lastY-y) * c.Sensitivity // window y grows downwards
	c.lastX, c.lastY = x, y

	c.Yaw += dx
	c.Pitch = mgl32.Clamp(c.Pitch+dy, -MaxPitch, MaxPitch)
	c.Front = FrontFromAngles(c.Yaw, c.Pitch)
}

// FrontFromAngles converts yaw and pitch in degrees into a unit view direction.
func FrontFromAngles(yaw, pitch float32) mgl32.Vec3 {
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}
