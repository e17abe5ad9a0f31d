// Package ui holds the debug panel: pass toggles, colour adjust and grain
// sliders, and an FPS readout. The frame driver only reads Controls.
package ui

import (
	"github.com/go-gl/mathgl/mgl32"

	"island-fx/postfx"
)

// Slider ranges.
const (
	ColorAdjustMin = -1
	ColorAdjustMax = 1
	GrainMin       = 0
	GrainMax       = 1
)

// Controls are the values the panel edits. Enabled follows the fixed pass
// order: motion blur, color correction, vignette, film grain.
type Controls struct {
	Enabled     [4]bool
	ColorAdjust [3]float32
	GrainAmount float32
}

// NewControls returns controls with every pass enabled from mask and the
// sliders clamped into range.
func NewControls(mask postfx.Mask, colorAdjust [3]float32, grain float32) *Controls {
	c := &Controls{ColorAdjust: colorAdjust, GrainAmount: grain}
	for i, e := range postfx.DefaultEffects() {
		c.Enabled[i] = mask.Has(e.Bit)
	}
	c.Clamp()
	return c
}

// Clamp forces the sliders into their ranges.
func (c *Controls) Clamp() {
	for i := range c.ColorAdjust {
		c.ColorAdjust[i] = mgl32.Clamp(c.ColorAdjust[i], ColorAdjustMin, ColorAdjustMax)
	}
	c.GrainAmount = mgl32.Clamp(c.GrainAmount, GrainMin, GrainMax)
}

// Mask converts the toggles into the chain's pass mask.
func (c *Controls) Mask() postfx.Mask {
	var m postfx.Mask
	for i, e := range postfx.DefaultEffects() {
		m = m.Set(e.Bit, c.Enabled[i])
	}
	return m
}

// Params returns the uniform values for this frame.
func (c *Controls) Params() postfx.Params {
	return postfx.Params{
		ColorAdjust: mgl32.Vec3(c.ColorAdjust),
		GrainAmount: c.GrainAmount,
	}
}
