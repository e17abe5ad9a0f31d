package postfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// Pass is one entry of the chain: an effect and the program built for it.
type Pass struct {
	Effect  Effect
	Program *gpu.Program
	warned  bool
}

// Chain runs the enabled passes in declared order. Each pass reads the same
// source textures and overdraws whatever framebuffer is bound; passes do
// not feed one another.
type Chain struct {
	dev    gpu.Device
	quad   *FullScreenQuad
	passes []*Pass
}

// NewChain builds a program for every effect through cache. A pass whose
// program fails to build stays in the chain and is skipped at run time; the
// returned error joins every build failure and is informational only.
func NewChain(dev gpu.Device, cache *gpu.ProgramCache, quad *FullScreenQuad, effects []Effect) (*Chain, error) {
	c := &Chain{dev: dev, quad: quad}
	var errs []error
	for _, e := range effects {
		prog, err := cache.Load(e.Name, QuadVertexShader, e.Fragment)
		if err != nil {
			errs = append(errs, err)
		} else {
			// Sampler units never change, so set them once.
			prog.Use()
			for _, in := range e.Inputs {
				prog.SetInt(in.Sampler, int32(in.Unit))
			}
		}
		c.passes = append(c.passes, &Pass{Effect: e, Program: prog})
	}
	return c, errors.Join(errs...)
}

// Passes returns the passes in run order.
func (c *Chain) Passes() []*Pass { return c.passes }

// Run draws every pass enabled in mask and returns how many were drawn.
// Depth testing is off while passes draw and is restored to its entry
// state before Run returns.
func (c *Chain) Run(mask Mask, params Params, src Sources) int {
	depth := c.dev.DepthTest()
	c.dev.SetDepthTest(false)
	defer c.dev.SetDepthTest(depth)

	drawn := 0
	for _, pass := range c.passes {
		if !mask.Has(pass.Effect.Bit) {
			continue
		}
		if !pass.Program.Valid() {
			if !pass.warned {
				gpu.Logger().Warn("skipping post-process pass with invalid program", "pass", pass.Effect.Name)
				pass.warned = true
			}
			continue
		}

		pass.Program.Use()
		for _, in := range pass.Effect.Inputs {
			if tex := src.texture(in.Source); tex != nil {
				tex.Bind(in.Unit)
			} else {
				c.dev.BindTexture(in.Unit, 0)
			}
		}
		for _, u := range pass.Effect.Uniforms {
			switch v := u.Value(params); len(v) {
			case 1:
				pass.Program.SetFloat(u.Name, v[0])
			case 3:
				pass.Program.SetVec3(u.Name, mgl32.Vec3{v[0], v[1], v[2]})
			}
		}
		c.quad.Draw()
		drawn++
	}
	gpu.Logger().Debug("post-process chain ran", "mask", mask, "passes", drawn)
	return drawn
}
