package postfx

import (
	"math/rand/v2"

	"island-fx/gpu"
)

// NewNoiseTexture fills an RGB float texture with uniform values in [0, 1).
// The same seed always yields the same texture. Sampling is nearest with
// repeat wrapping so grain stays per-pixel.
func NewNoiseTexture(dev gpu.Device, width, height int, seed uint64) *gpu.Texture {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pixels := make([]float32, width*height*3)
	for i := range pixels {
		pixels[i] = rng.Float32()
	}
	gpu.Logger().Debug("noise texture generated", "width", width, "height", height, "seed", seed)
	return gpu.NewTexture(dev, gpu.TextureDesc{
		Width:  width,
		Height: height,
		Format: gpu.FormatRGB32F,
		Filter: gpu.FilterNearest,
		Wrap:   gpu.WrapRepeat,
	}, pixels)
}
