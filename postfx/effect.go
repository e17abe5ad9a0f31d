package postfx

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// Mask selects which passes run in a frame. Bit i enables the i-th effect
// of the default table.
type Mask uint8

const (
	MaskMotionBlur Mask = 1 << iota
	MaskColorCorrection
	MaskVignette
	MaskFilmGrain

	// MaskCopy selects CopyEffect, which is not part of the default table.
	MaskCopy

	MaskNone Mask = 0
	MaskAll       = MaskMotionBlur | MaskColorCorrection | MaskVignette | MaskFilmGrain
)

func (m Mask) Has(bit Mask) bool { return m&bit != 0 }

// Set returns m with bit switched on or off.
func (m Mask) Set(bit Mask, on bool) Mask {
	if on {
		return m | bit
	}
	return m &^ bit
}

func (m Mask) String() string {
	if m == MaskNone {
		return "none"
	}
	var names []string
	for _, e := range DefaultEffects() {
		if m.Has(e.Bit) {
			names = append(names, e.Name)
		}
	}
	return strings.Join(names, "+")
}

// Params are the user-controlled values read before each chain run.
type Params struct {
	ColorAdjust mgl32.Vec3 // per channel in [-1, 1]
	GrainAmount float32    // in [0, 1]
}

// Source names a texture the frame driver supplies to the chain.
type Source int

const (
	SourceCurrent Source = iota
	SourcePrevious
	SourceNoise
)

// Sources are the textures a chain run samples from.
type Sources struct {
	Current  *gpu.Texture // frame rendered this frame
	Previous *gpu.Texture // frame completed last frame
	Noise    *gpu.Texture
}

func (s Sources) texture(src Source) *gpu.Texture {
	switch src {
	case SourceCurrent:
		return s.Current
	case SourcePrevious:
		return s.Previous
	case SourceNoise:
		return s.Noise
	}
	return nil
}

// Input binds a sampler uniform to a texture unit and the texture it reads.
type Input struct {
	Sampler string
	Unit    int
	Source  Source
}

// Uniform is a scalar or vec3 parameter. Value returns one or three floats.
type Uniform struct {
	Name  string
	Value func(Params) []float32
}

// Effect describes one full-screen pass. Every effect is drawn with
// QuadVertexShader; only the fragment stage differs.
type Effect struct {
	Name     string
	Bit      Mask
	Fragment string
	Inputs   []Input
	Uniforms []Uniform
}

const (
	EffectMotionBlur      = "motion-blur"
	EffectColorCorrection = "color-correction"
	EffectVignette        = "vignette"
	EffectFilmGrain       = "film-grain"
	EffectCopy            = "copy"
)

// MotionBlurWeight is the share of the previous frame in the motion blur mix.
const MotionBlurWeight = 0.7

// DefaultEffects returns the four passes in their fixed order.
func DefaultEffects() []Effect {
	return []Effect{
		{
			Name:     EffectMotionBlur,
			Bit:      MaskMotionBlur,
			Fragment: motionBlurFragmentShader,
			Inputs: []Input{
				{Sampler: "screenTexture", Unit: 0, Source: SourceCurrent},
				{Sampler: "previousTexture", Unit: 1, Source: SourcePrevious},
			},
		},
		{
			Name:     EffectColorCorrection,
			Bit:      MaskColorCorrection,
			Fragment: colorCorrectionFragmentShader,
			Inputs: []Input{
				{Sampler: "screenTexture", Unit: 0, Source: SourceCurrent},
			},
			Uniforms: []Uniform{
				{Name: "colorAdjust", Value: func(p Params) []float32 { return p.ColorAdjust[:] }},
			},
		},
		{
			Name:     EffectVignette,
			Bit:      MaskVignette,
			Fragment: vignetteFragmentShader,
			Inputs: []Input{
				{Sampler: "screenTexture", Unit: 0, Source: SourceCurrent},
			},
		},
		{
			Name:     EffectFilmGrain,
			Bit:      MaskFilmGrain,
			Fragment: filmGrainFragmentShader,
			Inputs: []Input{
				{Sampler: "screenTexture", Unit: 0, Source: SourceCurrent},
				{Sampler: "noiseTexture", Unit: 1, Source: SourceNoise},
			},
			Uniforms: []Uniform{
				{Name: "grainAmount", Value: func(p Params) []float32 { return []float32{p.GrainAmount} }},
			},
		},
	}
}

// CopyEffect draws the current frame unchanged. The frame driver uses it
// when no effect is enabled so the scene still reaches the screen.
func CopyEffect() Effect {
	return Effect{
		Name:     EffectCopy,
		Bit:      MaskCopy,
		Fragment: copyFragmentShader,
		Inputs: []Input{
			{Sampler: "screenTexture", Unit: 0, Source: SourceCurrent},
		},
	}
}

// ── Per-pixel reference math ──────────────────────────────────────────────────
// The software kernels below evaluate these; the GLSL sources compute the same.

// MotionBlur returns mix(current, previous, MotionBlurWeight).
func MotionBlur(current, previous mgl32.Vec3) mgl32.Vec3 {
	return current.Mul(1 - MotionBlurWeight).Add(previous.Mul(MotionBlurWeight))
}

// ColorCorrect adds adjust to c without clamping.
func ColorCorrect(c, adjust mgl32.Vec3) mgl32.Vec3 { return c.Add(adjust) }

// VignetteFactor is smoothstep(0.8, 0.5, distance(uv, 0.5)).
func VignetteFactor(uv mgl32.Vec2) float32 {
	d := uv.Sub(mgl32.Vec2{0.5, 0.5}).Len()
	return smoothstep(0.8, 0.5, d)
}

// FilmGrain adds noise scaled by amount to c without clamping.
func FilmGrain(c, noise mgl32.Vec3, amount float32) mgl32.Vec3 {
	return c.Add(noise.Mul(amount))
}

func smoothstep(e0, e1, x float32) float32 {
	t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
