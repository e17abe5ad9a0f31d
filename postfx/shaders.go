package postfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// QuadVertexShader passes the quad through untransformed.
const QuadVertexShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    TexCoord = aTexCoord;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
`

const motionBlurFragmentShader = `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;
uniform sampler2D previousTexture;

const float blendWeight = 0.7;

void main() {
    vec4 current  = texture(screenTexture, TexCoord);
    vec4 previous = texture(previousTexture, TexCoord);
    FragColor = vec4(mix(current.rgb, previous.rgb, blendWeight), 1.0);
}
`

const colorCorrectionFragmentShader = `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;
uniform vec3 colorAdjust;

void main() {
    vec3 color = texture(screenTexture, TexCoord).rgb;
    FragColor = vec4(color + colorAdjust, 1.0);
}
`

const vignetteFragmentShader = `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;

void main() {
    vec3 color = texture(screenTexture, TexCoord).rgb;
    float dist = distance(TexCoord, vec2(0.5));
    float vignette = smoothstep(0.8, 0.5, dist);
    FragColor = vec4(color * vignette, 1.0);
}
`

const filmGrainFragmentShader = `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;
uniform sampler2D noiseTexture;
uniform float grainAmount;

void main() {
    vec3 color = texture(screenTexture, TexCoord).rgb;
    vec3 noise = texture(noiseTexture, TexCoord).rgb;
    FragColor = vec4(color + noise * grainAmount, 1.0);
}
`

const copyFragmentShader = `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;

void main() {
    FragColor = vec4(texture(screenTexture, TexCoord).rgb, 1.0);
}
`

// ── Software kernels ──────────────────────────────────────────────────────────

func init() {
	gpu.RegisterVertexKernel(QuadVertexShader, func(_ gpu.Uniforms, attribs [][]float32) (mgl32.Vec4, []float32) {
		pos, uv := attribs[0], attribs[1]
		return mgl32.Vec4{pos[0], pos[1], 0, 1}, []float32{uv[0], uv[1]}
	})

	gpu.RegisterFragmentKernel(copyFragmentShader, func(u gpu.Uniforms, v []float32) mgl32.Vec4 {
		return u.Sampler("screenTexture").Sample(mgl32.Vec2{v[0], v[1]}).Vec3().Vec4(1)
	})

	gpu.RegisterFragmentKernel(motionBlurFragmentShader, func(u gpu.Uniforms, v []float32) mgl32.Vec4 {
		uv := mgl32.Vec2{v[0], v[1]}
		cur := u.Sampler("screenTexture").Sample(uv).Vec3()
		prev := u.Sampler("previousTexture").Sample(uv).Vec3()
		return MotionBlur(cur, prev).Vec4(1)
	})

	gpu.RegisterFragmentKernel(colorCorrectionFragmentShader, func(u gpu.Uniforms, v []float32) mgl32.Vec4 {
		c := u.Sampler("screenTexture").Sample(mgl32.Vec2{v[0], v[1]}).Vec3()
		return ColorCorrect(c, u.Vec3("colorAdjust")).Vec4(1)
	})

	gpu.RegisterFragmentKernel(vignetteFragmentShader, func(u gpu.Uniforms, v []float32) mgl32.Vec4 {
		uv := mgl32.Vec2{v[0], v[1]}
		c := u.Sampler("screenTexture").Sample(uv).Vec3()
		return c.Mul(VignetteFactor(uv)).Vec4(1)
	})

	gpu.RegisterFragmentKernel(filmGrainFragmentShader, func(u gpu.Uniforms, v []float32) mgl32.Vec4 {
		uv := mgl32.Vec2{v[0], v[1]}
		c := u.Sampler("screenTexture").Sample(uv).Vec3()
		n := u.Sampler("noiseTexture").Sample(uv).Vec3()
		return FilmGrain(c, n, u.Float("grainAmount")).Vec4(1)
	})
}
