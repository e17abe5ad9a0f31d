package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

// worldVertexShader transforms coloured geometry by model, view and projection.
const worldVertexShader = `#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 color;

out vec3 fragColor;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    fragColor = color;
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`

// flatVertexShader passes 2D clip-space positions through.
const flatVertexShader = `#version 410 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec3 color;

out vec3 fragColor;

void main() {
    fragColor = color;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const colorFragmentShader = `#version 410 core
in vec3 fragColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(fragColor, 1.0);
}
`

func init() {
	gpu.RegisterVertexKernel(worldVertexShader, func(u gpu.Uniforms, a [][]float32) (mgl32.Vec4, []float32) {
		mvp := u.Mat4("projection").Mul4(u.Mat4("view")).Mul4(u.Mat4("model"))
		pos := mvp.Mul4x1(mgl32.Vec4{a[0][0], a[0][1], a[0][2], 1})
		return pos, a[1]
	})
	gpu.RegisterVertexKernel(flatVertexShader, func(_ gpu.Uniforms, a [][]float32) (mgl32.Vec4, []float32) {
		return mgl32.Vec4{a[0][0], a[0][1], 0, 1}, a[1]
	})
	gpu.RegisterFragmentKernel(colorFragmentShader, func(_ gpu.Uniforms, v []float32) mgl32.Vec4 {
		return mgl32.Vec4{v[0], v[1], v[2], 1}
	})
}
