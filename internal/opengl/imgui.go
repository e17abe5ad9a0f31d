package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"

	"island-fx/gpu"
)

const imguiVertexShader = `#version 410 core
uniform mat4 projection;
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;
out vec2 fragUV;
out vec4 fragColor;
void main() {
    fragUV = aUV;
    fragColor = aColor;
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
}`

const imguiFragmentShader = `#version 410 core
uniform sampler2D fontAtlas;
in vec2 fragUV;
in vec4 fragColor;
out vec4 outColor;
void main() {
    outColor = vec4(fragColor.rgb, fragColor.a * texture(fontAtlas, fragUV).r);
}`

// ImguiRenderer draws imgui draw data on the currently bound framebuffer.
type ImguiRenderer struct {
	program *gpu.Program
	font    uint32
	vao     uint32
	vbo     uint32
	ebo     uint32
}

// NewImguiRenderer builds the UI program and uploads the font atlas of io.
func NewImguiRenderer(dev *Device, io imgui.IO) (*ImguiRenderer, error) {
	prog, err := gpu.Build(dev, imguiVertexShader, imguiFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to build imgui program: %w", err)
	}
	r := &ImguiRenderer{program: prog}
	prog.Use()
	prog.SetInt("fontAtlas", 0)

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	image := io.Fonts().TextureDataAlpha8()
	gl.GenTextures(1, &r.font)
	gl.BindTexture(gl.TEXTURE_2D, r.font)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(image.Width), int32(image.Height),
		0, gl.RED, gl.UNSIGNED_BYTE, image.Pixels)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	io.Fonts().SetTextureID(imgui.TextureID(r.font))

	gpu.Logger().Info("imgui renderer ready", "atlas", fmt.Sprintf("%dx%d", image.Width, image.Height))
	return r, nil
}

// Render draws drawData. Blend, scissor, depth and cull state are restored
// afterwards so the next frame's scene pass sees the state it expects.
func (r *ImguiRenderer) Render(displaySize, framebufferSize [2]float32, drawData imgui.DrawData) {
	fbWidth, fbHeight := framebufferSize[0], framebufferSize[1]
	if fbWidth <= 0 || fbHeight <= 0 || !drawData.Valid() {
		return
	}
	drawData.ScaleClipRects(imgui.Vec2{
		X: fbWidth / displaySize[0],
		Y: fbHeight / displaySize[1],
	})

	lastBlend := gl.IsEnabled(gl.BLEND)
	lastCull := gl.IsEnabled(gl.CULL_FACE)
	lastDepth := gl.IsEnabled(gl.DEPTH_TEST)
	lastScissor := gl.IsEnabled(gl.SCISSOR_TEST)

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)

	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	r.program.Use()
	r.program.SetMat4("projection", mgl32.Ortho(0, displaySize[0], displaySize[1], 0, -1, 1))
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	gl.EnableVertexAttribArray(0)
	gl.EnableVertexAttribArray(1)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(posOffset))
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(uvOffset))
	gl.VertexAttribPointer(2, 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), gl.PtrOffset(colOffset))

	indexSize := imgui.IndexBufferLayout()
	indexType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		indexType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertices, vertexBytes := list.VertexBuffer()
		gl.BufferData(gl.ARRAY_BUFFER, vertexBytes, vertices, gl.STREAM_DRAW)
		indices, indexBytes := list.IndexBuffer()
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBytes, indices, gl.STREAM_DRAW)

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				clip := cmd.ClipRect()
				gl.Scissor(int32(clip.X), int32(fbHeight)-int32(clip.W),
					int32(clip.Z-clip.X), int32(clip.W-clip.Y))
				gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
				gl.DrawElements(gl.TRIANGLES, int32(cmd.ElementCount()), indexType, gl.PtrOffset(offset))
			}
			offset += cmd.ElementCount() * indexSize
		}
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	setCap(gl.BLEND, lastBlend)
	setCap(gl.CULL_FACE, lastCull)
	setCap(gl.DEPTH_TEST, lastDepth)
	setCap(gl.SCISSOR_TEST, lastScissor)
}

// Dispose releases the UI program, buffers and font texture.
func (r *ImguiRenderer) Dispose() {
	r.program.Close()
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteTextures(1, &r.font)
}

func setCap(c uint32, enabled bool) {
	if enabled {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}
