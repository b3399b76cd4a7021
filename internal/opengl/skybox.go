package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"blood-moon/scene"
)

// Skybox draws a cubemap on an inside-out unit cube. The vertex shader uses
// the xyww trick so every fragment lands at NDC depth 1.0.
type Skybox struct {
	vao uint32
	vbo uint32
}

// ── Cube geometry ─────────────────────────────────────────────────────────────

// 36 positions (xyz) for a unit cube, wound to be seen from the inside.
var skyboxVerts = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// SkyView strips the translation from a view matrix so the sky stays
// centred on the camera.
func SkyView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

// NewSkybox uploads the cube geometry.
func NewSkybox() *Skybox {
	sb := &Skybox{}
	gl.GenVertexArrays(1, &sb.vao)
	gl.GenBuffers(1, &sb.vbo)
	gl.BindVertexArray(sb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyboxVerts)*4, gl.Ptr(skyboxVerts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 12, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return sb
}

// ── Draw ──────────────────────────────────────────────────────────────────────

// Draw renders the sky last in the scene pass. Depth LEQUAL lets depth 1.0
// fragments pass against the cleared buffer wherever nothing else was drawn.
func (sb *Skybox) Draw(shader *Shader, cm *scene.Cubemap, view, projection mgl32.Mat4) {
	if cm == nil || cm.GLID == 0 {
		return
	}
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	shader.Use()
	shader.SetInt("skybox", 0)
	shader.SetMat4("view", SkyView(view))
	shader.SetMat4("projection", projection)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.GLID)
	gl.BindVertexArray(sb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	gl.Enable(gl.CULL_FACE)
	gl.DepthFunc(gl.LESS)
}

// Destroy frees the cube geometry.
func (sb *Skybox) Destroy() {
	gl.DeleteVertexArrays(1, &sb.vao)
	gl.DeleteBuffers(1, &sb.vbo)
}
