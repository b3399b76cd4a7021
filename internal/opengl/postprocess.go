package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"blood-moon/internal/hdr"
)

// PostProcess is the OpenGL implementation of hdr.Backend. It owns the blur
// and composite programs; the render targets it creates belong to the
// hdr.Pipeline that requested them.
type PostProcess struct {
	blur      *Shader
	composite *Shader

	// target size of the blur/scene passes and of the default framebuffer
	width, height    int32
	screenW, screenH int32
}

var _ hdr.Backend = (*PostProcess)(nil)

func NewPostProcess(blur, composite *Shader) *PostProcess {
	return &PostProcess{blur: blur, composite: composite}
}

// uniformSetter is the part of *Shader the pass uniforms go through.
type uniformSetter interface {
	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetFloat(name string, v float32)
}

// blurUniforms sets everything the blur program reads. Sampler units are set
// on every pass because a hot reload links a fresh program.
func blurUniforms(u uniformSetter, horizontal bool) {
	u.SetInt("image", 0)
	u.SetBool("horizontal", horizontal)
}

// compositeUniforms sets everything the composite program reads: scene on
// unit 0, the blur result on unit 1, and the tone-mapping settings.
func compositeUniforms(u uniformSetter, s hdr.Settings) {
	u.SetInt("scene", 0)
	u.SetInt("bloomBlur", 1)
	u.SetBool("bloom", s.Bloom)
	u.SetFloat("bloomStrength", s.BloomStrength)
	u.SetFloat("exposure", s.Exposure)
	u.SetFloat("gamma", s.Gamma)
}

// SetScreenSize sets the default framebuffer viewport used by Composite. It
// may differ from the window size on high-DPI displays.
func (pp *PostProcess) SetScreenSize(width, height int) {
	pp.screenW, pp.screenH = int32(width), int32(height)
}

// ── Targets ───────────────────────────────────────────────────────────────────

func newColorTexture(width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, width, height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	// clamp so the blur kernel does not sample the opposite edge
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

func framebufferStatus(what string) error {
	if s := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: %s status 0x%X", hdr.ErrFramebufferIncomplete, what, s)
	}
	return nil
}

// CreateSceneTarget allocates the MRT HDR framebuffer: two RGBA16F color
// attachments (scene, bright-pass) and a 24-bit depth renderbuffer.
func (pp *PostProcess) CreateSceneTarget(width, height int) (hdr.SceneTarget, error) {
	w, h := int32(width), int32(height)
	t := hdr.SceneTarget{Width: width, Height: height}

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	color := newColorTexture(w, h)
	bright := newColorTexture(w, h)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, bright, 0)
	t.Color, t.Bright = hdr.TextureID(color), hdr.TextureID(bright)

	gl.GenRenderbuffers(1, &t.Depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.Depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, w, h)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.Depth)

	attachments := []uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}
	gl.DrawBuffers(int32(len(attachments)), &attachments[0])

	err := framebufferStatus("scene target")
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if err != nil {
		pp.DestroySceneTarget(t)
		return hdr.SceneTarget{}, err
	}
	pp.width, pp.height = w, h
	if pp.screenW == 0 {
		pp.screenW, pp.screenH = w, h
	}
	return t, nil
}

// CreateBlurTarget allocates one ping-pong framebuffer.
func (pp *PostProcess) CreateBlurTarget(width, height int) (hdr.BlurTarget, error) {
	var t hdr.BlurTarget
	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	color := newColorTexture(int32(width), int32(height))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color, 0)
	t.Color = hdr.TextureID(color)

	err := framebufferStatus("blur target")
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if err != nil {
		pp.DestroyBlurTarget(t)
		return hdr.BlurTarget{}, err
	}
	return t, nil
}

// CreateQuad uploads the full-screen triangle strip.
func (pp *PostProcess) CreateQuad() (hdr.Quad, error) {
	var q hdr.Quad
	gl.GenVertexArrays(1, &q.VAO)
	gl.GenBuffers(1, &q.VBO)
	if q.VAO == 0 || q.VBO == 0 {
		pp.DestroyQuad(q)
		return hdr.Quad{}, fmt.Errorf("failed to create quad: could not allocate vertex objects")
	}
	gl.BindVertexArray(q.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(hdr.QuadVertices)*4, gl.Ptr(&hdr.QuadVertices[0]), gl.STATIC_DRAW)

	const stride = 5 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.BindVertexArray(0)
	return q, nil
}

// ── Passes ────────────────────────────────────────────────────────────────────

func (pp *PostProcess) BindScene(t hdr.SceneTarget, clear mgl32.Vec3) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.Viewport(0, 0, int32(t.Width), int32(t.Height))
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.ClearColor(clear[0], clear[1], clear[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func drawQuad(q hdr.Quad) {
	gl.BindVertexArray(q.VAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (pp *PostProcess) BlurPass(dst hdr.BlurTarget, src hdr.TextureID, horizontal bool, q hdr.Quad) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, dst.FBO)
	gl.Viewport(0, 0, pp.width, pp.height)
	gl.Disable(gl.DEPTH_TEST)

	pp.blur.Use()
	blurUniforms(pp.blur, horizontal)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(src))
	drawQuad(q)
}

func (pp *PostProcess) Composite(scene, bloom hdr.TextureID, s hdr.Settings, q hdr.Quad) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, pp.screenW, pp.screenH)
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	pp.composite.Use()
	compositeUniforms(pp.composite, s)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(scene))
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, uint32(bloom))
	drawQuad(q)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Enable(gl.DEPTH_TEST)
}

// ── Cleanup ───────────────────────────────────────────────────────────────────

func (pp *PostProcess) DestroySceneTarget(t hdr.SceneTarget) {
	textures := []uint32{uint32(t.Color), uint32(t.Bright)}
	gl.DeleteTextures(int32(len(textures)), &textures[0])
	if t.Depth != 0 {
		gl.DeleteRenderbuffers(1, &t.Depth)
	}
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
}

func (pp *PostProcess) DestroyBlurTarget(t hdr.BlurTarget) {
	tex := uint32(t.Color)
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
}

func (pp *PostProcess) DestroyQuad(q hdr.Quad) {
	if q.VBO != 0 {
		gl.DeleteBuffers(1, &q.VBO)
	}
	if q.VAO != 0 {
		gl.DeleteVertexArrays(1, &q.VAO)
	}
}

