package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"blood-moon/scene"
)

// RendererConfig selects where shader overrides are read from.
type RendererConfig struct {
	ShaderDir string // <name>.vs / <name>.fs overrides; empty = built-ins only
	HotReload bool   // watch ShaderDir and recompile on change
}

// View is the camera state every scene draw needs.
type View struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec3
}

// Renderer draws the scene pass: lit models, light sources, grass and sky.
// All methods must be called on the thread that owns the GL context.
type Renderer struct {
	shaders map[string]*Shader
	meshes  *MeshCache
	skybox  *Skybox
	post    *PostProcess
	watcher *ShaderWatcher

	Version string

	log zerolog.Logger
}

// shaderOrder fixes the compile order so failures are reported
// deterministically.
var shaderOrder = []string{
	ShaderModel, ShaderMoon, ShaderFirefly, ShaderGrass,
	ShaderSkybox, ShaderBlur, ShaderComposite,
}

// ── NewRenderer ───────────────────────────────────────────────────────────────

// NewRenderer loads the GL function pointers, compiles every program and
// creates the post-process backend. The context must already be current.
func NewRenderer(cfg RendererConfig, log zerolog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		shaders: make(map[string]*Shader, len(shaderOrder)),
		meshes:  NewMeshCache(),
		Version: gl.GoStr(gl.GetString(gl.VERSION)),
		log:     log,
	}
	log.Info().Str("version", r.Version).Msg("OpenGL initialized")

	for _, name := range shaderOrder {
		s, err := LoadShader(cfg.ShaderDir, name)
		if err != nil {
			r.deleteShaders()
			return nil, err
		}
		if s.Reloadable() {
			log.Debug().Str("shader", name).Str("dir", cfg.ShaderDir).Msg("using shader files")
		}
		r.shaders[name] = s
	}

	if cfg.HotReload && cfg.ShaderDir != "" {
		w, err := NewShaderWatcher(log)
		if err != nil {
			log.Warn().Err(err).Msg("shader hot reload disabled")
		} else {
			r.watcher = w
			for _, name := range shaderOrder {
				if err := w.Watch(r.shaders[name]); err != nil {
					log.Warn().Err(err).Str("shader", name).Msg("cannot watch shader")
				}
			}
		}
	}

	r.post = NewPostProcess(r.shaders[ShaderBlur], r.shaders[ShaderComposite])
	r.skybox = NewSkybox()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	return r, nil
}

// PostProcess is the hdr.Backend backed by this renderer's context.
func (r *Renderer) PostProcess() *PostProcess { return r.post }

func (r *Renderer) Shader(name string) *Shader { return r.shaders[name] }

// ReloadShaders recompiles shaders whose files changed since the last call.
func (r *Renderer) ReloadShaders() int {
	if r.watcher == nil {
		return 0
	}
	return r.watcher.Drain()
}

// ── Resources ─────────────────────────────────────────────────────────────────

// UploadModel uploads every texture and mesh of m. Textures that fail are
// logged and drawn untextured.
func (r *Renderer) UploadModel(m *scene.Model) {
	for _, tex := range m.Textures() {
		if err := UploadTexture(tex); err != nil {
			r.log.Warn().Err(err).Str("model", m.Name).Msg("texture upload failed")
		}
	}
	for _, p := range m.Parts {
		r.meshes.Upload(p.Mesh)
	}
}

// ReleaseModel frees the GPU copies of m's meshes and textures.
func (r *Renderer) ReleaseModel(m *scene.Model) {
	for _, p := range m.Parts {
		r.meshes.Release(p.Mesh)
	}
	for _, tex := range m.Textures() {
		DeleteTexture(tex)
	}
}

// ── Lit pass ──────────────────────────────────────────────────────────────────

func setPointLight(s *Shader, prefix string, l scene.PointLight) {
	s.SetVec3(prefix+".position", l.Position)
	s.SetVec3(prefix+".ambient", l.Ambient)
	s.SetVec3(prefix+".diffuse", l.Diffuse)
	s.SetVec3(prefix+".specular", l.Specular)
	s.SetFloat(prefix+".constant", l.Constant)
	s.SetFloat(prefix+".linear", l.Linear)
	s.SetFloat(prefix+".quadratic", l.Quadratic)
}

// BeginLit binds the model program and uploads the camera and the frame's
// lights. DrawModel calls that follow reuse them.
func (r *Renderer) BeginLit(v View, l scene.Lights, threshold float32) {
	s := r.shaders[ShaderModel]
	s.Use()
	s.SetMat4("view", v.View)
	s.SetMat4("projection", v.Projection)
	s.SetVec3("viewPos", v.Position)
	s.SetFloat("threshold", threshold)
	s.SetInt("material.diffuseMap", 0)
	s.SetInt("material.specularMap", 1)

	s.SetVec3("dirLight.direction", l.Moon.Direction)
	s.SetVec3("dirLight.ambient", l.Moon.Ambient)
	s.SetVec3("dirLight.diffuse", l.Moon.Diffuse)
	s.SetVec3("dirLight.specular", l.Moon.Specular)

	for i, p := range l.Lamps {
		setPointLight(s, fmt.Sprintf("lamps[%d]", i), p)
	}
	for i, p := range l.Fireflies {
		setPointLight(s, fmt.Sprintf("fireflies[%d]", i), p)
	}

	s.SetBool("torchOn", l.Torch.Enabled)
	setPointLight(s, "torch", l.Torch.PointLight)
	s.SetVec3("torch.direction", l.Torch.Direction)
	s.SetFloat("torch.cutOff", l.Torch.CutOff)
	s.SetFloat("torch.outerCutOff", l.Torch.OuterCutOff)
}

func (r *Renderer) applyMaterial(s *Shader, mat *scene.Material, shininess float32) {
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	s.SetVec3("material.diffuse", mat.Diffuse.Vec3())
	s.SetVec3("material.specular", mat.Specular.Vec3())
	s.SetFloat("material.shininess", shininess)

	if tex := mat.DiffuseTexture; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		s.SetBool("material.hasDiffuseMap", true)
	} else {
		s.SetBool("material.hasDiffuseMap", false)
	}
	if tex := mat.SpecularTexture; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		s.SetBool("material.hasSpecularMap", true)
	} else {
		s.SetBool("material.hasSpecularMap", false)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// DrawModel draws every part of m with the lit program bound by BeginLit.
// A non-positive shininess keeps each material's own exponent.
func (r *Renderer) DrawModel(m *scene.Model, world mgl32.Mat4, shininess float32, cull bool) {
	if !cull {
		gl.Disable(gl.CULL_FACE)
		defer gl.Enable(gl.CULL_FACE)
	}
	s := r.shaders[ShaderModel]
	for _, p := range m.Parts {
		s.SetMat4("model", world.Mul4(p.Transform))
		sh := shininess
		if sh <= 0 && p.Mesh.Material != nil {
			sh = p.Mesh.Material.Shininess
		}
		r.applyMaterial(s, p.Mesh.Material, sh)
		r.meshes.Draw(p.Mesh)
	}
}

// ── Unlit draws ───────────────────────────────────────────────────────────────

// DrawEmissive draws a light source model with a flat HDR color using the
// named program (ShaderMoon or ShaderFirefly).
func (r *Renderer) DrawEmissive(name string, m *scene.Model, world mgl32.Mat4, color mgl32.Vec3, v View, threshold float32) {
	s := r.shaders[name]
	s.Use()
	s.SetMat4("view", v.View)
	s.SetMat4("projection", v.Projection)
	s.SetVec3("lightColor", color)
	s.SetFloat("threshold", threshold)
	for _, p := range m.Parts {
		s.SetMat4("model", world.Mul4(p.Transform))
		r.meshes.Draw(p.Mesh)
	}
}

// DrawGrass draws an alpha-tested billboard with culling disabled.
func (r *Renderer) DrawGrass(mesh *scene.Mesh, world mgl32.Mat4, v View, threshold float32) {
	if mesh.Material == nil || mesh.Material.DiffuseTexture == nil || mesh.Material.DiffuseTexture.GLID == 0 {
		return
	}
	gl.Disable(gl.CULL_FACE)
	defer gl.Enable(gl.CULL_FACE)

	s := r.shaders[ShaderGrass]
	s.Use()
	s.SetMat4("view", v.View)
	s.SetMat4("projection", v.Projection)
	s.SetMat4("model", world)
	s.SetFloat("threshold", threshold)
	s.SetInt("texture1", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, mesh.Material.DiffuseTexture.GLID)
	r.meshes.Draw(mesh)
}

// DrawSky draws the cubemap; call it after every other scene draw.
func (r *Renderer) DrawSky(cm *scene.Cubemap, v View) {
	r.skybox.Draw(r.shaders[ShaderSkybox], cm, v.View, v.Projection)
}

// ── Resource management ───────────────────────────────────────────────────────

func (r *Renderer) deleteShaders() {
	for name, s := range r.shaders {
		s.Delete()
		delete(r.shaders, name)
	}
}

// Destroy frees every GPU resource the renderer owns. Render targets belong
// to the hdr.Pipeline and are destroyed there.
func (r *Renderer) Destroy() {
	if r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing shader watcher")
		}
		r.watcher = nil
	}
	r.meshes.ReleaseAll()
	if r.skybox != nil {
		r.skybox.Destroy()
		r.skybox = nil
	}
	r.deleteShaders()
}
