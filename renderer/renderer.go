// Package renderer ties the OpenGL scene renderer, the HDR pipeline and the
// loaded assets into one frame call.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"blood-moon/internal/hdr"
	"blood-moon/internal/opengl"
	"blood-moon/scene"
)

// Options configure a RenderEngine.
type Options struct {
	AssetRoot string
	GL        opengl.RendererConfig

	// Width and Height size the HDR targets; they are not resized later.
	Width, Height int
	// FramebufferWidth and FramebufferHeight are the default framebuffer
	// size, which differs from Width/Height on high-DPI displays.
	FramebufferWidth, FramebufferHeight int
}

// FrameInput is everything that changes from one frame to the next.
type FrameInput struct {
	Time     float64
	Camera   *scene.Camera
	Aspect   float32
	Env      *scene.Environment
	Settings hdr.Settings
	Clear    mgl32.Vec3
}

// Stats describe the last rendered frame.
type Stats struct {
	Draws     int
	Culled    int // model draws skipped by the frustum test
	Parts     int
	Triangles int
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl       *opengl.Renderer
	pipeline *hdr.Pipeline
	assets   *Assets

	last Stats
	log  zerolog.Logger
}

// NewRenderEngine creates the GL renderer and the HDR pipeline, loads the
// assets and uploads them. The GL context must be current.
func NewRenderEngine(opts Options, log zerolog.Logger) (*RenderEngine, error) {
	glr, err := opengl.NewRenderer(opts.GL, log.With().Str("component", "opengl").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	pp := glr.PostProcess()
	if opts.FramebufferWidth > 0 && opts.FramebufferHeight > 0 {
		pp.SetScreenSize(opts.FramebufferWidth, opts.FramebufferHeight)
	}
	pipeline, err := hdr.New(pp, opts.Width, opts.Height, log.With().Str("component", "hdr").Logger())
	if err != nil {
		glr.Destroy()
		return nil, err
	}

	re := &RenderEngine{
		gl:       glr,
		pipeline: pipeline,
		assets:   LoadAssets(opts.AssetRoot, log.With().Str("component", "scene").Logger()),
		log:      log,
	}
	re.upload()
	log.Info().Msg("Render engine initialized (OpenGL)")
	return re, nil
}

func (re *RenderEngine) upload() {
	for _, m := range re.assets.Models {
		re.gl.UploadModel(m)
	}
	if g := re.assets.Grass; g != nil {
		re.gl.UploadModel(scene.NewModel("grass", g))
	}
	if sky := re.assets.Sky; sky != nil {
		if err := opengl.UploadCubemap(sky); err != nil {
			re.log.Warn().Err(err).Msg("skybox upload failed")
		}
	}
}

// Assets returns the loaded scene content.
func (re *RenderEngine) Assets() *Assets { return re.assets }

// GLVersion reports the driver's OpenGL version string.
func (re *RenderEngine) GLVersion() string { return re.gl.Version }

// Stage reports the pipeline stage; Idle between frames.
func (re *RenderEngine) Stage() hdr.Stage { return re.pipeline.Stage() }

// LastStats returns the counters of the previous Render.
func (re *RenderEngine) LastStats() Stats { return re.last }

// SetFramebufferSize updates the composite viewport after a window resize.
// The HDR targets keep their creation size.
func (re *RenderEngine) SetFramebufferSize(width, height int) {
	re.gl.PostProcess().SetScreenSize(width, height)
}

// ReloadShaders applies pending shader file changes. Call between frames.
func (re *RenderEngine) ReloadShaders() int { return re.gl.ReloadShaders() }

// Render draws one frame: the scene into the HDR target, the blur passes and
// the tone-mapped composite into the default framebuffer.
func (re *RenderEngine) Render(in FrameInput) error {
	f := scene.Animate(in.Time)
	lights := scene.BuildLights(f, in.Env, in.Camera)
	v := opengl.View{
		View:       in.Camera.ViewMatrix(),
		Projection: in.Camera.Projection(in.Aspect),
		Position:   in.Camera.Position,
	}
	items := BuildDrawList(re.assets, f, in.Env)
	threshold := in.Settings.Threshold
	frustum := scene.FrustumFromVP(v.Projection.Mul4(v.View))

	var st Stats
	err := re.pipeline.Frame(in.Settings, in.Clear, func() {
		re.gl.BeginLit(v, lights, threshold)
		for _, it := range items {
			if it.Model != nil && !it.Model.Visible(it.World, &frustum) {
				st.Culled++
				continue
			}
			switch it.Kind {
			case DrawLit:
				re.gl.DrawModel(it.Model, it.World, scene.LayoutShininess, it.Cull)
			case DrawMoon:
				re.gl.DrawEmissive(opengl.ShaderMoon, it.Model, it.World, it.Color, v, threshold)
			case DrawFirefly:
				re.gl.DrawEmissive(opengl.ShaderFirefly, it.Model, it.World, it.Color, v, threshold)
			case DrawGrass:
				re.gl.DrawGrass(it.Mesh, it.World, v, threshold)
			case DrawSky:
				re.gl.DrawSky(re.assets.Sky, v)
			}
			st.Draws++
			if it.Model != nil {
				parts, tris := it.Model.Stats()
				st.Parts += parts
				st.Triangles += tris
			}
		}
	})
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	re.last = st
	return nil
}

// Destroy releases the pipeline targets, the uploaded assets and the GL
// programs, in that order.
func (re *RenderEngine) Destroy() {
	re.pipeline.Destroy()
	for _, m := range re.assets.Models {
		re.gl.ReleaseModel(m)
	}
	if g := re.assets.Grass; g != nil {
		re.gl.ReleaseModel(scene.NewModel("grass", g))
	}
	opengl.DeleteCubemap(re.assets.Sky)
	re.gl.Destroy()
}
