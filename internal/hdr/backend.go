// Package hdr implements the HDR + bloom post-processing pipeline: scene
// capture into a floating-point target with a bright-pass attachment,
// ping-pong separable Gaussian blur, and an exposure tone-mapping composite.
//
// GPU work goes through a Backend so the pass ordering and buffer parity can
// be exercised without a GL context (see Software).
package hdr

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrFramebufferIncomplete is returned when a render target cannot be
	// completed at creation time.
	ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

	// ErrStage is returned when a pipeline stage is entered out of order.
	ErrStage = errors.New("pipeline stage out of order")
)

// TextureID identifies a backend color texture.
type TextureID uint32

// SceneTarget is the HDR framebuffer: scene color and bright-pass color
// attachments plus a depth buffer.
type SceneTarget struct {
	FBO    uint32
	Color  TextureID // attachment 0, lit scene
	Bright TextureID // attachment 1, bright-pass
	Depth  uint32    // depth renderbuffer
	Width  int
	Height int
}

// BlurTarget is one ping-pong framebuffer with a single color texture.
type BlurTarget struct {
	FBO   uint32
	Color TextureID
}

// Quad is the full-screen triangle strip used by the blur and composite passes.
type Quad struct {
	VAO uint32
	VBO uint32
}

// QuadVertices is the interleaved position (xyz) + uv layout of the
// full-screen quad, drawn as a 4-vertex triangle strip.
var QuadVertices = [20]float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

// GaussianWeights are the center-out taps of the 9-tap separable blur.
var GaussianWeights = [5]float32{0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216}

// Backend performs the pass-level GPU work of the pipeline. Every call is
// issued from the thread that owns the graphics context.
type Backend interface {
	CreateSceneTarget(width, height int) (SceneTarget, error)
	CreateBlurTarget(width, height int) (BlurTarget, error)
	CreateQuad() (Quad, error)

	// BindScene makes t the render target and clears color and depth.
	BindScene(t SceneTarget, clear mgl32.Vec3)
	// BlurPass blurs src along one axis into dst.
	BlurPass(dst BlurTarget, src TextureID, horizontal bool, q Quad)
	// Composite tone-maps scene (+ bloom) into the default framebuffer.
	Composite(scene, bloom TextureID, s Settings, q Quad)

	DestroySceneTarget(t SceneTarget)
	DestroyBlurTarget(t BlurTarget)
	DestroyQuad(q Quad)
}
