package hdr

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Stage is the per-frame position of the pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageSceneCapture
	StageBlur
	StageComposite
	StageDestroyed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSceneCapture:
		return "scene-capture"
	case StageBlur:
		return "blur"
	case StageComposite:
		return "composite"
	case StageDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Pipeline owns the HDR target, the ping-pong blur targets and the
// full-screen quad, and sequences one frame:
// Idle -> SceneCapture -> Blur -> Composite -> Idle.
type Pipeline struct {
	backend  Backend
	scene    SceneTarget
	pingpong PingPong
	quad     Quad

	stage Stage
	bloom TextureID // result of the last blur stage

	log zerolog.Logger
}

// New creates every render target and the quad at width x height. Any
// incomplete target aborts creation and releases what was already made.
func New(b Backend, width, height int, log zerolog.Logger) (*Pipeline, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("hdr pipeline size %dx%d: must be positive", width, height)
	}
	p := &Pipeline{backend: b, log: log}

	var err error
	if p.scene, err = b.CreateSceneTarget(width, height); err != nil {
		return nil, fmt.Errorf("hdr scene target: %w", err)
	}
	for i := range p.pingpong.targets {
		if p.pingpong.targets[i], err = b.CreateBlurTarget(width, height); err != nil {
			for j := 0; j < i; j++ {
				b.DestroyBlurTarget(p.pingpong.targets[j])
			}
			b.DestroySceneTarget(p.scene)
			return nil, fmt.Errorf("hdr ping-pong target %d: %w", i, err)
		}
	}
	if p.quad, err = b.CreateQuad(); err != nil {
		b.DestroyBlurTarget(p.pingpong.targets[0])
		b.DestroyBlurTarget(p.pingpong.targets[1])
		b.DestroySceneTarget(p.scene)
		return nil, fmt.Errorf("hdr quad: %w", err)
	}

	log.Info().Int("width", width).Int("height", height).Msg("HDR pipeline ready")
	return p, nil
}

// Stage reports where the pipeline is in the current frame.
func (p *Pipeline) Stage() Stage { return p.stage }

// SceneTarget returns the HDR framebuffer.
func (p *Pipeline) SceneTarget() SceneTarget { return p.scene }

// Size returns the render target resolution.
func (p *Pipeline) Size() (int, int) { return p.scene.Width, p.scene.Height }

func (p *Pipeline) expect(want Stage, op string) error {
	if p.stage != want {
		return fmt.Errorf("%w: %s in %s, want %s", ErrStage, op, p.stage, want)
	}
	return nil
}

// BeginScene binds the HDR target and clears it. Every draw until Blur
// writes into it.
func (p *Pipeline) BeginScene(clear mgl32.Vec3) error {
	if err := p.expect(StageIdle, "begin scene"); err != nil {
		return err
	}
	p.backend.BindScene(p.scene, clear)
	p.stage = StageSceneCapture
	return nil
}

// Blur runs passes alternating blur passes over the bright-pass texture and
// returns the texture holding the result. Zero passes return the unblurred
// bright-pass texture.
func (p *Pipeline) Blur(passes int) (TextureID, error) {
	if err := p.expect(StageSceneCapture, "blur"); err != nil {
		return 0, err
	}
	if passes < 0 {
		passes = 0
	}
	p.stage = StageBlur
	p.bloom = p.pingpong.run(p.backend, p.scene.Bright, passes, p.quad)
	return p.bloom, nil
}

// Composite tone-maps the scene color, plus the blur result when bloom is
// enabled, into the default framebuffer and returns the pipeline to idle.
func (p *Pipeline) Composite(s Settings) error {
	if err := p.expect(StageBlur, "composite"); err != nil {
		return err
	}
	p.stage = StageComposite
	p.backend.Composite(p.scene.Color, p.bloom, s, p.quad)
	p.stage = StageIdle
	return nil
}

// Frame runs one full frame: capture (draw issues the scene draws), blur and
// composite.
func (p *Pipeline) Frame(s Settings, clear mgl32.Vec3, draw func()) error {
	if err := p.BeginScene(clear); err != nil {
		return err
	}
	if draw != nil {
		draw()
	}
	if _, err := p.Blur(s.passes()); err != nil {
		return err
	}
	return p.Composite(s)
}

// Destroy releases the quad and every render target. Further stage calls
// return ErrStage.
func (p *Pipeline) Destroy() {
	if p.stage == StageDestroyed {
		return
	}
	p.backend.DestroyQuad(p.quad)
	p.backend.DestroyBlurTarget(p.pingpong.targets[0])
	p.backend.DestroyBlurTarget(p.pingpong.targets[1])
	p.backend.DestroySceneTarget(p.scene)
	p.quad = Quad{}
	p.stage = StageDestroyed
	p.log.Debug().Msg("HDR pipeline destroyed")
}

// IsIncomplete reports whether err comes from an incomplete render target.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrFramebufferIncomplete)
}
