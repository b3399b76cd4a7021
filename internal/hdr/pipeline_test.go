package hdr

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearSettings() Settings {
	s := DefaultSettings()
	s.Gamma = 1
	return s
}

func TestEndToEndPlainToneMap(t *testing.T) {
	p, sw := newTestPipeline(t, 8, 4)

	s := linearSettings()
	s.Exposure = 0.5
	s.Bloom = false

	err := p.Frame(s, mgl32.Vec3{}, func() {
		sw.DrawSolid(mgl32.Vec3{2, 0, 0}, s.Threshold)
	})
	require.NoError(t, err)

	want := float32(1 - math.Exp(-1))
	for _, px := range sw.Screen.Pix {
		assert.InDelta(t, want, px[0], 1e-5)
		assert.InDelta(t, 0, px[1], 1e-6)
		assert.InDelta(t, 0, px[2], 1e-6)
	}
	assert.InDelta(t, 0.632, sw.Screen.At(3, 2)[0], 1e-3)
	assert.Equal(t, StageIdle, p.Stage())
}

func TestZeroPassesUsesUnblurredBrightPass(t *testing.T) {
	p, sw := newTestPipeline(t, 4, 4)

	s := linearSettings()
	s.BlurPasses = 0

	err := p.Frame(s, mgl32.Vec3{}, func() {
		sw.Texture(p.SceneTarget().Bright).Fill(mgl32.Vec4{1, 1, 1, 1})
	})
	require.NoError(t, err)

	assert.Empty(t, sw.Blurs)
	want := float32(1 - math.Exp(-0.5))
	for _, px := range sw.Screen.Pix {
		assert.InDelta(t, want, px[0], 1e-5)
		assert.InDelta(t, want, px[1], 1e-5)
		assert.InDelta(t, want, px[2], 1e-5)
	}
}

func TestBlurDeterministic(t *testing.T) {
	run := func() *Image {
		p, sw := newTestPipeline(t, 16, 9)
		require.NoError(t, p.BeginScene(mgl32.Vec3{}))
		sw.DrawPixel(7, 4, mgl32.Vec3{8, 6, 2}, 1)
		sw.DrawPixel(1, 8, mgl32.Vec3{3, 3, 3}, 1)
		tex, err := p.Blur(DefaultBlurPasses)
		require.NoError(t, err)
		return sw.Texture(tex).Clone()
	}

	first, second := run(), run()
	assert.Equal(t, first.Pix, second.Pix)

	// the glow actually spread away from the source pixel
	assert.Greater(t, first.At(7, 6)[0], float32(0))
	assert.Greater(t, first.At(9, 4)[0], float32(0))
}

func TestCompositeIdempotent(t *testing.T) {
	p, sw := newTestPipeline(t, 8, 8)
	s := DefaultSettings()

	require.NoError(t, p.BeginScene(mgl32.Vec3{0.1, 0.05, 0.02}))
	sw.DrawPixel(4, 4, mgl32.Vec3{5, 1, 0.5}, s.Threshold)
	bloom, err := p.Blur(4)
	require.NoError(t, err)
	require.NoError(t, p.Composite(s))
	first := sw.Screen.Clone()

	sw.Composite(p.SceneTarget().Color, bloom, s, p.quad)
	assert.Equal(t, first.Pix, sw.Screen.Pix)
}

func TestBloomOffIgnoresBlurContents(t *testing.T) {
	render := func(garbage bool) *Image {
		p, sw := newTestPipeline(t, 6, 5)
		s := DefaultSettings()
		s.Bloom = false

		require.NoError(t, p.BeginScene(mgl32.Vec3{0.2, 0.1, 0.3}))
		sw.DrawPixel(2, 2, mgl32.Vec3{4, 4, 4}, s.Threshold)
		tex, err := p.Blur(s.BlurPasses)
		require.NoError(t, err)

		if garbage {
			rng := rand.New(rand.NewSource(42))
			img := sw.Texture(tex)
			for i := range img.Pix {
				img.Pix[i] = mgl32.Vec4{rng.Float32() * 100, rng.Float32() * 100, rng.Float32() * 100, 1}
			}
		}
		require.NoError(t, p.Composite(s))
		return sw.Screen.Clone()
	}

	assert.Equal(t, render(false).Pix, render(true).Pix)
}

func TestBloomOnAddsGlow(t *testing.T) {
	p, sw := newTestPipeline(t, 9, 9)
	s := linearSettings()

	require.NoError(t, p.Frame(s, mgl32.Vec3{}, func() {
		sw.DrawPixel(4, 4, mgl32.Vec3{10, 10, 10}, s.Threshold)
	}))
	assert.Greater(t, sw.Screen.At(5, 4)[0], float32(0), "neighbour picks up bloom")

	s.Bloom = false
	require.NoError(t, p.Frame(s, mgl32.Vec3{}, func() {
		sw.DrawPixel(4, 4, mgl32.Vec3{10, 10, 10}, s.Threshold)
	}))
	assert.Zero(t, sw.Screen.At(5, 4)[0], "no bloom, no glow")
}

func TestExposureMonotonic(t *testing.T) {
	inputs := []mgl32.Vec3{{0.05, 0.5, 1}, {2, 4, 8}, {0.001, 0.3, 0.7}}
	exposures := []float32{0.05, 0.1, 0.25, 0.5, 1, 2, 4}

	for _, gamma := range []float32{1, 2.2} {
		for _, in := range inputs {
			prev := mgl32.Vec3{-1, -1, -1}
			for _, e := range exposures {
				s := Settings{Exposure: e, Gamma: gamma}
				out := ToneMap(in, s)
				for c := 0; c < 3; c++ {
					assert.GreaterOrEqual(t, out[c], prev[c], "gamma=%v in=%v exposure=%v", gamma, in, e)
					assert.LessOrEqual(t, out[c], float32(1))
				}
				prev = out
			}
		}
	}

	// strictly increasing while far from saturation
	lo := ToneMap(mgl32.Vec3{1, 1, 1}, Settings{Exposure: 0.5, Gamma: 1})
	hi := ToneMap(mgl32.Vec3{1, 1, 1}, Settings{Exposure: 0.6, Gamma: 1})
	assert.Greater(t, hi[0], lo[0])
}

func TestStageOrder(t *testing.T) {
	p, _ := newTestPipeline(t, 2, 2)

	_, err := p.Blur(1)
	assert.ErrorIs(t, err, ErrStage)
	assert.ErrorIs(t, p.Composite(DefaultSettings()), ErrStage)

	require.NoError(t, p.BeginScene(mgl32.Vec3{}))
	assert.Equal(t, StageSceneCapture, p.Stage())
	assert.ErrorIs(t, p.BeginScene(mgl32.Vec3{}), ErrStage)
	assert.ErrorIs(t, p.Composite(DefaultSettings()), ErrStage)

	_, err = p.Blur(2)
	require.NoError(t, err)
	assert.Equal(t, StageBlur, p.Stage())
	_, err = p.Blur(2)
	assert.ErrorIs(t, err, ErrStage)

	require.NoError(t, p.Composite(DefaultSettings()))
	assert.Equal(t, StageIdle, p.Stage())
}

func TestQuadOwnedByPipeline(t *testing.T) {
	sw := NewSoftware()
	p, err := New(sw, 4, 4, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Frame(DefaultSettings(), mgl32.Vec3{}, nil))
	}
	assert.Equal(t, 1, sw.QuadsCreated)
	assert.Equal(t, 5, sw.Composites)
	assert.Equal(t, 4, sw.Live(), "scene target, two blur targets and the quad")

	p.Destroy()
	assert.Zero(t, sw.Live())
	assert.Equal(t, StageDestroyed, p.Stage())
	assert.ErrorIs(t, p.BeginScene(mgl32.Vec3{}), ErrStage)

	p.Destroy()
	assert.Zero(t, sw.Live())
}

func TestNewIncompleteTargets(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*Software)
		incomplete bool
	}{
		{"scene target", func(s *Software) { s.FailSceneTarget = true }, true},
		{"first blur target", func(s *Software) { s.FailBlurTarget = 1 }, true},
		{"second blur target", func(s *Software) { s.FailBlurTarget = 2 }, true},
		{"quad", func(s *Software) { s.FailQuad = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw := NewSoftware()
			tt.setup(sw)

			p, err := New(sw, 4, 4, zerolog.Nop())
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
			assert.Zero(t, sw.Live(), "partially created resources are released")
		})
	}
}

func TestNewQuadFailureMessage(t *testing.T) {
	sw := NewSoftware()
	sw.FailQuad = true

	_, err := New(sw, 4, 4, zerolog.Nop())
	assert.EqualError(t, err, "hdr quad: failed to create software quad: out of buffers")
}

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(NewSoftware(), 0, 600, zerolog.Nop())
	assert.Error(t, err)
}

func TestNegativePassesTreatedAsZero(t *testing.T) {
	p, sw := newTestPipeline(t, 2, 2)
	s := DefaultSettings()
	s.BlurPasses = -3

	require.NoError(t, p.Frame(s, mgl32.Vec3{}, nil))
	assert.Empty(t, sw.Blurs)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "scene-capture", StageSceneCapture.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}
