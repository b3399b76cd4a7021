package hdr

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestGaussianWeightsNormalized(t *testing.T) {
	sum := GaussianWeights[0]
	for _, w := range GaussianWeights[1:] {
		sum += 2 * w
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestGaussianBlurKeepsConstantImage(t *testing.T) {
	in := NewImage(5, 3)
	in.Fill(mgl32.Vec4{0.5, 2, 4, 1})
	out := NewImage(5, 3)

	for _, horizontal := range []bool{true, false} {
		GaussianBlur(out, in, horizontal)
		for _, px := range out.Pix {
			assert.InDelta(t, 0.5, px[0], 1e-3)
			assert.InDelta(t, 2, px[1], 1e-3)
			assert.InDelta(t, 4, px[2], 1e-3)
		}
	}
}

func TestGaussianBlurSpreadsAlongOneAxis(t *testing.T) {
	in := NewImage(11, 11)
	in.Set(5, 5, mgl32.Vec4{1, 1, 1, 1})
	out := NewImage(11, 11)

	GaussianBlur(out, in, true)
	assert.InDelta(t, GaussianWeights[0], out.At(5, 5)[0], 1e-6)
	assert.InDelta(t, GaussianWeights[2], out.At(7, 5)[0], 1e-6)
	assert.InDelta(t, GaussianWeights[4], out.At(1, 5)[0], 1e-6)
	assert.Zero(t, out.At(0, 5)[0])
	assert.Zero(t, out.At(5, 6)[0], "horizontal pass leaves other rows alone")

	GaussianBlur(out, in, false)
	assert.InDelta(t, GaussianWeights[1], out.At(5, 6)[0], 1e-6)
	assert.Zero(t, out.At(6, 5)[0])
}

func TestToneMap(t *testing.T) {
	tests := []struct {
		name string
		in   mgl32.Vec3
		s    Settings
		want float32
	}{
		{"black stays black", mgl32.Vec3{}, Settings{Exposure: 1, Gamma: 2.2}, 0},
		{"linear", mgl32.Vec3{1, 1, 1}, Settings{Exposure: 1, Gamma: 1}, 0.63212},
		{"gamma zero means linear", mgl32.Vec3{1, 1, 1}, Settings{Exposure: 1}, 0.63212},
		{"gamma encoded", mgl32.Vec3{1, 1, 1}, Settings{Exposure: 1, Gamma: 2.2}, 0.81184},
		{"saturates below one", mgl32.Vec3{1000, 1000, 1000}, Settings{Exposure: 1, Gamma: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToneMap(tt.in, tt.s)
			assert.InDelta(t, tt.want, out[0], 1e-4)
			assert.LessOrEqual(t, out[0], float32(1))
		})
	}
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1, Luminance(mgl32.Vec3{1, 1, 1}), 1e-5)
	assert.Greater(t, Luminance(mgl32.Vec3{0, 1, 0}), Luminance(mgl32.Vec3{1, 0, 0}))
}

func TestImageClampToEdge(t *testing.T) {
	im := NewImage(2, 2)
	im.Set(1, 1, mgl32.Vec4{3, 0, 0, 1})
	im.Set(5, 5, mgl32.Vec4{9, 9, 9, 9})

	assert.Equal(t, float32(3), im.At(10, 10)[0])
	assert.Equal(t, float32(0), im.At(-4, 0)[0])
}

func TestSoftwareDestroyReleasesTextures(t *testing.T) {
	sw := NewSoftware()
	st, err := sw.CreateSceneTarget(2, 2)
	assert.NoError(t, err)
	assert.NotNil(t, sw.Texture(st.Color))

	sw.DestroySceneTarget(st)
	sw.DestroySceneTarget(st)
	assert.Nil(t, sw.Texture(st.Color))
	assert.Zero(t, sw.Live())
}
