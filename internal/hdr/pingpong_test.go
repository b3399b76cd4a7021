package hdr

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, w, h int) (*Pipeline, *Software) {
	t.Helper()
	sw := NewSoftware()
	p, err := New(sw, w, h, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(p.Destroy)
	return p, sw
}

func TestPingPongAccessors(t *testing.T) {
	pp := PingPong{targets: [2]BlurTarget{{Color: 7}, {Color: 9}}}

	assert.Equal(t, TextureID(7), pp.current().Color)
	assert.Equal(t, TextureID(9), pp.other().Color)

	pp.swap()
	assert.Equal(t, 1, pp.Index())
	assert.Equal(t, TextureID(9), pp.current().Color)
	assert.Equal(t, TextureID(7), pp.other().Color)

	pp.reset()
	assert.Equal(t, 0, pp.Index())
}

func TestBlurParitySweep(t *testing.T) {
	for n := 0; n <= 20; n++ {
		p, sw := newTestPipeline(t, 4, 4)
		bright := p.SceneTarget().Bright

		require.NoError(t, p.BeginScene(mgl32.Vec3{}))
		got, err := p.Blur(n)
		require.NoError(t, err)

		assert.Equal(t, n%2, p.pingpong.Index(), "n=%d", n)
		if n == 0 {
			assert.Equal(t, bright, got, "n=0 must return the bright-pass texture")
		} else {
			assert.Equal(t, p.pingpong.targets[n%2].Color, got, "n=%d", n)
		}

		require.Len(t, sw.Blurs, n)
		for i, call := range sw.Blurs {
			assert.Equal(t, i%2 == 0, call.Horizontal, "n=%d pass %d direction", n, i)
			assert.NotEqual(t, call.Src, call.Dst, "n=%d pass %d reads its own target", n, i)
			if i == 0 {
				assert.Equal(t, bright, call.Src, "n=%d first pass source", n)
			} else {
				assert.Equal(t, sw.Blurs[i-1].Dst, call.Src, "n=%d pass %d source", n, i)
			}
		}
		if n > 0 {
			assert.Equal(t, got, sw.Blurs[n-1].Dst, "n=%d composite must read the last written buffer", n)
		}
	}
}

func TestBlurParityKnownCounts(t *testing.T) {
	tests := []struct {
		passes int
		want   int
	}{
		{1, 1},
		{2, 0},
		{10, 0},
		{11, 1},
	}
	for _, tt := range tests {
		p, _ := newTestPipeline(t, 2, 2)
		require.NoError(t, p.BeginScene(mgl32.Vec3{}))
		got, err := p.Blur(tt.passes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.pingpong.Index(), "passes=%d", tt.passes)
		assert.Equal(t, p.pingpong.targets[tt.want].Color, got, "passes=%d", tt.passes)
	}
}
