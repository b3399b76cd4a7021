package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAttenuationFactor(t *testing.T) {
	a := Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.03}
	assert.InDelta(t, 1, a.Factor(0), 1e-6)
	assert.InDelta(t, 1/(1+0.9+3), a.Factor(10), 1e-6)
	assert.Greater(t, a.Factor(1), a.Factor(2))
}

func TestBuildLightsMoon(t *testing.T) {
	f := Animate(0)
	cam := NewCamera(mgl32.Vec3{0, 0, 3})

	env := NewEnvironment()
	l := BuildLights(f, env, cam)
	assertVec3(t, f.MoonPosition.Mul(-1), l.Moon.Direction, 1e-6)
	assert.Equal(t, mgl32.Vec3{1.5, 1.0, 0.7}, l.Moon.Diffuse)
	assert.Equal(t, mgl32.Vec3{}, l.Moon.Specular)
	assert.False(t, l.Torch.Enabled)

	env.ToggleBloodMoon()
	l = BuildLights(f, env, cam)
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, l.Moon.Diffuse)
	assert.Equal(t, mgl32.Vec3{1.5, 0.3, 0}, env.MoonColor())
	assert.True(t, l.Torch.Enabled)
}

func TestBuildLightsLampsAndFireflies(t *testing.T) {
	f := Animate(1)
	l := BuildLights(f, NewEnvironment(), NewCamera(mgl32.Vec3{}))

	assert.Equal(t, mgl32.Vec3{1, 0, 0.3}, l.Lamps[0].Diffuse)
	assertVec3(t, mgl32.Vec3{3, 0, 0.9}, l.Lamps[0].Specular, 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 0.3, 0}, l.Lamps[1].Diffuse)
	assert.Equal(t, f.LampPositions[1], l.Lamps[1].Position)
	assert.Equal(t, Attenuation{1, 0.09, 0.03}, l.Lamps[1].Attenuation)

	for i, ff := range l.Fireflies {
		assert.Equal(t, f.FireflyOrigins[i], ff.Position)
		assert.Equal(t, f.FireflyColor.Mul(0.5), ff.Diffuse)
		assert.Equal(t, ff.Diffuse, ff.Specular)
		assert.Equal(t, Attenuation{1, 1, 1}, ff.Attenuation)
	}
}

func TestTorchFollowsCamera(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{1, 2, 3})
	cam.ProcessYawPitch(30, 10)
	env := NewEnvironment()
	env.SpotColor = mgl32.Vec3{1, 0.5, 0}
	env.SpotIntensity = 2

	torch := BuildLights(Animate(0), env, cam).Torch
	assert.Equal(t, cam.Position, torch.Position)
	assert.Equal(t, cam.Front, torch.Direction)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, torch.Diffuse)
	assert.InDelta(t, math.Cos(12*math.Pi/180), torch.CutOff, 1e-6)
	assert.InDelta(t, math.Cos(15*math.Pi/180), torch.OuterCutOff, 1e-6)
}

func TestSpotCone(t *testing.T) {
	s := SpotLight{
		PointLight:  PointLight{Position: mgl32.Vec3{}},
		Direction:   mgl32.Vec3{0, 0, -1},
		CutOff:      torchCutOff,
		OuterCutOff: torchOuterCutOff,
	}
	assert.Equal(t, float32(1), s.Cone(mgl32.Vec3{0, 0, -5}))

	deg := func(d float64) mgl32.Vec3 {
		r := d * math.Pi / 180
		return mgl32.Vec3{float32(math.Sin(r)), 0, float32(-math.Cos(r))}
	}
	assert.Equal(t, float32(1), s.Cone(deg(10)))
	mid := s.Cone(deg(13.5))
	assert.Greater(t, mid, float32(0))
	assert.Less(t, mid, float32(1))
	assert.Equal(t, float32(0), s.Cone(deg(20)))
	assert.Equal(t, float32(1), s.Cone(mgl32.Vec3{}), "fragment at the light")
}

func TestEnvironmentAdjustClamps(t *testing.T) {
	env := NewEnvironment()

	env.Adjust(SpotRed, 0.5)
	assert.Equal(t, float32(1), env.Value(SpotRed))
	env.Adjust(SpotGreen, -0.25)
	assert.Equal(t, float32(0.75), env.Value(SpotGreen))
	env.Adjust(SpotBlue, -5)
	assert.Equal(t, float32(0), env.Value(SpotBlue))

	env.Adjust(SpotIntensity, -1)
	assert.Equal(t, float32(1), env.Value(SpotIntensity))
	env.Adjust(SpotIntensity, 10)
	assert.Equal(t, float32(5), env.Value(SpotIntensity))

	assert.Equal(t, mgl32.Vec3{5, 3.75, 0}, env.TorchColor())
	assert.Equal(t, "intensity", SpotIntensity.String())
	assert.Equal(t, "channel(9)", SpotChannel(9).String())
}

func TestToggleBloodMoonFlipsTorchToo(t *testing.T) {
	env := NewEnvironment()
	env.ToggleBloodMoon()
	assert.True(t, env.BloodMoon)
	assert.True(t, env.Torch)
	env.ToggleBloodMoon()
	assert.False(t, env.BloodMoon)
	assert.False(t, env.Torch)
}
