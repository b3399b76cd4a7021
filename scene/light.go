package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Attenuation is the constant/linear/quadratic falloff of a positional light.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// Factor returns 1 / (c + l*d + q*d*d).
func (a Attenuation) Factor(distance float32) float32 {
	return 1 / (a.Constant + a.Linear*distance + a.Quadratic*distance*distance)
}

var (
	lampAttenuation    = Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.03}
	fireflyAttenuation = Attenuation{Constant: 1, Linear: 1, Quadratic: 1}
)

type DirLight struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
}

type PointLight struct {
	Position mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Attenuation
}

// SpotLight is a point light restricted to a cone. CutOff and OuterCutOff
// are cosines of the inner and outer cone half-angles.
type SpotLight struct {
	PointLight
	Direction   mgl32.Vec3
	CutOff      float32
	OuterCutOff float32
	Enabled     bool
}

// Cone returns the soft-edged cone factor for a fragment at p: 1 inside the
// inner cone, 0 outside the outer one.
func (s SpotLight) Cone(p mgl32.Vec3) float32 {
	toFrag := p.Sub(s.Position)
	if toFrag.Len() == 0 {
		return 1
	}
	theta := toFrag.Normalize().Dot(s.Direction.Normalize())
	eps := s.CutOff - s.OuterCutOff
	return mgl32.Clamp((theta-s.OuterCutOff)/eps, 0, 1)
}

var (
	lamp1Color = mgl32.Vec3{1.0, 0.0, 0.3}
	lamp2Color = mgl32.Vec3{1.0, 0.3, 0.0}

	torchCutOff      = float32(math.Cos(float64(mgl32.DegToRad(12))))
	torchOuterCutOff = float32(math.Cos(float64(mgl32.DegToRad(15))))
)

const (
	lampSpecularBoost = 3.0
	fireflyLightScale = 0.5
)

// Lights is the full light set of one frame.
type Lights struct {
	Moon      DirLight
	Lamps     [2]PointLight
	Fireflies [3]PointLight
	Torch     SpotLight
}

// BuildLights derives the frame's lights from the animation state, the
// environment toggles and the camera (the torch is held by the viewer).
func BuildLights(f Frame, env *Environment, cam *Camera) Lights {
	var l Lights

	l.Moon = DirLight{
		Direction: f.MoonPosition.Mul(-1),
		Diffuse:   env.MoonLight(),
	}

	for i, c := range [2]mgl32.Vec3{lamp1Color, lamp2Color} {
		l.Lamps[i] = PointLight{
			Position:    f.LampPositions[i],
			Diffuse:     c,
			Specular:    c.Mul(lampSpecularBoost),
			Attenuation: lampAttenuation,
		}
	}

	ff := f.FireflyColor.Mul(fireflyLightScale)
	for i, p := range f.FireflyOrigins {
		l.Fireflies[i] = PointLight{
			Position:    p,
			Diffuse:     ff,
			Specular:    ff,
			Attenuation: fireflyAttenuation,
		}
	}

	torch := env.TorchColor()
	l.Torch = SpotLight{
		PointLight: PointLight{
			Position:    cam.Position,
			Diffuse:     torch,
			Specular:    torch,
			Attenuation: lampAttenuation,
		},
		Direction:   cam.Front,
		CutOff:      torchCutOff,
		OuterCutOff: torchOuterCutOff,
		Enabled:     env.Torch,
	}
	return l
}
