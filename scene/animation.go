package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Moon orbit.
const (
	MoonOrbitRadius = 30.0
	MoonOrbitSpeed  = 0.4
	MoonHeight      = 15.0
	MoonScale       = 1.5
)

// Lamp swing. The lamp lights hang lampDrop below the pivot and follow it.
const (
	lampSwingDegrees = 100.0
	lampDrop         = 2.2
	lamp1PivotZ      = -11.0
	lamp2OffsetX     = 0.4
	lamp2OffsetY     = -5.0
	lamp2OffsetZ     = 28.0
)

// Frame holds every time-dependent scene value for one frame.
type Frame struct {
	Time float64

	MoonPosition mgl32.Vec3

	// LampAngle is the swing of both lamps about X, in radians.
	LampAngle      float32
	LampPositions  [2]mgl32.Vec3
	FireflyColor   mgl32.Vec3
	FireflyOrigins [3]mgl32.Vec3 // torii, tree, flowers
}

// Animate evaluates the scene at t seconds.
func Animate(t float64) Frame {
	f := Frame{Time: t}

	f.MoonPosition = mgl32.Vec3{
		float32(math.Cos(t*MoonOrbitSpeed) * MoonOrbitRadius),
		MoonHeight,
		float32(math.Sin(t*MoonOrbitSpeed) * MoonOrbitRadius),
	}

	angle := float64(mgl32.DegToRad(float32(math.Cos(t)*lampSwingDegrees))) / 4
	f.LampAngle = float32(angle)
	lamp1 := mgl32.Vec3{
		0,
		float32(lampDrop + lampDrop*math.Cos(angle)),
		float32(lamp1PivotZ - lampDrop*math.Tan(angle)),
	}
	f.LampPositions = [2]mgl32.Vec3{
		lamp1,
		{lamp2OffsetX, lamp1[1] + lamp2OffsetY, lamp1[2] + lamp2OffsetZ},
	}

	f.FireflyColor = mgl32.Vec3{2, float32(math.Cos(t) + 1.5), 0}
	f.FireflyOrigins = [3]mgl32.Vec3{
		{float32(math.Cos(t)*0.6 + 1.7), 0.7, float32(-math.Cos(t) * 0.6)},
		{float32(1 + math.Cos(t*2)*0.4), 10.5, 7},
		{float32(math.Cos(t) + 6), 2, float32(-math.Cos(t * 4))},
	}
	return f
}

// MoonModel returns the moon's model matrix.
func (f Frame) MoonModel() mgl32.Mat4 {
	p := f.MoonPosition
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(mgl32.Scale3D(MoonScale, MoonScale, MoonScale))
}

// FireflyModels returns a unit-scale model matrix per firefly.
func (f Frame) FireflyModels() [3]mgl32.Mat4 {
	var out [3]mgl32.Mat4
	for i, p := range f.FireflyOrigins {
		out[i] = mgl32.Translate3D(p[0], p[1], p[2])
	}
	return out
}
