package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAnimateAtZero(t *testing.T) {
	f := Animate(0)

	assertVec3(t, mgl32.Vec3{30, 15, 0}, f.MoonPosition, 1e-5)

	// cos(0)*100 degrees, quartered
	wantAngle := float64(mgl32.DegToRad(100)) / 4
	assert.InDelta(t, wantAngle, f.LampAngle, 1e-6)

	y1 := 2.2 + 2.2*math.Cos(wantAngle)
	z1 := -11 - 2.2*math.Tan(wantAngle)
	assertVec3(t, mgl32.Vec3{0, float32(y1), float32(z1)}, f.LampPositions[0], 1e-5)
	assertVec3(t, mgl32.Vec3{0.4, float32(y1 - 5), float32(z1 + 28)}, f.LampPositions[1], 1e-5)

	assertVec3(t, mgl32.Vec3{2, 2.5, 0}, f.FireflyColor, 1e-6)
	assertVec3(t, mgl32.Vec3{2.3, 0.7, -0.6}, f.FireflyOrigins[0], 1e-5)
	assertVec3(t, mgl32.Vec3{1.4, 10.5, 7}, f.FireflyOrigins[1], 1e-5)
	assertVec3(t, mgl32.Vec3{7, 2, -1}, f.FireflyOrigins[2], 1e-5)
}

func TestMoonOrbitStaysOnCircle(t *testing.T) {
	for _, tm := range []float64{0, 1.3, 7.9, 100} {
		p := Animate(tm).MoonPosition
		r := math.Hypot(float64(p[0]), float64(p[2]))
		assert.InDelta(t, MoonOrbitRadius, r, 1e-3, "t=%v", tm)
		assert.Equal(t, float32(MoonHeight), p[1])
	}
}

func TestMoonModelScalesAndTranslates(t *testing.T) {
	f := Animate(2)
	m := f.MoonModel()
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3(t, f.MoonPosition.Add(mgl32.Vec3{1.5, 0, 0}), p, 1e-4)
}

func TestFireflyColorRange(t *testing.T) {
	for tm := 0.0; tm < 7; tm += 0.25 {
		g := Animate(tm).FireflyColor[1]
		assert.GreaterOrEqual(t, g, float32(0.5))
		assert.LessOrEqual(t, g, float32(2.5))
	}
}

func TestPlacementMatrix(t *testing.T) {
	base := Layout[0]
	assert.Equal(t, "base platform", base.Name)
	p := base.Matrix(0).Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{2, -8, 6}, p, 1e-5)

	lamp := Placement{Position: mgl32.Vec3{0, 5.2, -11}, Scale: 1, Swing: true}
	angle := float32(math.Pi / 2)
	// rotating (0,1,0) a quarter turn about X lands on (0,0,1)
	p = lamp.Matrix(angle).Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{0, 5.2, -10}, p, 1e-5)

	still := lamp
	still.Swing = false
	p = still.Matrix(angle).Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{0, 6.2, -11}, p, 1e-5)
}

func TestRequiredModelsHavePaths(t *testing.T) {
	keys := RequiredModels()
	assert.Contains(t, keys, ModelMoon)
	assert.Contains(t, keys, ModelFirefly)
	assert.Len(t, keys, 9)
	for _, k := range keys {
		assert.NotEmpty(t, ModelPaths[k], "model %s", k)
	}
	for _, p := range Layout {
		if p.Model == ModelTree || p.Model == ModelFlowers {
			assert.True(t, p.NoCull, p.Name)
		}
	}
}
