package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestNewCameraLooksDownNegativeZ(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 3})
	assertVec3(t, mgl32.Vec3{0, 0, -1}, c.Front, 1e-6)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Right, 1e-6)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Up, 1e-6)
	assert.Equal(t, float32(45), c.Zoom)
}

func TestProcessKeyboard(t *testing.T) {
	tests := []struct {
		dir  CameraMovement
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, 0.5}},
		{Backward, mgl32.Vec3{0, 0, 5.5}},
		{Left, mgl32.Vec3{-2.5, 0, 3}},
		{Right, mgl32.Vec3{2.5, 0, 3}},
	}
	for _, tt := range tests {
		c := NewCamera(mgl32.Vec3{0, 0, 3})
		c.ProcessKeyboard(tt.dir, 1)
		assertVec3(t, tt.want, c.Position, 1e-5)
	}
}

func TestPitchClamped(t *testing.T) {
	c := NewCamera(mgl32.Vec3{})
	c.ProcessMouseMovement(0, 5000)
	assert.Equal(t, float32(89), c.Pitch)

	c.ProcessYawPitch(0, -500)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestYawPitchSteps(t *testing.T) {
	c := NewCamera(mgl32.Vec3{})
	for i := 0; i < 6; i++ {
		c.ProcessYawPitch(15, 0)
	}
	assert.Equal(t, float32(0), c.Yaw)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Front, 1e-6)
}

func TestZoomClamped(t *testing.T) {
	c := NewCamera(mgl32.Vec3{})
	c.ProcessMouseScroll(-10)
	assert.Equal(t, float32(45), c.Zoom)
	c.ProcessMouseScroll(30)
	assert.Equal(t, float32(15), c.Zoom)
	c.ProcessMouseScroll(100)
	assert.Equal(t, float32(1), c.Zoom)
}

func TestSetFrontRoundTrip(t *testing.T) {
	c := NewCamera(mgl32.Vec3{})
	c.ProcessMouseMovement(312, -147)
	front := c.Front

	restored := NewCamera(mgl32.Vec3{})
	restored.SetFront(front)
	assertVec3(t, front, restored.Front, 1e-5)
	assert.InDelta(t, c.Pitch, restored.Pitch, 1e-3)

	restored.SetFront(mgl32.Vec3{})
	assertVec3(t, front, restored.Front, 1e-5)
}

func TestViewMatrixMovesCameraToOrigin(t *testing.T) {
	c := NewCamera(mgl32.Vec3{1, 2, 3})
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{1, 2, 3, 1})
	assertVec3(t, mgl32.Vec3{}, p.Vec3(), 1e-5)

	ahead := c.ViewMatrix().Mul4x1(mgl32.Vec4{1, 2, 2, 1})
	assert.InDelta(t, -1, ahead[2], 1e-5)
}
