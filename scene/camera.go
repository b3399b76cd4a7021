package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraMovement is a WASD direction for ProcessKeyboard.
type CameraMovement int

const (
	Forward CameraMovement = iota
	Backward
	Left
	Right
)

const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	NearPlane = 0.1
	FarPlane  = 1000.0

	maxPitch = 89.0
	minZoom  = 1.0
)

// Camera is a first-person camera driven by Euler angles in degrees.
// Front, Right and Up are derived from Yaw and Pitch.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32
}

func NewCamera(position mgl32.Vec3) *Camera {
	c := &Camera{
		Position:         position,
		WorldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              DefaultYaw,
		Pitch:            DefaultPitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		Zoom:             DefaultZoom,
	}
	c.updateVectors()
	return c
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the perspective matrix for the current zoom.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, NearPlane, FarPlane)
}

func (c *Camera) ProcessKeyboard(dir CameraMovement, deltaTime float32) {
	velocity := c.MovementSpeed * deltaTime
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessMouseMovement applies a cursor delta in pixels. yoff grows upwards.
func (c *Camera) ProcessMouseMovement(xoff, yoff float32) {
	c.ProcessYawPitch(xoff*c.MouseSensitivity, yoff*c.MouseSensitivity)
}

// ProcessYawPitch turns the camera by the given angles in degrees.
func (c *Camera) ProcessYawPitch(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = mgl32.Clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
	c.updateVectors()
}

func (c *Camera) ProcessMouseScroll(yoff float32) {
	c.Zoom = mgl32.Clamp(c.Zoom-yoff, minZoom, DefaultZoom)
}

// SetFront points the camera along front, recovering yaw and pitch so later
// mouse movement continues from that direction. A zero vector is ignored.
func (c *Camera) SetFront(front mgl32.Vec3) {
	if front.Len() == 0 {
		return
	}
	f := front.Normalize()
	c.Pitch = mgl32.Clamp(mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(f[1], -1, 1))))), -maxPitch, maxPitch)
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(f[2]), float64(f[0]))))
	c.updateVectors()
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
