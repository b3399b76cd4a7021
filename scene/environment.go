package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// SpotChannel selects which torch value the controls panel edits.
type SpotChannel int

const (
	SpotRed SpotChannel = iota
	SpotGreen
	SpotBlue
	SpotIntensity
)

func (c SpotChannel) String() string {
	switch c {
	case SpotRed:
		return "red"
	case SpotGreen:
		return "green"
	case SpotBlue:
		return "blue"
	case SpotIntensity:
		return "intensity"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

const (
	MinSpotIntensity = 1.0
	MaxSpotIntensity = 5.0
)

// Environment is the mutable per-frame scene state. It is owned by the frame
// loop and only changed between frames.
type Environment struct {
	BloodMoon bool
	Torch     bool

	// SpotColor channels are in [0, 1]; SpotIntensity in [1, 5].
	SpotColor     mgl32.Vec3
	SpotIntensity float32
}

func NewEnvironment() *Environment {
	return &Environment{
		SpotColor:     mgl32.Vec3{1, 1, 1},
		SpotIntensity: MinSpotIntensity,
	}
}

// ToggleBloodMoon flips the blood moon and the torch together.
func (e *Environment) ToggleBloodMoon() {
	e.BloodMoon = !e.BloodMoon
	e.Torch = !e.Torch
}

// Adjust changes one torch value by delta and clamps it to its range.
func (e *Environment) Adjust(ch SpotChannel, delta float32) {
	switch ch {
	case SpotRed, SpotGreen, SpotBlue:
		e.SpotColor[ch] = mgl32.Clamp(e.SpotColor[ch]+delta, 0, 1)
	case SpotIntensity:
		e.SpotIntensity = mgl32.Clamp(e.SpotIntensity+delta, MinSpotIntensity, MaxSpotIntensity)
	}
}

// Value returns the current value of a torch channel.
func (e *Environment) Value(ch SpotChannel) float32 {
	switch ch {
	case SpotRed, SpotGreen, SpotBlue:
		return e.SpotColor[ch]
	case SpotIntensity:
		return e.SpotIntensity
	}
	return 0
}

// TorchColor is the spotlight color scaled by its intensity.
func (e *Environment) TorchColor() mgl32.Vec3 {
	return e.SpotColor.Mul(e.SpotIntensity)
}

var (
	moonColor      = mgl32.Vec3{1.5, 1.0, 0.7}
	bloodMoonColor = mgl32.Vec3{1.5, 0.3, 0.0}
	bloodMoonLight = mgl32.Vec3{0.1, 0.1, 0.1}
)

// MoonColor is the emissive color of the moon itself.
func (e *Environment) MoonColor() mgl32.Vec3 {
	if e.BloodMoon {
		return bloodMoonColor
	}
	return moonColor
}

// MoonLight is the diffuse color of the directional moonlight.
func (e *Environment) MoonLight() mgl32.Vec3 {
	if e.BloodMoon {
		return bloodMoonLight
	}
	return moonColor
}
