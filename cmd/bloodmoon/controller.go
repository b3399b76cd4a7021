package main

import (
	"github.com/rs/zerolog"

	"blood-moon/core"
	"blood-moon/internal/hdr"
	"blood-moon/internal/logging"
	"blood-moon/scene"
)

const (
	lookStep      = 15.0 // degrees per arrow key press
	colorStep     = 0.05
	intensityStep = 0.25
	exposureStep  = 0.05
	minExposure   = 0.05
)

// Controller turns window input into camera, environment and settings
// changes. It runs on the main thread from the window callbacks and the
// frame loop, so none of its state is shared.
type Controller struct {
	Camera   *scene.Camera
	Env      *scene.Environment
	Settings *hdr.Settings
	Panel    *Panel

	// MouseUpdate gates mouse look; opening the panel turns it off.
	MouseUpdate bool

	// SetCursorVisible and Quit are wired to the window.
	SetCursorVisible func(bool)
	Quit             func()

	lastX, lastY float64
	firstMouse   bool
	changed      bool

	log zerolog.Logger
}

func NewController(cam *scene.Camera, env *scene.Environment, s *hdr.Settings, p *Panel, mouseUpdate bool, log zerolog.Logger) *Controller {
	return &Controller{
		Camera:           cam,
		Env:              env,
		Settings:         s,
		Panel:            p,
		MouseUpdate:      mouseUpdate,
		SetCursorVisible: func(bool) {},
		Quit:             func() {},
		firstMouse:       true,
		log:              log,
	}
}

// TakeChanged reports whether anything shown in the panel changed since the
// last call.
func (c *Controller) TakeChanged() bool {
	ch := c.changed
	c.changed = false
	return ch
}

// OnKey handles key events. Toggles fire on press only; arrow turns,
// exposure and spotlight adjustments also repeat while the key is held.
func (c *Controller) OnKey(key, action int) {
	if action == core.ActionRelease {
		return
	}

	switch key {
	case core.KeyEscape:
		c.Quit()
		return
	case core.KeyLeft:
		c.Camera.ProcessYawPitch(-lookStep, 0)
	case core.KeyRight:
		c.Camera.ProcessYawPitch(lookStep, 0)
	case core.KeyDown:
		c.Camera.ProcessYawPitch(0, -lookStep)
	case core.KeyUp:
		c.Camera.ProcessYawPitch(0, lookStep)
	case core.KeyLeftBracket:
		c.adjustExposure(-exposureStep)
	case core.KeyRightBracket:
		c.adjustExposure(exposureStep)
	case core.KeyMinus:
		c.adjustSpot(-1)
	case core.KeyEqual:
		c.adjustSpot(1)
	}
	if action == core.ActionPress {
		c.toggle(key)
	}
	c.changed = true
}

func (c *Controller) toggle(key int) {
	switch key {
	case core.KeyF1:
		open := c.Panel.Toggle()
		if open {
			c.MouseUpdate = false
		}
		c.SetCursorVisible(open)
		c.log.Info().Msgf("[Panel] %s", logging.OnOff(open))
	case core.KeyB:
		c.Env.ToggleBloodMoon()
		c.log.Info().Msgf("[BloodMoon] %s", logging.OnOff(c.Env.BloodMoon))
	case core.KeyH:
		c.Settings.Bloom = !c.Settings.Bloom
		c.log.Info().Msgf("[Bloom] %s", logging.OnOff(c.Settings.Bloom))
	case core.KeyM:
		if c.Panel.Open {
			c.MouseUpdate = !c.MouseUpdate
			c.log.Info().Msgf("[Mouse] %s", logging.OnOff(c.MouseUpdate))
		}
	case core.Key1, core.Key2, core.Key3, core.Key4:
		if c.Panel.Open {
			c.Panel.Selected = scene.SpotChannel(key - core.Key1)
		}
	}
}

func (c *Controller) adjustExposure(delta float32) {
	e := c.Settings.Exposure + delta
	if e < minExposure {
		e = minExposure
	}
	c.Settings.Exposure = e
	c.log.Debug().Float32("exposure", e).Msg("exposure changed")
}

func (c *Controller) adjustSpot(sign float32) {
	if !c.Panel.Open {
		return
	}
	step := float32(colorStep)
	if c.Panel.Selected == scene.SpotIntensity {
		step = intensityStep
	}
	c.Env.Adjust(c.Panel.Selected, sign*step)
	c.log.Debug().
		Str("channel", c.Panel.Selected.String()).
		Float32("value", c.Env.Value(c.Panel.Selected)).
		Msg("spotlight changed")
}

// OnCursor feeds mouse look. The first event only records the position.
func (c *Controller) OnCursor(x, y float64) {
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
	}
	xoff := float32(x - c.lastX)
	yoff := float32(c.lastY - y) // window y grows downwards
	c.lastX, c.lastY = x, y

	if c.MouseUpdate {
		c.Camera.ProcessMouseMovement(xoff, yoff)
		c.changed = true
	}
}

func (c *Controller) OnScroll(yoff float64) {
	c.Camera.ProcessMouseScroll(float32(yoff))
}

// Move applies held WASD keys for one frame.
func (c *Controller) Move(pressed func(key int) bool, dt float32) {
	moves := []struct {
		key int
		dir scene.CameraMovement
	}{
		{core.KeyW, scene.Forward},
		{core.KeyS, scene.Backward},
		{core.KeyA, scene.Left},
		{core.KeyD, scene.Right},
	}
	for _, m := range moves {
		if pressed(m.key) {
			c.Camera.ProcessKeyboard(m.dir, dt)
			c.changed = true
		}
	}
}
