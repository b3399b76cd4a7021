package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	log zerolog.Logger
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1500,
		Height:    800,
		Title:     "Blood Moon",
		Resizable: false,
		VSync:     true,
	}
}

// NewWindow opens a window with a current OpenGL 4.1 core, forward-compatible
// context. The caller owns the returned window and must call Destroy.
func NewWindow(config WindowConfig, log zerolog.Logger) (*Window, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("window size %dx%d: must be positive", config.Width, config.Height)
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(config.VSync))

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
		log:    log,
	}

	log.Info().
		Int("width", config.Width).
		Int("height", config.Height).
		Bool("vsync", config.VSync).
		Msg("window created")
	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// Aspect returns width/height of the framebuffer, or 1 while minimised.
func (w *Window) Aspect() float32 {
	fw, fh := w.GetFramebufferSize()
	if fw <= 0 || fh <= 0 {
		return 1
	}
	return float32(fw) / float32(fh)
}

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
	w.log.Debug().Msg("window destroyed")
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// SetCursorVisible switches between a captured cursor for mouse look and
// the normal pointer.
func (w *Window) SetCursorVisible(visible bool) {
	mode := glfw.CursorDisabled
	if visible {
		mode = glfw.CursorNormal
	}
	w.Handle.SetInputMode(glfw.CursorMode, mode)
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

type CursorCallback func(x, y float64)

func (w *Window) SetCursorPosCallback(cb CursorCallback) {
	w.Handle.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

// SizeCallback receives the new framebuffer size in pixels.
type SizeCallback func(width, height int)

func (w *Window) SetFramebufferSizeCallback(cb SizeCallback) {
	w.Handle.SetFramebufferSizeCallback(func(win *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		cb(width, height)
	})
}

// Key actions reported to a KeyCallback.
const (
	ActionRelease = int(glfw.Release)
	ActionPress   = int(glfw.Press)
	ActionRepeat  = int(glfw.Repeat)
)

type KeyCallback func(key, action int)

func (w *Window) SetKeyCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		cb(int(key), int(action))
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeyMinus        = int(glfw.KeyMinus)
	Key1            = int(glfw.Key1)
	Key2            = int(glfw.Key2)
	Key3            = int(glfw.Key3)
	Key4            = int(glfw.Key4)
	KeyEqual        = int(glfw.KeyEqual)
	KeyA            = int(glfw.KeyA)
	KeyB            = int(glfw.KeyB)
	KeyD            = int(glfw.KeyD)
	KeyH            = int(glfw.KeyH)
	KeyM            = int(glfw.KeyM)
	KeyS            = int(glfw.KeyS)
	KeyW            = int(glfw.KeyW)
	KeyLeftBracket  = int(glfw.KeyLeftBracket)
	KeyRightBracket = int(glfw.KeyRightBracket)
	KeyEscape       = int(glfw.KeyEscape)
	KeyRight        = int(glfw.KeyRight)
	KeyLeft         = int(glfw.KeyLeft)
	KeyDown         = int(glfw.KeyDown)
	KeyUp           = int(glfw.KeyUp)
	KeyF1           = int(glfw.KeyF1)
)
