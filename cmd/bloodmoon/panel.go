package main

import (
	"fmt"
	"strings"

	"blood-moon/internal/hdr"
	"blood-moon/internal/logging"
	"blood-moon/scene"
)

// Panel is the in-window controls readout. It has no widgets of its own:
// while open, the number keys pick a spotlight channel, -/= adjust it, and
// the text goes to the window title.
type Panel struct {
	Open     bool
	Selected scene.SpotChannel

	lines []string
}

func (p *Panel) Toggle() bool {
	p.Open = !p.Open
	return p.Open
}

func (p *Panel) AddLine(format string, args ...interface{}) {
	p.lines = append(p.lines, fmt.Sprintf(format, args...))
}

func (p *Panel) Clear() {
	p.lines = p.lines[:0]
}

// Lines returns the text built by the last Build.
func (p *Panel) Lines() []string { return p.lines }

// Build refreshes the readout: camera info, spotlight color and the HDR
// settings.
func (p *Panel) Build(cam *scene.Camera, env *scene.Environment, s hdr.Settings, mouseUpdate bool) {
	p.Clear()
	p.AddLine("pos (%.2f, %.2f, %.2f)", cam.Position[0], cam.Position[1], cam.Position[2])
	p.AddLine("yaw/pitch (%.1f, %.1f)", cam.Yaw, cam.Pitch)
	p.AddLine("front (%.2f, %.2f, %.2f)", cam.Front[0], cam.Front[1], cam.Front[2])
	p.AddLine("mouse %s", logging.OnOff(mouseUpdate))

	var spot []string
	for _, ch := range []scene.SpotChannel{scene.SpotRed, scene.SpotGreen, scene.SpotBlue, scene.SpotIntensity} {
		mark := ""
		if ch == p.Selected {
			mark = "*"
		}
		spot = append(spot, fmt.Sprintf("%s%s %.2f", mark, ch, env.Value(ch)))
	}
	p.AddLine("spot %s", strings.Join(spot, " "))
	p.AddLine("exposure %.2f bloom %s", s.Exposure, logging.OnOff(s.Bloom))
}

// Title is the window title: the base title alone while closed, followed by
// the readout while open.
func (p *Panel) Title(base string) string {
	if !p.Open || len(p.lines) == 0 {
		return base
	}
	return base + " | " + strings.Join(p.lines, " | ")
}
