package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"blood-moon/internal/hdr"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B91C1C"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// renderTestResult is what one software frame produced.
type renderTestResult struct {
	Background mgl32.Vec3 // composite far from the bright pixel
	Center     mgl32.Vec3 // composite at the bright pixel
	BlurPasses int
	Live       int // textures still allocated after Destroy
}

// runRenderTest renders one frame on the software backend: a constant
// background with a single bright pixel at the centre, then tears the
// pipeline down.
func runRenderTest(s hdr.Settings, width, height int, background, bright mgl32.Vec3, log zerolog.Logger) (renderTestResult, error) {
	sw := hdr.NewSoftware()
	p, err := hdr.New(sw, width, height, log)
	if err != nil {
		return renderTestResult{}, err
	}

	cx, cy := width/2, height/2
	err = p.Frame(s, mgl32.Vec3{}, func() {
		sw.DrawSolid(background, s.Threshold)
		sw.DrawPixel(cx, cy, bright, s.Threshold)
	})
	if err != nil {
		p.Destroy()
		return renderTestResult{}, err
	}

	res := renderTestResult{
		Background: sw.Screen.At(0, 0).Vec3(),
		Center:     sw.Screen.At(cx, cy).Vec3(),
		BlurPasses: len(sw.Blurs),
	}
	p.Destroy()
	res.Live = sw.Live()
	return res, nil
}

func printRenderTest(w io.Writer, s hdr.Settings, res renderTestResult) {
	fmt.Fprintln(w, titleStyle.Render("HDR render test (software backend)"))
	fmt.Fprintf(w, "  exposure %.2f  gamma %.2f  bloom %t x%.2f  passes %d\n",
		s.Exposure, s.Gamma, s.Bloom, s.BloomStrength, res.BlurPasses)
	fmt.Fprintf(w, "  background %s\n", formatColor(res.Background))
	fmt.Fprintf(w, "  bright     %s\n", formatColor(res.Center))
	if res.Live == 0 {
		fmt.Fprintln(w, okStyle.Render("  all targets released"))
	} else {
		fmt.Fprintf(w, "  %d textures leaked\n", res.Live)
	}
}

func formatColor(c mgl32.Vec3) string {
	return dimStyle.Render(fmt.Sprintf("(%.4f, %.4f, %.4f)", c[0], c[1], c[2]))
}
