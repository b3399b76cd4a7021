package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"blood-moon/scene"
)

// DrawKind selects the program a draw uses.
type DrawKind int

const (
	DrawLit DrawKind = iota
	DrawMoon
	DrawFirefly
	DrawGrass
	DrawSky
)

func (k DrawKind) String() string {
	switch k {
	case DrawLit:
		return "lit"
	case DrawMoon:
		return "moon"
	case DrawFirefly:
		return "firefly"
	case DrawGrass:
		return "grass"
	case DrawSky:
		return "sky"
	}
	return "unknown"
}

// DrawItem is one draw of the scene pass.
type DrawItem struct {
	Kind  DrawKind
	Name  string
	Model *scene.Model
	Mesh  *scene.Mesh // grass only
	World mgl32.Mat4
	Cull  bool
	Color mgl32.Vec3 // emissive color for light sources
}

// BuildDrawList orders the scene pass for one animation frame: lit
// placements in layout order, the moon, the fireflies, the grass billboards
// and finally the sky. Placements whose model did not load are left out.
func BuildDrawList(a *Assets, f scene.Frame, env *scene.Environment) []DrawItem {
	items := make([]DrawItem, 0, len(scene.Layout)+len(scene.GrassLayout)+5)

	for _, p := range scene.Layout {
		m := a.Models[p.Model]
		if m == nil {
			continue
		}
		items = append(items, DrawItem{
			Kind:  DrawLit,
			Name:  p.Name,
			Model: m,
			World: p.Matrix(f.LampAngle),
			Cull:  !p.NoCull,
		})
	}

	if m := a.Models[scene.ModelMoon]; m != nil {
		items = append(items, DrawItem{
			Kind:  DrawMoon,
			Name:  "moon",
			Model: m,
			World: f.MoonModel(),
			Cull:  true,
			Color: env.MoonColor(),
		})
	}
	if m := a.Models[scene.ModelFirefly]; m != nil {
		for _, world := range f.FireflyModels() {
			items = append(items, DrawItem{
				Kind:  DrawFirefly,
				Name:  "firefly",
				Model: m,
				World: world,
				Cull:  true,
				Color: f.FireflyColor,
			})
		}
	}

	if a.Grass != nil {
		for _, p := range scene.GrassLayout {
			items = append(items, DrawItem{
				Kind:  DrawGrass,
				Name:  p.Name,
				Mesh:  a.Grass,
				World: p.Matrix(f.LampAngle),
			})
		}
	}

	if a.Sky != nil {
		items = append(items, DrawItem{Kind: DrawSky, Name: "sky"})
	}
	return items
}
