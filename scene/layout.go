package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ModelKey names one of the models the scene loads.
type ModelKey string

const (
	ModelPlatform ModelKey = "platform"
	ModelStairs   ModelKey = "stairs"
	ModelTorii    ModelKey = "torii"
	ModelLamp     ModelKey = "lamp"
	ModelCat      ModelKey = "cat"
	ModelTree     ModelKey = "tree"
	ModelFlowers  ModelKey = "flowers"
	ModelMoon     ModelKey = "moon"
	ModelFirefly  ModelKey = "firefly"
	ModelGrass    ModelKey = "grass"
)

// ModelPaths maps each model to its file, relative to the asset root.
var ModelPaths = map[ModelKey]string{
	ModelPlatform: "objects/StonePlatforms/StonePlatform_A.obj",
	ModelStairs:   "objects/StonePlatforms/StonePlatform_B.obj",
	ModelTorii:    "objects/Torii/OldTorii.obj",
	ModelLamp:     "objects/Lamp/Luster Grannys lamp N251121.obj",
	ModelCat:      "objects/Cat/cat.obj",
	ModelTree:     "objects/Tree/Tree Japanese maple N030123.obj",
	ModelFlowers:  "objects/Flowers/Flowers pot N300622.obj",
	ModelMoon:     "objects/moon/moon.obj",
	ModelFirefly:  "objects/firefly/sphere.obj",
}

const (
	GrassTexturePath = "textures/grass.png"
	SkyTexturePath   = "textures/skybox/sky.jpg"
)

// Placement puts one model instance in the world.
type Placement struct {
	Name     string
	Model    ModelKey
	Position mgl32.Vec3
	Scale    float32
	// Swing rotates the instance about X by the frame's lamp angle.
	Swing bool
	// NoCull draws with back-face culling disabled (foliage, billboards).
	NoCull bool
}

// Matrix returns translate * scale * rotate(lampAngle about X when Swing).
func (p Placement) Matrix(lampAngle float32) mgl32.Mat4 {
	m := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2]).
		Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))
	if p.Swing {
		m = m.Mul4(mgl32.HomogRotate3DX(lampAngle))
	}
	return m
}

// Layout is every lit model instance, in draw order.
var Layout = []Placement{
	{Name: "base platform", Model: ModelPlatform, Position: mgl32.Vec3{0, -10, 4}, Scale: 2},
	{Name: "small platform", Model: ModelPlatform, Position: mgl32.Vec3{0, -2.8, -4}, Scale: 1},
	{Name: "stairs", Model: ModelStairs, Position: mgl32.Vec3{0, -2.2, 10}, Scale: 0.5},
	{Name: "torii", Model: ModelTorii, Position: mgl32.Vec3{0, 0, -11}, Scale: 0.5},
	{Name: "lamp", Model: ModelLamp, Position: mgl32.Vec3{0, 5.2, -11}, Scale: 0.003, Swing: true},
	{Name: "cat", Model: ModelCat, Position: mgl32.Vec3{7, -4, 15}, Scale: 0.04},
	{Name: "torii 2", Model: ModelTorii, Position: mgl32.Vec3{0.4, -5, 17}, Scale: 0.5},
	{Name: "lamp 2", Model: ModelLamp, Position: mgl32.Vec3{0.4, 0.2, 17}, Scale: 0.003, Swing: true},
	{Name: "tree", Model: ModelTree, Position: mgl32.Vec3{0, 0, 0}, Scale: 0.05, NoCull: true},
	{Name: "flowers", Model: ModelFlowers, Position: mgl32.Vec3{6, 0, 0}, Scale: 0.003, NoCull: true},
}

// GrassLayout places the two grass billboards.
var GrassLayout = []Placement{
	{Name: "grass", Model: ModelGrass, Position: mgl32.Vec3{1.2, -3.8, 17.35}, Scale: 2, NoCull: true},
	{Name: "grass 2", Model: ModelGrass, Position: mgl32.Vec3{-2.3, -3.8, 17.4}, Scale: 2, NoCull: true},
}

// LayoutShininess is the material shininess every lit model is drawn with.
const LayoutShininess = 1.0

// RequiredModels lists the distinct models the layout and the animated
// objects reference.
func RequiredModels() []ModelKey {
	seen := map[ModelKey]bool{}
	var out []ModelKey
	for _, p := range Layout {
		if !seen[p.Model] {
			seen[p.Model] = true
			out = append(out, p.Model)
		}
	}
	return append(out, ModelMoon, ModelFirefly)
}
