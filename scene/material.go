package scene

import "blood-moon/core"

// Material describes Phong surface properties for a mesh.
type Material struct {
	Name      string
	Diffuse   core.Color // multiplied with DiffuseTexture if set
	Specular  core.Color // used when SpecularTexture is nil
	Shininess float32

	// Optional textures. Upload via opengl.UploadTexture before rendering.
	DiffuseTexture  *Texture
	SpecularTexture *Texture
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Diffuse:   core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
	}
}

// NewMaterial creates a material with the given diffuse color.
func NewMaterial(name string, diffuse core.Color) *Material {
	return &Material{
		Name:      name,
		Diffuse:   diffuse,
		Specular:  core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Shininess: 32,
	}
}

// Textures lists the textures the material references.
func (m *Material) Textures() []*Texture {
	var out []*Texture
	if m.DiffuseTexture != nil {
		out = append(out, m.DiffuseTexture)
	}
	if m.SpecularTexture != nil {
		out = append(out, m.SpecularTexture)
	}
	return out
}
