package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Part is one mesh of a model with its model-space transform.
type Part struct {
	Mesh      *Mesh
	Transform mgl32.Mat4
}

// Model is a flat list of meshes loaded from one file.
type Model struct {
	Name  string
	Parts []Part

	bounds    AABB
	hasBounds bool
}

// NewModel wraps meshes that need no extra transform.
func NewModel(name string, meshes ...*Mesh) *Model {
	m := &Model{Name: name}
	for _, mesh := range meshes {
		m.Parts = append(m.Parts, Part{Mesh: mesh, Transform: mgl32.Ident4()})
	}
	return m
}

// LoadModel loads a Wavefront OBJ or a glTF/GLB file, chosen by extension.
func LoadModel(path string) (*Model, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		meshes, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		return NewModel(filepath.Base(path), meshes...), nil
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("load model %q: unsupported format %q", path, ext)
	}
}

// Textures returns every distinct texture referenced by the model's materials.
func (m *Model) Textures() []*Texture {
	seen := map[*Texture]bool{}
	var out []*Texture
	for _, p := range m.Parts {
		if p.Mesh.Material == nil {
			continue
		}
		for _, tex := range p.Mesh.Material.Textures() {
			if !seen[tex] {
				seen[tex] = true
				out = append(out, tex)
			}
		}
	}
	return out
}

// Stats returns mesh and triangle counts.
func (m *Model) Stats() (meshes, triangles int) {
	for _, p := range m.Parts {
		meshes++
		triangles += p.Mesh.TriangleCount()
	}
	return meshes, triangles
}

// Bounds returns the model-space box around every part. It is computed once;
// parts must not change afterwards.
func (m *Model) Bounds() AABB {
	if m.hasBounds {
		return m.bounds
	}
	first := true
	for _, p := range m.Parts {
		if len(p.Mesh.Vertices) == 0 {
			continue
		}
		mn, mx := p.Mesh.Bounds()
		b := AABB{Min: mn, Max: mx}.Transform(p.Transform)
		if first {
			m.bounds, first = b, false
		} else {
			m.bounds.union(b)
		}
	}
	m.hasBounds = true
	return m.bounds
}

// Visible reports whether any of the model, placed by world, lies inside f.
func (m *Model) Visible(world mgl32.Mat4, f *Frustum) bool {
	return m.Bounds().Transform(world).IntersectsFrustum(f)
}
