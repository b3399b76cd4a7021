package scene

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"blood-moon/core"
)

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// GrassQuadVertices is the grass billboard as x, y, z, u, v: a unit-wide
// quad standing on its left edge, texture v flipped so the image is upright.
var GrassQuadVertices = [30]float32{
	0, 0.5, 0, 0, 0,
	0, -0.5, 0, 0, 1,
	1, -0.5, 0, 1, 1,

	0, 0.5, 0, 0, 0,
	1, -0.5, 0, 1, 1,
	1, 0.5, 0, 1, 0,
}

// CreateGrassQuad returns the grass billboard as a non-indexed mesh facing +Z.
func CreateGrassQuad(tex *Texture) *Mesh {
	verts := make([]core.Vertex, 0, 6)
	for i := 0; i < len(GrassQuadVertices); i += 5 {
		v := GrassQuadVertices[i : i+5]
		verts = append(verts, core.Vertex{
			Position: mgl32.Vec3{v[0], v[1], v[2]},
			Normal:   mgl32.Vec3{0, 0, 1},
			UV:       mgl32.Vec2{v[3], v[4]},
		})
	}
	m := CreateMeshFromData("Grass", verts, nil)
	m.Material = DefaultMaterial()
	m.Material.Name = "Grass"
	m.Material.DiffuseTexture = tex
	return m
}
