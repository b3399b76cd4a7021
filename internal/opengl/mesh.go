package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"blood-moon/core"
	"blood-moon/scene"
)

// GPUMesh holds the OpenGL objects for one uploaded scene.Mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	Count      int32 // index count, or vertex count when not indexed
	HasIndices bool
}

// MeshCache uploads meshes on first draw and keeps them until Release.
type MeshCache struct {
	meshes map[*scene.Mesh]*GPUMesh
}

func NewMeshCache() *MeshCache {
	return &MeshCache{meshes: make(map[*scene.Mesh]*GPUMesh)}
}

// Len reports how many meshes are resident.
func (c *MeshCache) Len() int { return len(c.meshes) }

// Upload creates the GPU buffers for mesh if they do not exist yet.
// Layout: position at 0, normal at 1, uv at 2.
func (c *MeshCache) Upload(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := c.meshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{HasIndices: len(mesh.Indices) > 0}
	if gpu.HasIndices {
		gpu.Count = int32(len(mesh.Indices))
	} else {
		gpu.Count = int32(len(mesh.Vertices))
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	var v core.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	c.meshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// Draw uploads mesh if needed and issues its draw call with whatever
// program and textures are bound.
func (c *MeshCache) Draw(mesh *scene.Mesh) {
	gpu := c.Upload(mesh)
	if gpu == nil {
		return
	}
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.Count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, gpu.Count)
	}
	gl.BindVertexArray(0)
}

// Release frees the buffers of one mesh.
func (c *MeshCache) Release(mesh *scene.Mesh) {
	gpu, ok := c.meshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.EBO != 0 {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(c.meshes, mesh)
	mesh.GPUData = nil
}

// ReleaseAll frees every resident mesh.
func (c *MeshCache) ReleaseAll() {
	for mesh := range c.meshes {
		c.Release(mesh)
	}
}
