package kernel

import (
	"slices"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering and collision bounds.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // scene entity this mesh belongs to
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns vertex i.
func (m *Mesh) Position(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// Bounds returns the local-space box enclosing every vertex. An empty mesh
// has a zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	n := m.VertexCount()
	if n == 0 {
		return sdf.Box3{}
	}
	b := sdf.Box3{Min: m.Position(0), Max: m.Position(0)}
	for i := 1; i < n; i++ {
		p := m.Position(i)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Transformed returns a copy of the mesh with positions mapped through m
// and normals through its rotation part.
func (m *Mesh) Transformed(mat sdf.M44) *Mesh {
	out := m.Clone()
	origin := mat.MulPosition(v3.Vec{})
	for i := 0; i < m.VertexCount(); i++ {
		p := mat.MulPosition(m.Position(i))
		out.Vertices[i*3] = float32(p.X)
		out.Vertices[i*3+1] = float32(p.Y)
		out.Vertices[i*3+2] = float32(p.Z)
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := v3.Vec{X: float64(m.Normals[i]), Y: float64(m.Normals[i+1]), Z: float64(m.Normals[i+2])}
		n = mat.MulPosition(n).Sub(origin)
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
		}
		out.Normals[i] = float32(n.X)
		out.Normals[i+1] = float32(n.Y)
		out.Normals[i+2] = float32(n.Z)
	}
	return out
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: slices.Clone(m.Vertices),
		Normals:  slices.Clone(m.Normals),
		Indices:  slices.Clone(m.Indices),
		PartName: m.PartName,
	}
}
