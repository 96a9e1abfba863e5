// Package tessellate turns stroke samples into ribbon meshes. A ribbon is a
// flat strip of quads whose cross-section at each sample is a segment of the
// stroke width laid along the right axis of a look-at frame.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrTooFewPoints is returned when a ribbon is requested for fewer than two samples.
var ErrTooFewPoints = errors.New("tessellate: ribbon needs at least 2 points")

// Ribbon builds the ribbon mesh for points in the stroke's local frame.
// Vertex 2i is the left offset of sample i and 2i+1 the right offset.
// Each sample looks at the next one; the last sample looks back at its
// predecessor with left and right swapped so the strip keeps its handedness.
func Ribbon(points []v3.Vec, width float64) (*kernel.Mesh, error) {
	n := len(points)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	half := width / 2

	positions := make([]v3.Vec, 0, 2*n)
	for i, p := range points {
		var left, right v3.Vec
		if i < n-1 {
			r := geom.LookAtRight(p, points[i+1], geom.Up).MulScalar(half)
			left, right = p.Sub(r), p.Add(r)
		} else {
			r := geom.LookAtRight(p, points[i-1], geom.Up).MulScalar(half)
			left, right = p.Add(r), p.Sub(r)
		}
		positions = append(positions, left, right)
	}

	indices := RibbonIndices(n)
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, len(positions)*3),
		Normals:  vertexNormals(positions, indices),
		Indices:  indices,
	}
	for _, p := range positions {
		mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return mesh, nil
}

// RibbonIndices returns the triangle list for a ribbon over n samples:
// for each quad i, (2i, 2i+3, 2i+1) and (2i, 2i+2, 2i+3).
func RibbonIndices(n int) []uint32 {
	if n < 2 {
		return nil
	}
	indices := make([]uint32, 0, 6*(n-1))
	for i := 0; i < n-1; i++ {
		a := uint32(2 * i)
		indices = append(indices, a, a+3, a+1, a, a+2, a+3)
	}
	return indices
}

// vertexNormals accumulates face normals from the triangle winding onto each
// vertex. Vertices with no usable face fall back to the world up axis.
func vertexNormals(positions []v3.Vec, indices []uint32) []float32 {
	acc := make([]v3.Vec, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := positions[indices[t]], positions[indices[t+1]], positions[indices[t+2]]
		face := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range indices[t : t+3] {
			acc[idx] = acc[idx].Add(face)
		}
	}
	normals := make([]float32, 0, len(positions)*3)
	for _, n := range acc {
		u, ok := geom.Unit(n)
		if !ok {
			u = geom.Up
		}
		normals = append(normals, float32(u.X), float32(u.Y), float32(u.Z))
	}
	return normals
}
