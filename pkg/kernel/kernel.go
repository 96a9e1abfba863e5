// Package kernel defines the geometry kernel used for collision volumes.
// The tool tip is modelled as a solid so that selection and erasure can
// query its world-space bounds, and the kernel can tessellate it for
// display. Implementations (sdfx) live in sub-packages.
package kernel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Volume is anything that occupies space and can report its axis-aligned bounds.
type Volume interface {
	Bounds() sdf.Box3
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	Volume
	// Contains reports whether p lies inside or on the surface.
	Contains(p v3.Vec) bool
}

// Kernel builds and transforms solids.
type Kernel interface {
	// Primitives, centered on the origin.
	Sphere(radius float64) (Solid, error)
	Box(x, y, z float64) (Solid, error)

	// Transform places s with the world matrix m.
	Transform(s Solid, m sdf.M44) Solid

	// ToMesh tessellates s with the given number of cells along its longest side.
	ToMesh(s Solid, cells int) (*Mesh, error)
}

// BoxVolume is a Volume backed by a fixed box.
type BoxVolume sdf.Box3

// Bounds implements Volume.
func (b BoxVolume) Bounds() sdf.Box3 {
	return sdf.Box3(b)
}
