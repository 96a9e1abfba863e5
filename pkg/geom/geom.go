// Package geom holds the small amount of spatial math shared by the
// sketching packages: poses, look-at frames, box overlap and ray picking.
// Vectors, boxes and matrices are the sdfx types so that collision volumes
// built by the kernel can be consumed without conversion.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the tolerance used for degenerate-vector checks.
const Epsilon = 1e-9

// Up is the world up axis used for look-at frames.
var Up = v3.Vec{X: 0, Y: 1, Z: 0}

// Pose is a position plus Euler rotation in degrees (applied X, then Y, then Z).
type Pose struct {
	Position v3.Vec `json:"position"`
	Rotation v3.Vec `json:"rotation"`
}

// At returns a pose at p with no rotation.
func At(p v3.Vec) Pose {
	return Pose{Position: p}
}

// Matrix returns the world matrix of the pose.
func (p Pose) Matrix() sdf.M44 {
	return sdf.Translate3d(p.Position).Mul(p.RotationMatrix())
}

// RotationMatrix returns the rotation part of the pose.
func (p Pose) RotationMatrix() sdf.M44 {
	x := p.Rotation.X * math.Pi / 180.0
	y := p.Rotation.Y * math.Pi / 180.0
	z := p.Rotation.Z * math.Pi / 180.0
	return sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))
}

// Unit returns v normalized, and false when v is too short to normalize.
func Unit(v v3.Vec) (v3.Vec, bool) {
	l := v.Length()
	if l < Epsilon {
		return v3.Vec{}, false
	}
	return v.MulScalar(1 / l), true
}

// LookAtRight returns the right axis of a frame positioned at from and
// looking toward to: normalize(up x forward). When forward is parallel to up
// the world Z axis stands in for up. A zero-length forward yields +X.
func LookAtRight(from, to, up v3.Vec) v3.Vec {
	fwd, ok := Unit(to.Sub(from))
	if !ok {
		return v3.Vec{X: 1}
	}
	if r, ok := Unit(up.Cross(fwd)); ok {
		return r
	}
	if r, ok := Unit(v3.Vec{Z: 1}.Cross(fwd)); ok {
		return r
	}
	return v3.Vec{X: 1}
}

// Translation returns the translation component of a matrix.
func Translation(m sdf.M44) v3.Vec {
	return m.MulPosition(v3.Vec{})
}

// Near reports whether a and b are within tol of each other on every axis.
func Near(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
