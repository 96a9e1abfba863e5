package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BoxOf returns the smallest box enclosing points. ok is false for no points.
func BoxOf(points []v3.Vec) (box sdf.Box3, ok bool) {
	if len(points) == 0 {
		return sdf.Box3{}, false
	}
	box = sdf.Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box, true
}

// Union returns the box enclosing a and b.
func Union(a, b sdf.Box3) sdf.Box3 {
	return sdf.Box3{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Overlaps reports whether a and b share at least one point. Touching faces count.
func Overlaps(a, b sdf.Box3) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}

// Pad grows b by eps on every side.
func Pad(b sdf.Box3, eps float64) sdf.Box3 {
	d := v3.Vec{X: eps, Y: eps, Z: eps}
	return sdf.Box3{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Ray is a half-line used for pointer picking.
type Ray struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// HitBox intersects the ray with b using the slab method and returns the
// distance along the ray to the entry point (0 when the origin is inside).
func (r Ray) HitBox(b sdf.Box3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < Epsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}
