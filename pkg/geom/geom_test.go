package geom

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestLookAtRight(t *testing.T) {
	tests := []struct {
		name     string
		from, to v3.Vec
		want     v3.Vec
	}{
		{"forward +Z", v3.Vec{}, v3.Vec{Z: 1}, v3.Vec{X: 1}},
		{"forward -Z", v3.Vec{}, v3.Vec{Z: -1}, v3.Vec{X: -1}},
		{"forward +X", v3.Vec{}, v3.Vec{X: 2}, v3.Vec{Z: -1}},
		{"forward along up", v3.Vec{}, v3.Vec{Y: 1}, v3.Vec{X: -1}},
		{"coincident points", v3.Vec{X: 1}, v3.Vec{X: 1}, v3.Vec{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LookAtRight(tt.from, tt.to, Up)
			if !Near(got, tt.want, 1e-9) {
				t.Errorf("LookAtRight() = %v, want %v", got, tt.want)
			}
			if math.Abs(got.Length()-1) > 1e-9 {
				t.Errorf("LookAtRight() length = %f, want 1", got.Length())
			}
		})
	}
}

func TestPoseMatrixTranslation(t *testing.T) {
	p := Pose{Position: v3.Vec{X: 1, Y: 2, Z: 3}}
	got := Translation(p.Matrix())
	if !Near(got, p.Position, 1e-12) {
		t.Errorf("Translation() = %v, want %v", got, p.Position)
	}
}

func TestPoseRotation(t *testing.T) {
	p := Pose{Rotation: v3.Vec{Y: 90}}
	got := p.Matrix().MulPosition(v3.Vec{Z: 1})
	if !Near(got, v3.Vec{X: 1}, 1e-9) {
		t.Errorf("rotating +Z by 90 about Y = %v, want (1, 0, 0)", got)
	}
}

func TestUnit(t *testing.T) {
	if _, ok := Unit(v3.Vec{}); ok {
		t.Error("Unit(zero) should report not ok")
	}
	u, ok := Unit(v3.Vec{X: 3, Y: 4})
	if !ok || !Near(u, v3.Vec{X: 0.6, Y: 0.8}, 1e-12) {
		t.Errorf("Unit() = %v, %v", u, ok)
	}
}

func TestBoxOf(t *testing.T) {
	if _, ok := BoxOf(nil); ok {
		t.Error("BoxOf(nil) should report not ok")
	}
	b, ok := BoxOf([]v3.Vec{{X: 1, Y: -1, Z: 0}, {X: -2, Y: 3, Z: 5}})
	if !ok {
		t.Fatal("BoxOf() not ok")
	}
	if b.Min != (v3.Vec{X: -2, Y: -1, Z: 0}) || b.Max != (v3.Vec{X: 1, Y: 3, Z: 5}) {
		t.Errorf("BoxOf() = %v", b)
	}
}

func TestOverlaps(t *testing.T) {
	unit := sdf.Box3{Min: v3.Vec{}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	tests := []struct {
		name string
		b    sdf.Box3
		want bool
	}{
		{"inside", sdf.Box3{Min: v3.Vec{X: 0.2, Y: 0.2, Z: 0.2}, Max: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}}, true},
		{"touching face", sdf.Box3{Min: v3.Vec{X: 1}, Max: v3.Vec{X: 2, Y: 1, Z: 1}}, true},
		{"apart on x", sdf.Box3{Min: v3.Vec{X: 1.1}, Max: v3.Vec{X: 2, Y: 1, Z: 1}}, false},
		{"apart on z", sdf.Box3{Min: v3.Vec{Z: -2}, Max: v3.Vec{X: 1, Y: 1, Z: -0.5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(unit, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, unit); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayHitBox(t *testing.T) {
	box := sdf.Box3{Min: v3.Vec{X: -1, Y: -1, Z: 4}, Max: v3.Vec{X: 1, Y: 1, Z: 6}}
	tests := []struct {
		name   string
		ray    Ray
		wantOK bool
		wantT  float64
	}{
		{"straight on", Ray{Direction: v3.Vec{Z: 1}}, true, 4},
		{"pointing away", Ray{Direction: v3.Vec{Z: -1}}, false, 0},
		{"parallel miss", Ray{Origin: v3.Vec{X: 2}, Direction: v3.Vec{Z: 1}}, false, 0},
		{"origin inside", Ray{Origin: v3.Vec{Z: 5}, Direction: v3.Vec{X: 1}}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.HitBox(box)
			if ok != tt.wantOK {
				t.Fatalf("HitBox() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("HitBox() t = %f, want %f", got, tt.wantT)
			}
		})
	}
}
