package tessellate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/airsketch/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// line returns n samples spaced step apart along dir.
func line(n int, step float64, dir v3.Vec) []v3.Vec {
	pts := make([]v3.Vec, n)
	for i := range pts {
		pts[i] = dir.MulScalar(step * float64(i))
	}
	return pts
}

func TestRibbonCounts(t *testing.T) {
	for _, n := range []int{2, 3, 10, 57} {
		mesh, err := tessellate.Ribbon(line(n, 0.01, v3.Vec{Z: 1}), 0.01)
		if err != nil {
			t.Fatalf("Ribbon(%d) failed: %v", n, err)
		}
		if mesh.VertexCount() != 2*n {
			t.Errorf("n=%d: VertexCount() = %d, want %d", n, mesh.VertexCount(), 2*n)
		}
		if len(mesh.Indices) != 6*(n-1) {
			t.Errorf("n=%d: len(Indices) = %d, want %d", n, len(mesh.Indices), 6*(n-1))
		}
		if len(mesh.Normals) != len(mesh.Vertices) {
			t.Errorf("n=%d: normals length %d != vertices length %d", n, len(mesh.Normals), len(mesh.Vertices))
		}
		for _, idx := range mesh.Indices {
			if int(idx) >= 2*n {
				t.Fatalf("n=%d: index %d out of range", n, idx)
			}
		}
	}
}

func TestRibbonThreeSamples(t *testing.T) {
	pts := []v3.Vec{{}, {Z: 0.01}, {Z: 0.02}}
	mesh, err := tessellate.Ribbon(pts, 0.01)
	if err != nil {
		t.Fatalf("Ribbon failed: %v", err)
	}
	if mesh.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", mesh.VertexCount())
	}
	if len(mesh.Indices) != 12 {
		t.Errorf("len(Indices) = %d, want 12", len(mesh.Indices))
	}
}

func TestRibbonOffsets(t *testing.T) {
	// Forward +Z gives right = +X, so the left vertex sits at -width/2.
	pts := []v3.Vec{{}, {Z: 1}, {Z: 2}}
	mesh, err := tessellate.Ribbon(pts, 0.2)
	if err != nil {
		t.Fatalf("Ribbon failed: %v", err)
	}
	for i := range pts {
		left, right := mesh.Position(2*i), mesh.Position(2*i+1)
		if math.Abs(left.X+0.1) > 1e-6 || math.Abs(right.X-0.1) > 1e-6 {
			t.Errorf("sample %d: left.X = %f, right.X = %f, want -0.1 and 0.1", i, left.X, right.X)
		}
		if math.Abs(left.Z-pts[i].Z) > 1e-6 || math.Abs(right.Z-pts[i].Z) > 1e-6 {
			t.Errorf("sample %d: offsets leave the sample's Z", i)
		}
	}
}

func TestRibbonNormalsUnit(t *testing.T) {
	mesh, err := tessellate.Ribbon(line(4, 0.5, v3.Vec{X: 1}), 0.1)
	if err != nil {
		t.Fatalf("Ribbon failed: %v", err)
	}
	for i := 0; i < len(mesh.Normals); i += 3 {
		n := v3.Vec{X: float64(mesh.Normals[i]), Y: float64(mesh.Normals[i+1]), Z: float64(mesh.Normals[i+2])}
		if math.Abs(n.Length()-1) > 1e-5 {
			t.Fatalf("normal %d has length %f", i/3, n.Length())
		}
		// A ribbon drawn along X lies in the XZ plane.
		if math.Abs(math.Abs(n.Y)-1) > 1e-5 {
			t.Errorf("normal %d = %v, want +/-Y", i/3, n)
		}
	}
}

func TestRibbonTooFewPoints(t *testing.T) {
	for _, pts := range [][]v3.Vec{nil, {{X: 1}}} {
		_, err := tessellate.Ribbon(pts, 0.01)
		if !errors.Is(err, tessellate.ErrTooFewPoints) {
			t.Errorf("Ribbon(%d points) error = %v, want ErrTooFewPoints", len(pts), err)
		}
	}
}

func TestRibbonIndicesPattern(t *testing.T) {
	got := tessellate.RibbonIndices(3)
	want := []uint32{0, 3, 1, 0, 2, 3, 2, 5, 3, 2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RibbonIndices(3)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if tessellate.RibbonIndices(1) != nil {
		t.Error("RibbonIndices(1) should be nil")
	}
}
