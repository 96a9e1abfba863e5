// Package preview renders a top-down view of a sketch as SVG. Ribbons are
// drawn in world space projected onto the XZ plane, one polygon per
// triangle, filled with the stroke color.
package preview

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ajstarks/svgo"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrBadSize is returned for a canvas with no drawable area.
var ErrBadSize = errors.New("preview: canvas too small")

// Options controls the rendered canvas.
type Options struct {
	Width      int    // canvas width in pixels
	Height     int    // canvas height in pixels
	Margin     int    // empty border in pixels
	Background string // CSS fill, empty for transparent
}

// DefaultOptions returns a 512x512 canvas on a dark background.
func DefaultOptions() Options {
	return Options{Width: 512, Height: 512, Margin: 16, Background: "#202020"}
}

type ribbon struct {
	mesh     *kernel.Mesh
	color    string
	selected bool
}

// WriteSVG writes the strokes of g to w. Strokes without a mesh are skipped.
// Selected strokes, and strokes whose group is selected, get an outline.
func WriteSVG(w io.Writer, g *graph.SceneGraph, opts Options) error {
	inner := min(opts.Width, opts.Height) - 2*opts.Margin
	if inner <= 0 {
		return fmt.Errorf("%w: %dx%d with margin %d", ErrBadSize, opts.Width, opts.Height, opts.Margin)
	}

	var ribbons []ribbon
	var bounds sdf.Box3
	for _, n := range g.Strokes() {
		if !n.HasCollisionVolume() {
			continue
		}
		m := n.Mesh.Transformed(g.WorldMatrix(n))
		sd, _ := n.Stroke()
		b := m.Bounds()
		if len(ribbons) == 0 {
			bounds = b
		} else {
			bounds = sdf.Box3{Min: bounds.Min.Min(b.Min), Max: bounds.Max.Max(b.Max)}
		}
		ribbons = append(ribbons, ribbon{
			mesh:     m,
			color:    sd.Color.Hex(),
			selected: g.Target(n).Visual == graph.VisualSelected,
		})
	}

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(fmt.Sprintf("%d strokes", len(ribbons)))
	if opts.Background != "" {
		canvas.Rect(0, 0, opts.Width, opts.Height, "fill:"+opts.Background)
	}

	proj := newProjection(bounds, opts, inner)
	for _, r := range ribbons {
		style := "fill:" + r.color + ";stroke:none"
		if r.selected {
			style = "fill:" + r.color + ";stroke:#FFD700;stroke-width:1"
		}
		canvas.Gstyle(style)
		for t := 0; t < r.mesh.TriangleCount(); t++ {
			xs, ys := make([]int, 3), make([]int, 3)
			for k := 0; k < 3; k++ {
				xs[k], ys[k] = proj.point(r.mesh.Position(int(r.mesh.Indices[t*3+k])))
			}
			canvas.Polygon(xs, ys)
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// projection maps world X to canvas x and world Z to canvas y, keeping the
// aspect ratio and centring the scene.
type projection struct {
	scale  float64
	center v3.Vec
	cx, cy float64
}

func newProjection(b sdf.Box3, opts Options, inner int) projection {
	size := b.Max.Sub(b.Min)
	extent := math.Max(size.X, size.Z)
	scale := 1.0
	if extent > 0 {
		scale = float64(inner) / extent
	}
	return projection{
		scale:  scale,
		center: b.Min.Add(size.MulScalar(0.5)),
		cx:     float64(opts.Width) / 2,
		cy:     float64(opts.Height) / 2,
	}
}

func (p projection) point(v v3.Vec) (int, int) {
	x := p.cx + (v.X-p.center.X)*p.scale
	y := p.cy + (v.Z-p.center.Z)*p.scale
	return int(math.Round(x)), int(math.Round(y))
}
