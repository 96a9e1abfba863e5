// Package graphtest provides scene fixtures for tests.
package graphtest

import (
	"fmt"

	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/chazu/airsketch/pkg/tessellate"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// StrokeLength is the extent along +Z of strokes made by AddStroke.
const StrokeLength = 0.1

// AddStroke adds a finalized, tagged stroke at pos running StrokeLength along +Z.
func AddStroke(g *graph.SceneGraph, pos v3.Vec) *graph.Node {
	pts := []v3.Vec{{}, {Z: StrokeLength / 2}, {Z: StrokeLength}}
	n := graph.NewStroke(sdf.Translate3d(pos), 0.01, graph.White)
	mesh, err := tessellate.Ribbon(pts, 0.01)
	if err != nil {
		panic(fmt.Sprintf("graphtest: %v", err))
	}
	n.Data = graph.StrokeData{Points: pts, Width: 0.01, Color: graph.White}
	n.Mesh = mesh
	g.AddNode(n)
	return n
}

// Ball returns a cube volume of half-size r centered on c.
func Ball(c v3.Vec, r float64) kernel.Volume {
	d := v3.Vec{X: r, Y: r, Z: r}
	return kernel.BoxVolume(sdf.Box3{Min: c.Sub(d), Max: c.Add(d)})
}
