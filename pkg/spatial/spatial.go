// Package spatial indexes tagged scene entities by world-space bounds so the
// gesture controllers can find what the tool volume touches each frame.
//
// The index is a snapshot: Refresh captures the tagged entities at gesture
// start, and every query re-checks liveness and current bounds so entities
// destroyed or moved since the snapshot are filtered out uniformly.
package spatial

import (
	"math"
	"slices"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/deadsy/sdfx/sdf"
	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
)

const (
	// pad widens boxes before they enter the tree. Ribbons are flat, and the
	// tree treats touching or zero-extent rectangles as disjoint.
	pad = 1e-6

	minChildren = 4
	maxChildren = 16
)

type entry struct {
	seq  int
	node *graph.Node
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a snapshot of the tagged entities of a scene graph.
type Index struct {
	g       *graph.SceneGraph
	tag     string
	tree    *rtreego.Rtree
	entries []*entry
}

// New returns an empty index over entities of g carrying tag.
func New(g *graph.SceneGraph, tag string) *Index {
	return &Index{
		g:    g,
		tag:  tag,
		tree: rtreego.NewTree(3, minChildren, maxChildren),
	}
}

// Refresh snapshots the tagged entities that have a collision volume.
func (ix *Index) Refresh() {
	ix.entries = ix.entries[:0]
	objs := make([]rtreego.Spatial, 0)
	for _, n := range ix.g.Tagged(ix.tag) {
		if !n.HasCollisionVolume() {
			continue
		}
		b, ok := ix.g.WorldBounds(n)
		if !ok {
			continue
		}
		rect, err := toRect(geom.Pad(b, pad))
		if err != nil {
			logging.Logger().Debug("spatial: skipping entity", "id", n.ID.Short(), "err", err)
			continue
		}
		e := &entry{seq: len(ix.entries), node: n, rect: rect}
		ix.entries = append(ix.entries, e)
		objs = append(objs, e)
	}
	ix.tree = rtreego.NewTree(3, minChildren, maxChildren, objs...)
	logging.Logger().Debug("spatial: refreshed", "entities", len(ix.entries))
}

// Len returns the number of entities in the snapshot, live or not.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Candidates returns the snapshot entities still usable for hit tests.
func (ix *Index) Candidates() []*graph.Node {
	return lo.FilterMap(ix.entries, func(e *entry, _ int) (*graph.Node, bool) {
		return e.node, ix.usable(e.node)
	})
}

// Intersecting returns the usable snapshot entities whose current world
// bounds overlap vol, in snapshot order.
func (ix *Index) Intersecting(vol kernel.Volume) []*graph.Node {
	if vol == nil || len(ix.entries) == 0 {
		return nil
	}
	query := vol.Bounds()
	rect, err := toRect(geom.Pad(query, pad))
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(rect, func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		return !ix.usable(obj.(*entry).node), false
	})
	found := make([]*entry, 0, len(hits))
	for _, h := range hits {
		e := h.(*entry)
		if b, ok := ix.g.WorldBounds(e.node); ok && geom.Overlaps(b, query) {
			found = append(found, e)
		}
	}
	slices.SortFunc(found, func(a, b *entry) int { return a.seq - b.seq })
	return lo.Map(found, func(e *entry, _ int) *graph.Node { return e.node })
}

// Raycast returns the nearest usable entity hit by r and the distance to it.
func (ix *Index) Raycast(r geom.Ray) (*graph.Node, float64, bool) {
	var (
		best  *graph.Node
		bestT = math.Inf(1)
	)
	for _, n := range ix.Candidates() {
		b, ok := ix.g.WorldBounds(n)
		if !ok {
			continue
		}
		if t, hit := r.HitBox(b); hit && t < bestT {
			best, bestT = n, t
		}
	}
	return best, bestT, best != nil
}

// usable reports whether a snapshot entity may take part in a hit test:
// it must still be alive in the graph and carry a collision volume.
func (ix *Index) usable(n *graph.Node) bool {
	return n != nil && !n.Destroyed && ix.g.Alive(n.ID) && n.HasCollisionVolume()
}

func toRect(b sdf.Box3) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z},
		rtreego.Point{b.Max.X, b.Max.Y, b.Max.Z},
	)
}
