// Package selection holds the persistent selection of a sketching session
// and the gesture controller that grows, shrinks, copies and moves it.
package selection

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/deadsy/sdfx/sdf"
	"github.com/samber/lo"
)

// ErrSweepActive is returned by mutations attempted while a selection sweep
// is staging changes.
var ErrSweepActive = errors.New("selection: sweep in progress")

// Context is the selection set of one session. Every mutation is serialized
// behind one mutex, and bulk mutations are refused while a sweep is open so
// they cannot interleave with staged changes.
type Context struct {
	mu       sync.Mutex
	g        *graph.SceneGraph
	members  []graph.NodeID
	sweeping bool

	// offsets holds tool-relative frames of attached members.
	offsets map[graph.NodeID]sdf.M44
}

// NewContext returns an empty selection over g.
func NewContext(g *graph.SceneGraph) *Context {
	return &Context{g: g}
}

// Graph returns the scene the selection refers to.
func (c *Context) Graph() *graph.SceneGraph { return c.g }

// Contains reports whether id is selected.
func (c *Context) Contains(id graph.NodeID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.members, id)
}

// IDs returns the IDs of live members in selection order.
func (c *Context) IDs() []graph.NodeID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	return slices.Clone(c.members)
}

// Members returns the live member nodes in selection order.
func (c *Context) Members() []*graph.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	return c.nodes()
}

// Len returns the number of live members.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	return len(c.members)
}

// Prune drops members that no longer exist in the scene.
func (c *Context) Prune() {
	c.mu.Lock()
	c.prune()
	c.mu.Unlock()
}

// Add selects n directly, outside any gesture.
func (c *Context) Add(n *graph.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(n)
}

// BeginSweep opens a sweep. Bulk mutations fail until Commit.
func (c *Context) BeginSweep() {
	c.mu.Lock()
	c.sweeping = true
	c.mu.Unlock()
}

// Sweeping reports whether a sweep is open.
func (c *Context) Sweeping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweeping
}

// Commit applies a sweep: S = (S ∪ additions) − removals. Additions take the
// selected visual and removals the default one. Commit closes the sweep.
func (c *Context) Commit(additions, removals []*graph.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range additions {
		c.add(n)
	}
	for _, n := range removals {
		c.members = lo.Without(c.members, n.ID)
		n.Visual = graph.VisualDefault
	}
	c.sweeping = false
	c.prune()
	logging.Logger().Info("selection committed",
		"added", len(additions), "removed", len(removals), "size", len(c.members))
}

// Clear empties the selection and restores each member's default visual.
// Nothing is destroyed. Attached members are detached in place.
func (c *Context) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return ErrSweepActive
	}
	c.clear()
	return nil
}

// Recolor paints every stroke under every member with col, then clears.
func (c *Context) Recolor(col graph.Color) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return ErrSweepActive
	}
	c.prune()
	for _, n := range c.nodes() {
		for _, s := range strokesUnder(c.g, n) {
			sd, _ := s.Stroke()
			sd.Color = col
			s.Data = sd
		}
	}
	c.clear()
	return nil
}

// Rescale sets the uniform scale of every member. The selection is kept.
func (c *Context) Rescale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("selection: scale must be positive, got %g", scale)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return ErrSweepActive
	}
	c.prune()
	for _, n := range c.nodes() {
		n.Scale = scale
	}
	return nil
}

// Delete destroys every member and clears the selection. It returns the
// number of scene nodes removed.
func (c *Context) Delete() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return 0, ErrSweepActive
	}
	removed := 0
	for _, id := range c.members {
		removed += c.g.Destroy(id)
	}
	c.members = nil
	c.offsets = nil
	logging.Logger().Info("selection deleted", "nodes", removed)
	return removed, nil
}

// Duplicate deep-copies every member.
//
// With deselectSource the duplicates replace the selection and the sources
// return to the default visual. Otherwise the sources stay selected and the
// duplicates are left behind unselected.
func (c *Context) Duplicate(deselectSource bool) ([]graph.NodeID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return nil, ErrSweepActive
	}
	c.prune()

	dups := make([]graph.NodeID, 0, len(c.members))
	for _, src := range c.nodes() {
		id, err := c.g.Clone(src.ID)
		if err != nil {
			return dups, fmt.Errorf("selection: duplicate: %w", err)
		}
		dup := c.g.Get(id)
		if deselectSource {
			src.Visual = graph.VisualDefault
			dup.Visual = graph.VisualSelected
		} else {
			dup.Visual = graph.VisualDefault
		}
		dups = append(dups, id)
	}
	if deselectSource {
		c.members = slices.Clone(dups)
	}
	logging.Logger().Debug("selection duplicated", "count", len(dups), "deselect_source", deselectSource)
	return dups, nil
}

// Group moves every member under a new group node and makes the group the
// only member.
func (c *Context) Group(name string) (graph.NodeID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeping {
		return graph.ZeroID, ErrSweepActive
	}
	c.prune()
	if len(c.members) == 0 {
		return graph.ZeroID, errors.New("selection: nothing to group")
	}
	for _, n := range c.nodes() {
		n.Visual = graph.VisualDefault
	}
	id, err := c.g.Group(name, c.members)
	if err != nil {
		return id, fmt.Errorf("selection: group: %w", err)
	}
	c.members = []graph.NodeID{id}
	c.g.Get(id).Visual = graph.VisualSelected
	return id, nil
}

// Attach records each member's frame relative to the tool frame so Follow
// can carry the members along.
func (c *Context) Attach(tool sdf.M44) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	c.attach(tool, c.nodes())
}

// AttachNodes is Attach for an explicit set of entities, selected or not.
// Missing IDs are skipped.
func (c *Context) AttachNodes(tool sdf.M44, ids []graph.NodeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	nodes := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		if n := c.g.Get(id); n != nil {
			nodes = append(nodes, n)
		}
	}
	c.attach(tool, nodes)
}

func (c *Context) attach(tool sdf.M44, nodes []*graph.Node) {
	inv := tool.Inverse()
	c.offsets = make(map[graph.NodeID]sdf.M44, len(nodes))
	for _, n := range nodes {
		c.offsets[n.ID] = inv.Mul(c.g.UnscaledWorldMatrix(n))
	}
}

// Follow places every attached member at tool * offset.
func (c *Context) Follow(tool sdf.M44) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, off := range c.offsets {
		n := c.g.Get(id)
		if n == nil {
			delete(c.offsets, id)
			continue
		}
		c.g.SetWorldMatrix(n, tool.Mul(off))
	}
}

// Detach stops carrying members; they keep their last world pose.
func (c *Context) Detach() {
	c.mu.Lock()
	c.offsets = nil
	c.mu.Unlock()
}

// Attached reports whether members are following the tool.
func (c *Context) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsets != nil
}

func (c *Context) add(n *graph.Node) {
	if n == nil || !c.g.Alive(n.ID) {
		return
	}
	if !slices.Contains(c.members, n.ID) {
		c.members = append(c.members, n.ID)
	}
	n.Visual = graph.VisualSelected
}

func (c *Context) clear() {
	for _, n := range c.nodes() {
		n.Visual = graph.VisualDefault
	}
	c.members = nil
	c.offsets = nil
}

func (c *Context) prune() {
	c.members = lo.Filter(c.members, func(id graph.NodeID, _ int) bool {
		return c.g.Alive(id)
	})
}

func (c *Context) nodes() []*graph.Node {
	return lo.FilterMap(c.members, func(id graph.NodeID, _ int) (*graph.Node, bool) {
		n := c.g.Get(id)
		return n, n != nil
	})
}

func strokesUnder(g *graph.SceneGraph, n *graph.Node) []*graph.Node {
	if n.Kind == graph.NodeStroke {
		return []*graph.Node{n}
	}
	var out []*graph.Node
	for _, child := range g.Children(n) {
		out = append(out, strokesUnder(g, child)...)
	}
	return out
}
