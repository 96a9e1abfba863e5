package graph

import (
	"fmt"
	"slices"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

// SceneGraph is the mutable set of scene entities for one session.
// It is not safe for concurrent use; the session serializes access.
type SceneGraph struct {
	Nodes map[NodeID]*Node
	Roots []NodeID

	// order records insertion order so iteration is deterministic.
	order []NodeID
	// tag is stamped on finished strokes and new groups.
	tag string
}

// New creates an empty SceneGraph whose entities carry DrawableTag.
func New() *SceneGraph {
	return NewTagged(DrawableTag)
}

// NewTagged creates an empty SceneGraph whose finished strokes and groups
// carry tag. An empty tag falls back to DrawableTag.
func NewTagged(tag string) *SceneGraph {
	if tag == "" {
		tag = DrawableTag
	}
	return &SceneGraph{
		Nodes: make(map[NodeID]*Node),
		tag:   tag,
	}
}

// Tag returns the tag selection and erasure look for in this graph.
func (g *SceneGraph) Tag() string { return g.tag }

// NewStroke returns an unfinalized stroke node placed at transform.
func NewStroke(transform sdf.M44, width float64, c Color) *Node {
	return &Node{
		ID:        NewNodeID(),
		Kind:      NodeStroke,
		Tag:       DrawableTag,
		Transform: transform,
		Scale:     1,
		Data:      StrokeData{Width: width, Color: c},
	}
}

// AddNode adds a node to the graph. A node with a parent is appended to the
// parent's children; otherwise it becomes a root. A zero scale becomes 1
// and a zero transform becomes the identity.
func (g *SceneGraph) AddNode(n *Node) {
	if n.Scale == 0 {
		n.Scale = 1
	}
	if n.Transform == (sdf.M44{}) {
		n.Transform = sdf.Identity3d()
	}
	g.Nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	if p := g.Get(n.Parent); p != nil {
		if !slices.Contains(p.Children, n.ID) {
			p.Children = append(p.Children, n.ID)
		}
		return
	}
	n.Parent = ZeroID
	g.Roots = append(g.Roots, n.ID)
}

// Get returns the node with the given ID, or nil if it does not exist or
// has been destroyed.
func (g *SceneGraph) Get(id NodeID) *Node {
	if id.IsZero() {
		return nil
	}
	return g.Nodes[id]
}

// Alive reports whether id refers to a node still in the graph.
func (g *SceneGraph) Alive(id NodeID) bool {
	return g.Get(id) != nil
}

// All returns every node in insertion order.
func (g *SceneGraph) All() []*Node {
	return lo.FilterMap(g.order, func(id NodeID, _ int) (*Node, bool) {
		n := g.Nodes[id]
		return n, n != nil
	})
}

// Tagged returns the nodes carrying tag, in insertion order.
func (g *SceneGraph) Tagged(tag string) []*Node {
	return lo.Filter(g.All(), func(n *Node, _ int) bool {
		return n.Tag == tag
	})
}

// Strokes returns every stroke node in insertion order.
func (g *SceneGraph) Strokes() []*Node {
	return lo.Filter(g.All(), func(n *Node, _ int) bool {
		return n.Kind == NodeStroke
	})
}

// Children returns the child nodes of the given node.
func (g *SceneGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Target returns the entity selection and erasure act on for n: its parent
// when it has a live one, otherwise n itself.
func (g *SceneGraph) Target(n *Node) *Node {
	if p := g.Get(n.Parent); p != nil {
		return p
	}
	return n
}

// NodeCount returns the number of live nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.Nodes)
}

// ParentMatrix returns the world matrix of n's parent frame.
func (g *SceneGraph) ParentMatrix(n *Node) sdf.M44 {
	if p := g.Get(n.Parent); p != nil {
		return g.WorldMatrix(p)
	}
	return sdf.Identity3d()
}

// WorldMatrix composes the parent chain: parent * Transform * Scale.
func (g *SceneGraph) WorldMatrix(n *Node) sdf.M44 {
	return g.ParentMatrix(n).Mul(n.Transform).Mul(scaleMatrix(n.Scale))
}

// SetWorldMatrix sets n's local transform so that, with its current scale,
// n's unscaled world frame equals w.
func (g *SceneGraph) SetWorldMatrix(n *Node, w sdf.M44) {
	n.Transform = g.ParentMatrix(n).Inverse().Mul(w)
}

// UnscaledWorldMatrix is WorldMatrix without n's own scale.
func (g *SceneGraph) UnscaledWorldMatrix(n *Node) sdf.M44 {
	return g.ParentMatrix(n).Mul(n.Transform)
}

func scaleMatrix(s float64) sdf.M44 {
	if s == 0 {
		s = 1
	}
	return sdf.Scale3d(v3.Vec{X: s, Y: s, Z: s})
}

// WorldBounds returns the world-space box of n's collision volume. Groups
// report the union of their children. ok is false when nothing under n has
// a collision volume.
func (g *SceneGraph) WorldBounds(n *Node) (sdf.Box3, bool) {
	if n.HasCollisionVolume() {
		return g.WorldMatrix(n).MulBox(n.Mesh.Bounds()), true
	}
	var (
		box   sdf.Box3
		found bool
	)
	for _, c := range g.Children(n) {
		cb, ok := g.WorldBounds(c)
		if !ok {
			continue
		}
		if !found {
			box, found = cb, true
			continue
		}
		box = geom.Union(box, cb)
	}
	return box, found
}

// Destroy removes id and all of its descendants, detaching it from its
// parent. It returns the number of nodes removed; destroying an unknown or
// already destroyed node removes nothing.
func (g *SceneGraph) Destroy(id NodeID) int {
	n := g.Get(id)
	if n == nil {
		return 0
	}
	if p := g.Get(n.Parent); p != nil {
		p.Children = lo.Without(p.Children, id)
	} else {
		g.Roots = lo.Without(g.Roots, id)
	}
	return g.destroyTree(n)
}

func (g *SceneGraph) destroyTree(n *Node) int {
	count := 1
	for _, c := range g.Children(n) {
		count += g.destroyTree(c)
	}
	delete(g.Nodes, n.ID)
	g.order = lo.Without(g.order, n.ID)
	n.Destroyed = true
	return count
}

// Reparent moves child under parent (zero for the scene frame), keeping its
// world pose.
func (g *SceneGraph) Reparent(childID, parentID NodeID) error {
	child := g.Get(childID)
	if child == nil {
		return fmt.Errorf("graph: reparent: no node %s", childID.Short())
	}
	if !parentID.IsZero() && g.Get(parentID) == nil {
		return fmt.Errorf("graph: reparent: no parent %s", parentID.Short())
	}
	for p := g.Get(parentID); p != nil; p = g.Get(p.Parent) {
		if p.ID == childID {
			return fmt.Errorf("graph: reparent: %s would become its own ancestor", childID.Short())
		}
	}

	world := g.UnscaledWorldMatrix(child)
	if old := g.Get(child.Parent); old != nil {
		old.Children = lo.Without(old.Children, childID)
	} else {
		g.Roots = lo.Without(g.Roots, childID)
	}

	child.Parent = parentID
	if p := g.Get(parentID); p != nil {
		p.Children = append(p.Children, childID)
	} else {
		child.Parent = ZeroID
		g.Roots = append(g.Roots, childID)
	}
	g.SetWorldMatrix(child, world)
	return nil
}

// Group creates a group node in the scene frame and moves members under it.
// Members that are missing or already grouped under another member are skipped.
func (g *SceneGraph) Group(name string, members []NodeID) (NodeID, error) {
	group := &Node{
		ID:        NewNodeID(),
		Kind:      NodeGroup,
		Name:      name,
		Tag:       g.tag,
		Transform: sdf.Identity3d(),
		Scale:     1,
		Data:      GroupData{Description: name},
	}
	g.AddNode(group)
	for _, id := range lo.Uniq(members) {
		if !g.Alive(id) || id == group.ID {
			continue
		}
		if err := g.Reparent(id, group.ID); err != nil {
			return group.ID, err
		}
	}
	return group.ID, nil
}

// Clone deep-copies the subtree rooted at id under the same parent and
// returns the new root's ID. Clones get fresh IDs and the default visual.
func (g *SceneGraph) Clone(id NodeID) (NodeID, error) {
	src := g.Get(id)
	if src == nil {
		return ZeroID, fmt.Errorf("graph: clone: no node %s", id.Short())
	}
	dup, err := g.cloneTree(src, src.Parent)
	if err != nil {
		return ZeroID, err
	}
	return dup.ID, nil
}

func (g *SceneGraph) cloneTree(src *Node, parent NodeID) (*Node, error) {
	data, err := CloneData(src.Data)
	if err != nil {
		return nil, fmt.Errorf("graph: clone %s: %w", src.ID.Short(), err)
	}
	dup := &Node{
		ID:        NewNodeID(),
		Kind:      src.Kind,
		Name:      src.Name,
		Tag:       src.Tag,
		Parent:    parent,
		Transform: src.Transform,
		Scale:     src.Scale,
		Visual:    VisualDefault,
		Data:      data,
	}
	if src.Mesh != nil {
		dup.Mesh = src.Mesh.Clone()
	}
	g.AddNode(dup)

	for _, c := range g.Children(src) {
		if _, err := g.cloneTree(c, dup.ID); err != nil {
			return nil, err
		}
	}
	return dup, nil
}

// CloneData deep-copies a node payload.
func CloneData(d NodeData) (NodeData, error) {
	switch v := d.(type) {
	case StrokeData:
		var out StrokeData
		if err := copier.CopyWithOption(&out, &v, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
		return out, nil
	case GroupData:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported node data %T", d)
	}
}
