package graph

import (
	"fmt"
	"math"

	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DrawableTag marks entities that selection and erasure may act on.
const DrawableTag = "Drawable"

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeStroke NodeKind = iota // finished ribbon stroke
	NodeGroup                  // parent of other entities
)

func (k NodeKind) String() string {
	switch k {
	case NodeStroke:
		return "stroke"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Visual is the selection-related render state of an entity.
type Visual int

const (
	VisualDefault           Visual = iota // normal appearance
	VisualSelectedPreview                 // staged for addition during a sweep
	VisualDeselectedPreview               // staged for removal during a sweep
	VisualSelected                        // member of the selection
)

func (v Visual) String() string {
	switch v {
	case VisualDefault:
		return "default"
	case VisualSelectedPreview:
		return "selected-preview"
	case VisualDeselectedPreview:
		return "deselected-preview"
	case VisualSelected:
		return "selected"
	default:
		return fmt.Sprintf("Visual(%d)", int(v))
	}
}

// Color is an RGBA paint color with components in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r" toml:"r"`
	G float64 `json:"g" yaml:"g" toml:"g"`
	B float64 `json:"b" yaml:"b" toml:"b"`
	A float64 `json:"a" yaml:"a" toml:"a"`
}

// White is the default paint color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Hex returns the color as #RRGGBB. Alpha is dropped.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// ParseHex parses #RRGGBB or #RRGGBBAA (the leading # is optional).
func ParseHex(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var r, g, b, a uint8
	a = 255
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("graph: invalid color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("graph: invalid color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("graph: invalid color %q: want 6 or 8 hex digits", s)
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255}, nil
}

// Node is a scene entity.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Tag      string
	Parent   NodeID // zero for entities in the scene frame
	Children []NodeID

	// Transform places the node relative to its parent, without scale.
	Transform sdf.M44
	Scale     float64

	Visual Visual
	Data   NodeData

	// Mesh is the ribbon in the node's local frame. It serves as render
	// surface and collision volume; nil until the stroke is finalized.
	Mesh *kernel.Mesh

	// Destroyed is set once the node has been removed from its graph so
	// that holders of stale pointers can tell.
	Destroyed bool
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData()
}

// StrokeData is the polyline a stroke was built from, in the node's local frame.
type StrokeData struct {
	Points []v3.Vec
	Width  float64
	Color  Color
}

// GroupData is the payload of a group node.
type GroupData struct {
	Description string
}

func (StrokeData) nodeData() {}
func (GroupData) nodeData()  {}

// Stroke returns the node's stroke payload, if it has one.
func (n *Node) Stroke() (StrokeData, bool) {
	sd, ok := n.Data.(StrokeData)
	return sd, ok
}

// HasCollisionVolume reports whether the node carries a usable mesh.
func (n *Node) HasCollisionVolume() bool {
	return n.Mesh != nil && !n.Mesh.IsEmpty()
}
