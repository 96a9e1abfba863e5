package menu

import (
	"fmt"
	"math"

	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/session"
	"github.com/deadsy/sdfx/sdf"
)

// IconKind is the closed set of icon behaviours.
type IconKind int

const (
	IconTool            IconKind = iota // activates an action
	IconColor                           // sets a fixed paint color
	IconPalette                         // samples the paint color at the hit point
	IconObjectSelecting                 // activates the select action in a mode
)

func (k IconKind) String() string {
	switch k {
	case IconTool:
		return "tool"
	case IconColor:
		return "color"
	case IconPalette:
		return "palette"
	case IconObjectSelecting:
		return "object-selecting"
	default:
		return fmt.Sprintf("IconKind(%d)", int(k))
	}
}

// Look is the render state of an icon.
type Look int

const (
	LookDefault Look = iota
	LookHighlighted
	LookSelected
)

func (l Look) String() string {
	switch l {
	case LookHighlighted:
		return "highlighted"
	case LookSelected:
		return "selected"
	default:
		return "default"
	}
}

// Target receives the effects of selected icons.
type Target interface {
	SetAction(session.ActionKind) error
	SetMode(selection.Mode) error
	SetColor(graph.Color)
	ClearSelection() error
}

// Control is what the pointer can do to an icon.
type Control interface {
	Select(t Target, u, v float64) error
	Highlight()
	Dehighlight()
	SetSelectedColor()
}

// Sampler maps a point on a palette face, with u and v in [0, 1], to a color.
type Sampler func(u, v float64) graph.Color

// Icon is a pickable box on a menu panel.
type Icon struct {
	Name   string
	Kind   IconKind
	Bounds sdf.Box3

	Action session.ActionKind // IconTool
	Mode   selection.Mode     // IconObjectSelecting
	Color  graph.Color        // IconColor
	Sample Sampler            // IconPalette

	Look Look
}

// Select applies the icon to t. u and v locate the hit on the icon face and
// only matter for palettes.
func (ic *Icon) Select(t Target, u, v float64) error {
	switch ic.Kind {
	case IconTool:
		ic.Look = LookSelected
		return t.SetAction(ic.Action)
	case IconColor:
		ic.Look = LookSelected
		t.SetColor(ic.Color)
		return nil
	case IconPalette:
		sample := ic.Sample
		if sample == nil {
			sample = Hues
		}
		t.SetColor(sample(clamp01(u), clamp01(v)))
		return nil
	case IconObjectSelecting:
		ic.Look = LookSelected
		return t.SetMode(ic.Mode)
	default:
		return fmt.Errorf("menu: icon %q has unknown kind %v", ic.Name, ic.Kind)
	}
}

// Highlight marks the icon as pointed at. Palettes never change look.
func (ic *Icon) Highlight() {
	if ic.Kind != IconPalette {
		ic.Look = LookHighlighted
	}
}

// Dehighlight restores the default look.
func (ic *Icon) Dehighlight() {
	if ic.Kind != IconPalette {
		ic.Look = LookDefault
	}
}

// SetSelectedColor restores the selected look after the pointer leaves.
func (ic *Icon) SetSelectedColor() {
	if ic.Kind != IconPalette {
		ic.Look = LookSelected
	}
}

// Hues is the default palette: hue runs along u and brightness along v at
// full saturation.
func Hues(u, v float64) graph.Color {
	h := math.Mod(u*360, 360) / 60
	c := v
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = c, x
	case 1:
		r, g = x, c
	case 2:
		g, b = c, x
	case 3:
		g, b = x, c
	case 4:
		r, b = x, c
	default:
		r, b = c, x
	}
	return graph.Color{R: r, G: g, B: b, A: 1}
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
