// Package menu implements the in-scene tool menu: a panel of icons picked
// with a pointer ray. Selecting an icon changes the session's action,
// selection mode or paint color.
package menu

import (
	"fmt"
	"math"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/session"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Menu is an ordered set of icons with at most one selected icon.
type Menu struct {
	icons    []*Icon
	selected *Icon
}

// New returns a menu holding icons in order.
func New(icons ...*Icon) *Menu {
	return &Menu{icons: icons}
}

// Icons returns the icons in order.
func (m *Menu) Icons() []*Icon { return m.icons }

// Selected returns the selected icon, or nil.
func (m *Menu) Selected() *Icon { return m.selected }

// Find returns the icon with the given name.
func (m *Menu) Find(name string) (*Icon, bool) {
	for _, ic := range m.icons {
		if ic.Name == name {
			return ic, true
		}
	}
	return nil, false
}

// Pick returns the nearest icon hit by r along with the hit point.
func (m *Menu) Pick(r geom.Ray) (*Icon, v3.Vec, bool) {
	var best *Icon
	bestT := math.Inf(1)
	for _, ic := range m.icons {
		if t, ok := r.HitBox(ic.Bounds); ok && t < bestT {
			best, bestT = ic, t
		}
	}
	if best == nil {
		return nil, v3.Vec{}, false
	}
	return best, r.At(bestT), true
}

// Choose selects ic on t at face coordinates (u, v). The previously selected
// icon loses its selected look; palettes only sample a color and never
// become the selected icon. Choosing anything but an object-selecting
// icon clears the selection.
func (m *Menu) Choose(ic *Icon, t Target, u, v float64) error {
	if ic.Kind != IconPalette {
		if m.selected != nil && m.selected != ic {
			m.selected.Dehighlight()
		}
		m.selected = ic
	}
	if err := ic.Select(t, u, v); err != nil {
		return fmt.Errorf("menu: %s: %w", ic.Name, err)
	}
	if ic.Kind != IconObjectSelecting {
		if err := t.ClearSelection(); err != nil {
			return fmt.Errorf("menu: %s: %w", ic.Name, err)
		}
	}
	logging.Logger().Info("menu icon chosen", "icon", ic.Name, "kind", ic.Kind)
	return nil
}

// Press chooses the icon named name at the centre of its face.
func (m *Menu) Press(name string, t Target) error {
	ic, ok := m.Find(name)
	if !ok {
		return fmt.Errorf("menu: no icon %q", name)
	}
	return m.Choose(ic, t, 0.5, 0.5)
}

// FaceUV maps a point on ic to coordinates in [0, 1] across the icon's X
// and Y extent.
func FaceUV(ic *Icon, p v3.Vec) (u, v float64) {
	size := ic.Bounds.Max.Sub(ic.Bounds.Min)
	if size.X > 0 {
		u = (p.X - ic.Bounds.Min.X) / size.X
	}
	if size.Y > 0 {
		v = (p.Y - ic.Bounds.Min.Y) / size.Y
	}
	return clamp01(u), clamp01(v)
}

// GridSize returns the rows and columns needed for n icons, growing rows
// and columns alternately so the grid stays close to square.
func GridSize(n int) (rows, cols int) {
	for rows*cols < n {
		rows++
		if rows*cols >= n {
			break
		}
		cols++
	}
	return rows, cols
}

// Layout places icons on a panel in the XY plane whose top-left corner is
// origin. Cells are cell wide and tall; margin is the fraction of each cell
// left empty. Icons are depth thick along Z.
func Layout(origin v3.Vec, cell, margin, depth float64, icons []*Icon) {
	_, cols := GridSize(len(icons))
	if cols == 0 {
		return
	}
	inner := cell * (1 - margin)
	pad := (cell - inner) / 2
	for i, ic := range icons {
		row, col := i/cols, i%cols
		corner := v3.Vec{
			X: origin.X + float64(col)*cell + pad,
			Y: origin.Y - float64(row+1)*cell + pad,
			Z: origin.Z,
		}
		ic.Bounds = sdf.Box3{Min: corner, Max: corner.Add(v3.Vec{X: inner, Y: inner, Z: depth})}
	}
}

// Default returns the standard tool menu: draw, erase, select, copy and
// move, three fixed colors and a hue palette, laid out facing -Z at origin.
func Default(origin v3.Vec) *Menu {
	icons := []*Icon{
		{Name: "draw", Kind: IconTool, Action: session.ActionDraw},
		{Name: "erase", Kind: IconTool, Action: session.ActionErase},
		{Name: "select", Kind: IconObjectSelecting, Mode: selection.ModeSelecting},
		{Name: "copy", Kind: IconObjectSelecting, Mode: selection.ModeCopying},
		{Name: "move", Kind: IconObjectSelecting, Mode: selection.ModeMoving},
		{Name: "white", Kind: IconColor, Color: graph.White},
		{Name: "red", Kind: IconColor, Color: graph.Color{R: 1, A: 1}},
		{Name: "blue", Kind: IconColor, Color: graph.Color{B: 1, A: 1}},
		{Name: "palette", Kind: IconPalette, Sample: Hues},
	}
	Layout(origin, 0.1, 0.2, 0.01, icons)
	return New(icons...)
}
