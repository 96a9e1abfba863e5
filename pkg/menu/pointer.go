package menu

import (
	"github.com/chazu/airsketch/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Pointer highlights the icon under a ray and chooses it on trigger press.
type Pointer struct {
	menu   *Menu
	target Target

	highlighted *Icon
	hit         v3.Vec
}

// NewPointer returns a pointer over m acting on t.
func NewPointer(m *Menu, t Target) *Pointer {
	return &Pointer{menu: m, target: t}
}

// Highlighted returns the icon under the pointer, or nil.
func (p *Pointer) Highlighted() *Icon { return p.highlighted }

// Update moves the pointer ray. Leaving an icon restores its look: the
// selected icon keeps its selected look, others return to default.
func (p *Pointer) Update(r geom.Ray) {
	ic, hit, ok := p.menu.Pick(r)
	if ok && ic == p.highlighted {
		p.hit = hit
		return
	}
	if p.highlighted != nil {
		if p.highlighted == p.menu.Selected() {
			p.highlighted.SetSelectedColor()
		} else {
			p.highlighted.Dehighlight()
		}
		p.highlighted = nil
	}
	if ok {
		p.highlighted, p.hit = ic, hit
		ic.Highlight()
	}
}

// TriggerDown chooses the highlighted icon. It does nothing when the
// pointer is not over an icon.
func (p *Pointer) TriggerDown() error {
	ic := p.highlighted
	if ic == nil {
		return nil
	}
	u, v := FaceUV(ic, p.hit)
	p.highlighted = nil
	return p.menu.Choose(ic, p.target, u, v)
}
