// Package tool models the hand-held tool that drives every gesture: its
// pose, its collision volume at the tip, and the active paint color.
package tool

import (
	"fmt"
	"sync"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
)

// DefaultRadius is the radius of the tip volume.
const DefaultRadius = 0.02

// PoseProvider exposes the tool's coordinate frame and collision volume.
type PoseProvider interface {
	Pose() geom.Pose
	Volume() kernel.Volume
}

// ColorProvider exposes the active paint color.
type ColorProvider interface {
	Color() graph.Color
}

// Tracker is a PoseProvider whose pose is set by the input layer each frame.
// Its collision volume is a kernel sphere placed at the pose.
type Tracker struct {
	mu     sync.RWMutex
	k      kernel.Kernel
	tip    kernel.Solid
	radius float64
	pose   geom.Pose
	placed kernel.Solid
}

// NewTracker builds a tracker with a spherical tip of the given radius.
func NewTracker(k kernel.Kernel, radius float64) (*Tracker, error) {
	tip, err := k.Sphere(radius)
	if err != nil {
		return nil, fmt.Errorf("tool: tip: %w", err)
	}
	t := &Tracker{k: k, tip: tip, radius: radius}
	t.placed = k.Transform(tip, t.pose.Matrix())
	return t, nil
}

// SetPose moves the tool.
func (t *Tracker) SetPose(p geom.Pose) {
	placed := t.k.Transform(t.tip, p.Matrix())
	t.mu.Lock()
	t.pose, t.placed = p, placed
	t.mu.Unlock()
}

// Pose implements PoseProvider.
func (t *Tracker) Pose() geom.Pose {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pose
}

// Volume implements PoseProvider.
func (t *Tracker) Volume() kernel.Volume {
	return t.Solid()
}

// Solid returns the placed tip solid, for display.
func (t *Tracker) Solid() kernel.Solid {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.placed
}

// Radius returns the tip radius.
func (t *Tracker) Radius() float64 { return t.radius }

// Palette is a ColorProvider holding the color picked in the menu.
type Palette struct {
	mu    sync.RWMutex
	color graph.Color
}

// NewPalette returns a palette with c active.
func NewPalette(c graph.Color) *Palette {
	return &Palette{color: c}
}

// Color implements ColorProvider.
func (p *Palette) Color() graph.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.color
}

// SetColor changes the active color.
func (p *Palette) SetColor(c graph.Color) {
	p.mu.Lock()
	p.color = c
	p.mu.Unlock()
}
