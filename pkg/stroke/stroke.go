// Package stroke records tool motion into polylines and finalizes them as
// ribbon entities in the scene graph.
package stroke

import (
	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/tessellate"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// DefaultThreshold is the minimum tool travel between retained samples.
	DefaultThreshold = 0.005
	// DefaultWidth is the ribbon width of new strokes.
	DefaultWidth = 0.01
)

// State is the recorder state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Recorder turns a trigger-held tool path into a stroke entity.
type Recorder struct {
	g         *graph.SceneGraph
	threshold float64
	width     float64

	state   State
	draft   *graph.Node
	points  []v3.Vec
	last    v3.Vec
	inverse sdf.M44
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithThreshold sets the travel threshold between samples.
func WithThreshold(d float64) Option {
	return func(r *Recorder) { r.threshold = d }
}

// WithWidth sets the width used for new strokes.
func WithWidth(w float64) Option {
	return func(r *Recorder) { r.width = w }
}

// NewRecorder returns an idle recorder adding strokes to g.
func NewRecorder(g *graph.SceneGraph, opts ...Option) *Recorder {
	r := &Recorder{
		g:         g,
		threshold: DefaultThreshold,
		width:     DefaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current recorder state.
func (r *Recorder) State() State { return r.state }

// Width returns the width the next stroke will get.
func (r *Recorder) Width() float64 { return r.width }

// SetWidth changes the width of strokes started from now on.
func (r *Recorder) SetWidth(w float64) {
	if w > 0 {
		r.width = w
	}
}

// Draft returns the stroke being drawn, or nil when idle.
func (r *Recorder) Draft() *graph.Node { return r.draft }

// Start begins a stroke at the tool pose. It reports false when a stroke is
// already in progress.
func (r *Recorder) Start(pose geom.Pose, c graph.Color) bool {
	if r.state != Idle {
		return false
	}
	draft := graph.NewStroke(sdf.Translate3d(pose.Position), r.width, c)
	// The draft has no tag and no mesh until End so sweeps never see it.
	draft.Tag = ""
	r.g.AddNode(draft)

	r.draft = draft
	r.inverse = r.g.WorldMatrix(draft).Inverse()
	r.points = []v3.Vec{r.inverse.MulPosition(pose.Position)}
	r.last = pose.Position
	r.state = Drawing
	r.syncDraft()
	return true
}

// Update samples the tool position when it has moved further than the
// travel threshold since the last retained sample.
func (r *Recorder) Update(pose geom.Pose) {
	if r.state != Drawing {
		return
	}
	if pose.Position.Sub(r.last).Length() <= r.threshold {
		return
	}
	r.points = append(r.points, r.inverse.MulPosition(pose.Position))
	r.last = pose.Position
	r.syncDraft()
}

// End finishes the stroke. Strokes with fewer than two samples are dropped
// along with their draft entity; ok is false in that case.
func (r *Recorder) End() (n *graph.Node, ok bool) {
	if r.state != Drawing {
		return nil, false
	}
	draft, points := r.draft, r.points
	r.state, r.draft, r.points = Idle, nil, nil

	sd, _ := draft.Stroke()
	if len(points) < 2 {
		logging.Logger().Warn("stroke dropped", "id", draft.ID.Short(), "samples", len(points))
		r.g.Destroy(draft.ID)
		return nil, false
	}
	mesh, err := tessellate.Ribbon(points, sd.Width)
	if err != nil {
		logging.Logger().Warn("stroke dropped", "id", draft.ID.Short(), "err", err)
		r.g.Destroy(draft.ID)
		return nil, false
	}
	mesh.PartName = draft.ID.Short()
	draft.Mesh = mesh
	draft.Tag = r.g.Tag()
	logging.Logger().Info("stroke finalized", "id", draft.ID.Short(), "samples", len(points), "width", sd.Width)
	return draft, true
}

// Cancel drops any stroke in progress.
func (r *Recorder) Cancel() {
	if r.state != Drawing {
		return
	}
	r.g.Destroy(r.draft.ID)
	r.state, r.draft, r.points = Idle, nil, nil
}

func (r *Recorder) syncDraft() {
	sd, _ := r.draft.Stroke()
	sd.Points = r.points
	r.draft.Data = sd
}
