// Package erase removes scene entities touched by the tool while the
// trigger is held. Erasure is immediate and cannot be undone.
package erase

import (
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/spatial"
	"github.com/chazu/airsketch/pkg/tool"
)

// State is the eraser state.
type State int

const (
	Idle State = iota
	Erasing
)

func (s State) String() string {
	if s == Erasing {
		return "erasing"
	}
	return "idle"
}

// Controller is the erase gesture.
type Controller struct {
	g     *graph.SceneGraph
	index *spatial.Index
	tool  tool.PoseProvider
	sel   *selection.Context

	state  State
	erased int
}

// NewController returns an idle eraser. sel may be nil; when set, erased
// entities are pruned from it.
func NewController(g *graph.SceneGraph, index *spatial.Index, t tool.PoseProvider, sel *selection.Context) *Controller {
	return &Controller{g: g, index: index, tool: t, sel: sel}
}

// State returns the eraser state.
func (c *Controller) State() State { return c.state }

// Erased returns the number of scene nodes removed by the current or last gesture.
func (c *Controller) Erased() int { return c.erased }

// TriggerDown snapshots the tagged entities and starts erasing.
func (c *Controller) TriggerDown() {
	if c.state == Erasing {
		return
	}
	c.index.Refresh()
	c.erased = 0
	c.state = Erasing
}

// Update destroys every live snapshot entity touching the tool, or its
// parent group when it has one.
func (c *Controller) Update() {
	if c.state != Erasing {
		return
	}
	hits := c.index.Intersecting(c.tool.Volume())
	if len(hits) == 0 {
		return
	}
	for _, hit := range hits {
		// An earlier hit this frame may have taken this one's group with it.
		if !c.g.Alive(hit.ID) {
			continue
		}
		target := c.g.Target(hit)
		n := c.g.Destroy(target.ID)
		c.erased += n
		logging.Logger().Debug("erased", "id", target.ID.Short(), "kind", target.Kind, "nodes", n)
	}
	if c.sel != nil {
		c.sel.Prune()
	}
}

// TriggerUp stops erasing.
func (c *Controller) TriggerUp() {
	if c.state == Erasing && c.erased > 0 {
		logging.Logger().Info("erase gesture finished", "nodes", c.erased)
	}
	c.state = Idle
}
