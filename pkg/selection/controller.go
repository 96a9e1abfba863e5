package selection

import (
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/spatial"
	"github.com/chazu/airsketch/pkg/tool"
)

// Mode decides what a trigger press does. It is set by the menu.
type Mode int

const (
	ModeSelecting Mode = iota
	ModeCopying
	ModeMoving
)

func (m Mode) String() string {
	switch m {
	case ModeSelecting:
		return "selecting"
	case ModeCopying:
		return "copying"
	case ModeMoving:
		return "moving"
	default:
		return "unknown"
	}
}

// GestureState tracks the gesture in progress.
type GestureState int

const (
	Standby GestureState = iota
	Sweeping
	Moving
)

func (s GestureState) String() string {
	switch s {
	case Standby:
		return "standby"
	case Sweeping:
		return "sweeping"
	case Moving:
		return "moving"
	default:
		return "unknown"
	}
}

// Options tune the controller.
type Options struct {
	// DeselectSourceOnDuplicate makes copies replace the selection and
	// resets the sources to the default visual. Otherwise the sources stay
	// selected. Copy mode carries the copies in both cases.
	DeselectSourceOnDuplicate bool
	// ClearSelectionOnMoveEnd clears the selection when a move or copy ends.
	ClearSelectionOnMoveEnd bool
}

// DefaultOptions returns the default controller options.
func DefaultOptions() Options {
	return Options{
		DeselectSourceOnDuplicate: true,
		ClearSelectionOnMoveEnd:   false,
	}
}

// Controller drives selection gestures.
type Controller struct {
	sel   *Context
	index *spatial.Index
	tool  tool.PoseProvider
	opts  Options

	mode  Mode
	state GestureState

	// Staging sets of the open sweep, in staging order.
	toAdd    []*graph.Node
	toRemove []*graph.Node
	staged   map[graph.NodeID]bool
}

// NewController returns a controller in ModeSelecting and Standby.
func NewController(sel *Context, index *spatial.Index, t tool.PoseProvider, opts Options) *Controller {
	return &Controller{
		sel:   sel,
		index: index,
		tool:  t,
		opts:  opts,
	}
}

// Mode returns the current tool mode.
func (c *Controller) Mode() Mode { return c.mode }

// SetMode changes what the next trigger press does.
func (c *Controller) SetMode(m Mode) { c.mode = m }

// State returns the gesture state.
func (c *Controller) State() GestureState { return c.state }

// Staged returns the IDs staged for addition and removal in the open sweep.
func (c *Controller) Staged() (add, remove []graph.NodeID) {
	for _, n := range c.toAdd {
		add = append(add, n.ID)
	}
	for _, n := range c.toRemove {
		remove = append(remove, n.ID)
	}
	return add, remove
}

// TriggerDown starts a gesture according to the mode. A press during a
// gesture is ignored.
func (c *Controller) TriggerDown() {
	if c.state != Standby {
		return
	}
	switch c.mode {
	case ModeSelecting:
		c.index.Refresh()
		c.toAdd, c.toRemove = nil, nil
		c.staged = make(map[graph.NodeID]bool)
		c.sel.BeginSweep()
		c.state = Sweeping
	case ModeCopying:
		// the copies follow the tool whichever set stays selected
		dups, err := c.sel.Duplicate(c.opts.DeselectSourceOnDuplicate)
		if err != nil {
			logging.Logger().Warn("selection: duplicate failed", "err", err)
		}
		c.sel.AttachNodes(c.tool.Pose().Matrix(), dups)
		c.state = Moving
	case ModeMoving:
		c.startMove()
	default:
		c.mode = ModeSelecting
	}
}

func (c *Controller) startMove() {
	c.sel.Attach(c.tool.Pose().Matrix())
	c.state = Moving
}

// Update runs one frame. While sweeping, every entity touching the tool is
// staged once per gesture: for removal if it was selected, else for addition.
// While moving, attached members are carried to the tool pose.
func (c *Controller) Update() {
	switch c.state {
	case Sweeping:
		for _, hit := range c.index.Intersecting(c.tool.Volume()) {
			target := c.sel.Graph().Target(hit)
			if c.staged[target.ID] {
				continue
			}
			c.staged[target.ID] = true
			if c.sel.Contains(target.ID) {
				target.Visual = graph.VisualDeselectedPreview
				c.toRemove = append(c.toRemove, target)
			} else {
				target.Visual = graph.VisualSelectedPreview
				c.toAdd = append(c.toAdd, target)
			}
			logging.Logger().Debug("selection staged", "id", target.ID.Short(), "visual", target.Visual)
		}
	case Moving:
		c.sel.Follow(c.tool.Pose().Matrix())
	}
}

// TriggerUp ends the gesture: a sweep is committed, a move is detached.
// The mode returns to ModeSelecting either way.
func (c *Controller) TriggerUp() {
	switch c.state {
	case Sweeping:
		c.sel.Commit(c.toAdd, c.toRemove)
		c.toAdd, c.toRemove, c.staged = nil, nil, nil
	case Moving:
		c.sel.Follow(c.tool.Pose().Matrix())
		c.sel.Detach()
		if c.opts.ClearSelectionOnMoveEnd {
			if err := c.sel.Clear(); err != nil {
				logging.Logger().Warn("selection: clear after move failed", "err", err)
			}
		}
	default:
		return
	}
	c.mode = ModeSelecting
	c.state = Standby
}

// Finish ends any open gesture as if the trigger were released.
func (c *Controller) Finish() {
	c.TriggerUp()
}
