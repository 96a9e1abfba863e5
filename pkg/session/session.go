// Package session wires the sketching components into one interactive
// session: a scene, a tool, and the draw, select and erase actions that
// the trigger drives.
package session

import (
	"fmt"
	"sync"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/erase"
	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/spatial"
	"github.com/chazu/airsketch/pkg/stroke"
	"github.com/chazu/airsketch/pkg/tool"
)

// Session is one user's sketching state. All methods are safe for
// concurrent use; input is applied in call order.
type Session struct {
	mu  sync.Mutex
	cfg config.Config

	scene    *graph.SceneGraph
	sel      *selection.Context
	index    *spatial.Index
	tracker  *tool.Tracker
	palette  *tool.Palette
	recorder *stroke.Recorder

	selecting *selection.Controller
	erasing   *erase.Controller

	kind    ActionKind
	actions map[ActionKind]Action
	held    bool
	closed  bool
}

// New builds a session with an empty scene and the draw action active.
func New(cfg config.Config, k kernel.Kernel) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	tracker, err := tool.NewTracker(k, cfg.ToolRadius)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	scene := graph.NewTagged(cfg.Tag)
	sel := selection.NewContext(scene)
	index := spatial.New(scene, scene.Tag())
	s := &Session{
		cfg:      cfg,
		scene:    scene,
		sel:      sel,
		index:    index,
		tracker:  tracker,
		palette:  tool.NewPalette(cfg.DefaultColor),
		recorder: stroke.NewRecorder(scene, stroke.WithThreshold(cfg.TravelThreshold), stroke.WithWidth(cfg.StrokeWidth)),
		selecting: selection.NewController(sel, index, tracker, selection.Options{
			DeselectSourceOnDuplicate: cfg.DeselectSourceOnDuplicate,
			ClearSelectionOnMoveEnd:   cfg.ClearSelectionOnMoveEnd,
		}),
		erasing: erase.NewController(scene, index, tracker, sel),
		kind:    ActionDraw,
	}
	s.actions = map[ActionKind]Action{
		ActionDraw:   &drawAction{rec: s.recorder, tool: tracker, palette: s.palette},
		ActionSelect: &selectAction{ctl: s.selecting},
		ActionErase:  &eraseAction{ctl: s.erasing},
	}
	s.actions[s.kind].Init()
	return s, nil
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config { return s.cfg }

// Scene returns the scene graph. Callers must not mutate it while input is
// being applied from another goroutine.
func (s *Session) Scene() *graph.SceneGraph { return s.scene }

// Selection returns the selection context.
func (s *Session) Selection() *selection.Context { return s.sel }

// Tool returns the tool tracker.
func (s *Session) Tool() *tool.Tracker { return s.tracker }

// Palette returns the active color holder.
func (s *Session) Palette() *tool.Palette { return s.palette }

// Action returns the active action.
func (s *Session) Action() ActionKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Mode returns the selection mode used by the select action.
func (s *Session) Mode() selection.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selecting.Mode()
}

// TriggerHeld reports whether the trigger is down.
func (s *Session) TriggerHeld() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// SetAction makes kind the active action. The previous action is finished;
// leaving the select action clears the selection.
func (s *Session) SetAction(kind ActionKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAction(kind)
}

func (s *Session) setAction(kind ActionKind) error {
	next, ok := s.actions[kind]
	if !ok {
		return fmt.Errorf("session: unknown action %v", kind)
	}
	if kind == s.kind {
		return nil
	}
	prev := s.kind
	s.actions[prev].Finish()
	s.held = false
	if prev == ActionSelect {
		if err := s.sel.Clear(); err != nil {
			return fmt.Errorf("session: leaving select: %w", err)
		}
	}
	s.kind = kind
	next.Init()
	logging.Logger().Info("action changed", "from", prev, "to", kind)
	return nil
}

// SetMode activates the select action in mode m.
func (s *Session) SetMode(m selection.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setAction(ActionSelect); err != nil {
		return err
	}
	s.selecting.SetMode(m)
	return nil
}

// SetPose moves the tool. The change takes effect at the next Frame or
// trigger edge.
func (s *Session) SetPose(p geom.Pose) {
	s.tracker.SetPose(p)
}

// SetColor changes the paint color of new strokes.
func (s *Session) SetColor(c graph.Color) {
	s.palette.SetColor(c)
}

// SetWidth changes the width of new strokes.
func (s *Session) SetWidth(w float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder.SetWidth(w)
}

// TriggerDown presses the trigger. Repeated presses are ignored.
func (s *Session) TriggerDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held || s.closed {
		return
	}
	s.held = true
	s.actions[s.kind].TriggerDown()
}

// TriggerUp releases the trigger.
func (s *Session) TriggerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.held {
		return
	}
	s.held = false
	s.actions[s.kind].TriggerUp()
}

// Frame advances the active action by one frame at the current tool pose.
func (s *Session) Frame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.actions[s.kind].Update()
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clear()
}

// Recolor paints the selection and clears it.
func (s *Session) Recolor(c graph.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Recolor(c)
}

// Rescale sets the uniform scale of every selected entity.
func (s *Session) Rescale(factor float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Rescale(factor)
}

// DeleteSelection destroys the selected entities and returns how many
// scene nodes were removed.
func (s *Session) DeleteSelection() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Delete()
}

// Duplicate copies the selection in place.
func (s *Session) Duplicate() ([]graph.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Duplicate(s.cfg.DeselectSourceOnDuplicate)
}

// GroupSelection parents the selected entities under a new group, which
// becomes the only selected entity.
func (s *Session) GroupSelection(name string) (graph.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Group(name)
}

// Close finishes the active action and clears the selection. Input after
// Close is ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.actions[s.kind].Finish()
	s.held = false
	s.closed = true
	return s.sel.Clear()
}
