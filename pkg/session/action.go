package session

import (
	"fmt"

	"github.com/chazu/airsketch/pkg/erase"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/stroke"
	"github.com/chazu/airsketch/pkg/tool"
)

// ActionKind names the tool action bound to the trigger.
type ActionKind int

const (
	ActionDraw ActionKind = iota
	ActionSelect
	ActionErase
)

func (k ActionKind) String() string {
	switch k {
	case ActionDraw:
		return "draw"
	case ActionSelect:
		return "select"
	case ActionErase:
		return "erase"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// ParseAction maps an action name to its kind.
func ParseAction(name string) (ActionKind, error) {
	switch name {
	case "draw":
		return ActionDraw, nil
	case "select":
		return ActionSelect, nil
	case "erase":
		return ActionErase, nil
	}
	return 0, fmt.Errorf("session: unknown action %q", name)
}

// Action is the lifecycle every trigger-driven tool follows. Init runs when
// the action becomes active and Finish when it is replaced.
type Action interface {
	Init()
	TriggerDown()
	TriggerUp()
	Update()
	Finish()
}

type drawAction struct {
	rec     *stroke.Recorder
	tool    tool.PoseProvider
	palette tool.ColorProvider
}

func (a *drawAction) Init() {}

func (a *drawAction) TriggerDown() {
	a.rec.Start(a.tool.Pose(), a.palette.Color())
}

func (a *drawAction) Update() {
	a.rec.Update(a.tool.Pose())
}

func (a *drawAction) TriggerUp() {
	a.rec.End()
}

// Finish keeps a stroke in progress rather than losing it.
func (a *drawAction) Finish() {
	a.rec.End()
}

type selectAction struct {
	ctl *selection.Controller
}

func (a *selectAction) Init() { a.ctl.SetMode(selection.ModeSelecting) }

func (a *selectAction) TriggerDown() { a.ctl.TriggerDown() }
func (a *selectAction) Update()      { a.ctl.Update() }
func (a *selectAction) TriggerUp()   { a.ctl.TriggerUp() }
func (a *selectAction) Finish()      { a.ctl.Finish() }

type eraseAction struct {
	ctl *erase.Controller
}

func (a *eraseAction) Init()        {}
func (a *eraseAction) TriggerDown() { a.ctl.TriggerDown() }
func (a *eraseAction) Update()      { a.ctl.Update() }
func (a *eraseAction) TriggerUp()   { a.ctl.TriggerUp() }
func (a *eraseAction) Finish()      { a.ctl.TriggerUp() }
