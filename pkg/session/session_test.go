package session

import (
	"testing"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel/sdfx"
	"github.com/chazu/airsketch/pkg/selection"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(config.Default(), sdfx.New())
	require.NoError(t, err)
	return s
}

func at(s *Session, x, y, z float64) {
	s.SetPose(geom.At(v3.Vec{X: x, Y: y, Z: z}))
}

// drawLine draws a three-sample stroke from z0 along +Z.
func drawLine(t *testing.T, s *Session, x, z0 float64) *graph.Node {
	t.Helper()
	before := len(s.Scene().Strokes())
	at(s, x, 0, z0)
	s.TriggerDown()
	at(s, x, 0, z0+0.01)
	s.Frame()
	at(s, x, 0, z0+0.02)
	s.Frame()
	s.TriggerUp()
	strokes := s.Scene().Strokes()
	require.Len(t, strokes, before+1)
	for _, n := range strokes {
		if n.Mesh != nil && geom.Near(geom.Translation(n.Transform), v3.Vec{X: x, Z: z0}, 1e-9) {
			return n
		}
	}
	t.Fatal("drawn stroke not found")
	return nil
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.StrokeWidth = 0
	_, err := New(cfg, sdfx.New())
	assert.Error(t, err)
}

func TestDrawStroke(t *testing.T) {
	s := newSession(t)
	red := graph.Color{R: 1, A: 1}
	s.SetColor(red)
	assert.Equal(t, ActionDraw, s.Action())

	n := drawLine(t, s, 0, 0)
	assert.Equal(t, graph.DrawableTag, n.Tag)
	assert.Equal(t, 6, n.Mesh.VertexCount())
	assert.Len(t, n.Mesh.Indices, 12)
	sd, ok := n.Stroke()
	require.True(t, ok)
	assert.Equal(t, red, sd.Color)
	assert.Equal(t, 0.01, sd.Width)
	assert.False(t, s.TriggerHeld())
}

func TestTapDropsStroke(t *testing.T) {
	s := newSession(t)
	at(s, 0, 0, 0)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()
	assert.Zero(t, s.Scene().NodeCount())
}

func TestSelectMoveAndLeave(t *testing.T) {
	s := newSession(t)
	n := drawLine(t, s, 0, 0)

	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()
	require.True(t, s.Selection().Contains(n.ID))
	assert.Equal(t, graph.VisualSelected, n.Visual)

	require.NoError(t, s.SetMode(selection.ModeMoving))
	s.TriggerDown()
	at(s, 1, 0, 0.01)
	s.Frame()
	s.TriggerUp()
	assert.True(t, geom.Near(geom.Translation(s.Scene().WorldMatrix(n)), v3.Vec{X: 1}, 1e-9))
	assert.Equal(t, selection.ModeSelecting, s.Mode())
	assert.True(t, s.Selection().Contains(n.ID))

	// leaving the select action drops the selection
	require.NoError(t, s.SetAction(ActionDraw))
	assert.Zero(t, s.Selection().Len())
	assert.Equal(t, graph.VisualDefault, n.Visual)
}

func TestCopyMode(t *testing.T) {
	s := newSession(t)
	src := drawLine(t, s, 0, 0)

	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()

	require.NoError(t, s.SetMode(selection.ModeCopying))
	s.TriggerDown()
	at(s, 0, 1, 0.01)
	s.Frame()
	s.TriggerUp()

	require.Len(t, s.Scene().Strokes(), 2)
	assert.True(t, geom.Near(geom.Translation(s.Scene().WorldMatrix(src)), v3.Vec{}, 1e-9))
	ids := s.Selection().IDs()
	require.Len(t, ids, 1)
	assert.NotEqual(t, src.ID, ids[0])
	dup := s.Scene().Get(ids[0])
	assert.True(t, geom.Near(geom.Translation(s.Scene().WorldMatrix(dup)), v3.Vec{Y: 1}, 1e-9))
}

func TestErase(t *testing.T) {
	s := newSession(t)
	drawLine(t, s, 0, 0)
	keep := drawLine(t, s, 1, 0)

	require.NoError(t, s.SetAction(ActionErase))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()

	strokes := s.Scene().Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, keep.ID, strokes[0].ID)
}

func TestConfiguredTag(t *testing.T) {
	cfg := config.Default()
	cfg.Tag = "Paint"
	s, err := New(cfg, sdfx.New())
	require.NoError(t, err)
	n := drawLine(t, s, 0, 0)
	drawLine(t, s, 1, 0)
	assert.Equal(t, "Paint", n.Tag)

	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()
	require.Equal(t, 1, s.Selection().Len())
	assert.True(t, s.Selection().Contains(n.ID))

	gid, err := s.GroupSelection("paint")
	require.NoError(t, err)
	assert.Equal(t, "Paint", s.Scene().Get(gid).Tag)

	require.NoError(t, s.SetAction(ActionErase))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()
	assert.Len(t, s.Scene().Strokes(), 1)
	assert.Nil(t, s.Scene().Get(n.ID))
}

func TestSwitchActionFinishesStroke(t *testing.T) {
	s := newSession(t)
	at(s, 0, 0, 0)
	s.TriggerDown()
	at(s, 0, 0, 0.01)
	s.Frame()
	require.NoError(t, s.SetAction(ActionErase))
	assert.False(t, s.TriggerHeld())
	require.Len(t, s.Scene().Strokes(), 1)
	assert.Equal(t, graph.DrawableTag, s.Scene().Strokes()[0].Tag)
}

func TestSelectionOperations(t *testing.T) {
	s := newSession(t)
	a := drawLine(t, s, 0, 0)
	b := drawLine(t, s, 0.02, 0)

	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0.01, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()
	require.Equal(t, 2, s.Selection().Len())

	require.NoError(t, s.Rescale(2))
	assert.Equal(t, 2.0, a.Scale)
	assert.Equal(t, 2.0, b.Scale)

	gid, err := s.GroupSelection("pair")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{gid}, s.Selection().IDs())
	assert.Equal(t, gid, a.Parent)

	dups, err := s.Duplicate()
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Len(t, s.Scene().Strokes(), 4)

	removed, err := s.DeleteSelection()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Len(t, s.Scene().Strokes(), 2)
}

func TestRecolorClearsSelection(t *testing.T) {
	s := newSession(t)
	n := drawLine(t, s, 0, 0)
	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()
	s.TriggerUp()

	blue := graph.Color{B: 1, A: 1}
	require.NoError(t, s.Recolor(blue))
	sd, _ := n.Stroke()
	assert.Equal(t, blue, sd.Color)
	assert.Zero(t, s.Selection().Len())
}

func TestMutationDuringSweep(t *testing.T) {
	s := newSession(t)
	drawLine(t, s, 0, 0)
	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	assert.ErrorIs(t, s.ClearSelection(), selection.ErrSweepActive)
	s.TriggerUp()
	assert.NoError(t, s.ClearSelection())
}

func TestClose(t *testing.T) {
	s := newSession(t)
	n := drawLine(t, s, 0, 0)
	require.NoError(t, s.SetAction(ActionSelect))
	at(s, 0, 0, 0.01)
	s.TriggerDown()
	s.Frame()

	require.NoError(t, s.Close())
	assert.Zero(t, s.Selection().Len())
	assert.Equal(t, graph.VisualDefault, n.Visual)

	s.TriggerDown()
	assert.False(t, s.TriggerHeld())
	assert.NoError(t, s.Close())
}

func TestParseAction(t *testing.T) {
	for _, k := range []ActionKind{ActionDraw, ActionSelect, ActionErase} {
		got, err := ParseAction(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseAction("paint")
	assert.Error(t, err)
	assert.Error(t, newSession(t).SetAction(ActionKind(42)))
}
