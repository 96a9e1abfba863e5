package main

import (
	"context"

	"github.com/chazu/airsketch/pkg/engine"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/chazu/airsketch/pkg/kernel/sdfx"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/session"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// Positions and normals are in world space.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	EntityID string    `json:"entityId"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Visual   string    `json:"visual"`
	Selected bool      `json:"selected"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Tool     *MeshData       `json:"tool"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Action   string          `json:"action"`
	Mode     string          `json:"mode"`
	Color    string          `json:"color"`
}

// NewApp creates a new App with the sdfx kernel. Options are passed to
// the engine.
func NewApp(opts ...engine.Option) *App {
	k := sdfx.New()
	return &App{
		engine: engine.NewEngine(append([]engine.Option{engine.WithKernel(k)}, opts...)...),
		kernel: k,
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate replays a gesture script and returns the resulting sketch.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logging.Logger().Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	a.collect(&result, res.Session)
	return result
}

// collect fills result with the session's strokes and tool state.
func (a *App) collect(result *EvalResult, s *session.Session) {
	g := s.Scene()
	for _, n := range g.Strokes() {
		if !n.HasCollisionVolume() {
			continue
		}
		m := n.Mesh.Transformed(g.WorldMatrix(n))
		sd, _ := n.Stroke()
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			EntityID: n.ID.String(),
			Name:     n.Name,
			Color:    sd.Color.Hex(),
			Visual:   n.Visual.String(),
			Selected: s.Selection().Contains(g.Target(n).ID),
		})
	}
	if tip, err := a.kernel.ToMesh(s.Tool().Solid(), sdfx.DefaultMeshCells); err != nil {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: "tool preview: " + err.Error()})
	} else {
		result.Tool = &MeshData{
			Vertices: tip.Vertices,
			Normals:  tip.Normals,
			Indices:  tip.Indices,
			Name:     "tool",
			Color:    s.Palette().Color().Hex(),
		}
	}
	result.Action = s.Action().String()
	result.Mode = s.Mode().String()
	result.Color = s.Palette().Color().Hex()
}
