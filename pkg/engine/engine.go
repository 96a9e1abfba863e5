// Package engine runs gesture scripts for airsketch. It wraps zygomys in a
// sandboxed environment and replays the script's tool input against a
// fresh sketching session.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/kernel"
	"github.com/chazu/airsketch/pkg/kernel/sdfx"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/menu"
	"github.com/chazu/airsketch/pkg/session"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal finding about a script's outcome.
type EvalWarning struct {
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Session  *session.Session
	Errors   []EvalError
	Warnings []EvalWarning
}

// MenuOrigin is where scripts find the tool menu panel.
var MenuOrigin = v3.Vec{X: -1, Y: 1.5, Z: 0.5}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandbox and session for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	cfg    config.Config
	kernel kernel.Kernel
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the configuration of the sessions scripts run in.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithKernel sets the kernel used for tool volumes.
func WithKernel(k kernel.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// NewEngine creates an Engine with the default config and the sdfx kernel.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cfg: config.Default(), kernel: sdfx.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the limit for a single evaluation.
func (e *Engine) Timeout() time.Duration { return e.cfg.Timeout() }

// Evaluate runs source against a new session and returns it.
//
// Return semantics:
//   - On success: returns session + nil errors + nil error
//   - On parse/eval failure: returns nil session + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*session.Session, []EvalError, error) {
	res, err := e.run(source)
	if err != nil {
		return nil, nil, err
	}
	return res.session, res.errors, nil
}

// EvaluateResult is Evaluate plus warnings about the resulting scene.
func (e *Engine) EvaluateResult(source string) (EvalResult, error) {
	res, err := e.run(source)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{Session: res.session, Errors: res.errors, Warnings: res.warnings}, nil
}

func (e *Engine) run(source string) (evalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		ch <- e.evaluate(source)
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.Timeout())
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) evalResult {
	s, err := session.New(e.cfg, e.kernel)
	if err != nil {
		return evalResult{err: err}
	}

	// Empty source is a valid script that leaves the scene empty.
	if strings.TrimSpace(source) == "" {
		return evalResult{session: s}
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s, menu.Default(MenuOrigin))

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}
	if _, err := env.Run(); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}

	var warnings []EvalWarning
	if s.TriggerHeld() {
		s.TriggerUp()
		warnings = append(warnings, EvalWarning{Message: "trigger still held at end of script; released"})
	}
	for _, f := range graph.Validate(s.Scene()) {
		warnings = append(warnings, EvalWarning{Message: f.Message, NodeID: f.NodeID})
	}
	logging.Logger().Info("script evaluated",
		"nodes", s.Scene().NodeCount(), "selected", s.Selection().Len(), "warnings", len(warnings))
	return evalResult{session: s, warnings: warnings}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
