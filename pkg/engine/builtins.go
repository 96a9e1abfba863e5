package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/airsketch/pkg/geom"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/menu"
	"github.com/chazu/airsketch/pkg/selection"
	"github.com/chazu/airsketch/pkg/session"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms gesture script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     so (tool :erase) needs no keyword symbols registered as globals.
//
//  2. Kebab-case to underscore: trigger-down -> trigger_down
//     zygomys reads a hyphen between letters as subtraction.
//
//  3. ; line comments become // comments.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is kebab-case.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_erase) and plain strings ("erase").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toFloats extracts every argument as a number.
func toFloats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toVec reads three numbers.
func toVec(args []zygo.Sexp) (v3.Vec, error) {
	if len(args) != 3 {
		return v3.Vec{}, fmt.Errorf("expected x y z, got %d arguments", len(args))
	}
	f, err := toFloats(args)
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}

// toColor accepts a hex string, or three or four numbers in [0, 1].
func toColor(args []zygo.Sexp) (graph.Color, error) {
	switch len(args) {
	case 1:
		s, err := toString(args[0])
		if err != nil {
			return graph.Color{}, err
		}
		return graph.ParseHex(s)
	case 3, 4:
		f, err := toFloats(args)
		if err != nil {
			return graph.Color{}, err
		}
		c := graph.Color{R: f[0], G: f[1], B: f[2], A: 1}
		if len(f) == 4 {
			c.A = f[3]
		}
		return c, nil
	}
	return graph.Color{}, fmt.Errorf("expected \"#RRGGBB\" or r g b [a], got %d arguments", len(args))
}

// toMode converts a keyword or string to a selection mode.
func toMode(s zygo.Sexp) (selection.Mode, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	switch name {
	case "selecting", "select":
		return selection.ModeSelecting, nil
	case "copying", "copy":
		return selection.ModeCopying, nil
	case "moving", "move":
		return selection.ModeMoving, nil
	}
	return 0, fmt.Errorf("invalid mode %q, expected selecting, copying or moving", name)
}

func sexpInt(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the gesture builtins into a zygomys environment.
// Every builtin drives s in call order, the way live tool input would.
//
// Source code must be preprocessed with preprocessSource() so that
// :keyword tokens and kebab-case names match the registered forms.
func registerBuiltins(env *zygo.Zlisp, s *session.Session, m *menu.Menu) {
	add := func(name string, fn builtin) {
		lispName := strings.ReplaceAll(name, "-", "_")
		env.AddFunction(lispName, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return out, nil
		})
	}

	// moveTo places the tool at p, keeping its rotation, and runs one frame.
	moveTo := func(p v3.Vec) {
		pose := s.Tool().Pose()
		pose.Position = p
		s.SetPose(pose)
		s.Frame()
	}

	// (tool :draw) (tool :select) (tool :erase)
	add("tool", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one action name")
		}
		name, err := toKeywordString(args[0])
		if err != nil {
			return nil, err
		}
		kind, err := session.ParseAction(name)
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, s.SetAction(kind)
	})

	// (mode :moving) activates the select action in the given mode.
	add("mode", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one mode name")
		}
		mode, err := toMode(args[0])
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, s.SetMode(mode)
	})

	// (color "#FF8800") or (color 1 0.5 0)
	add("color", func(args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := toColor(args)
		if err != nil {
			return nil, err
		}
		s.SetColor(c)
		return zygo.SexpNull, nil
	})

	// (width 0.02)
	add("width", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one width")
		}
		w, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		if w <= 0 {
			return nil, fmt.Errorf("width must be positive, got %g", w)
		}
		s.SetWidth(w)
		return zygo.SexpNull, nil
	})

	// (pose x y z) or (pose x y z rx ry rz) with rotations in degrees.
	// The pose takes effect at the next frame or trigger edge.
	add("pose", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 6 {
			return nil, fmt.Errorf("expected x y z [rx ry rz], got %d arguments", len(args))
		}
		f, err := toFloats(args)
		if err != nil {
			return nil, err
		}
		p := geom.Pose{Position: v3.Vec{X: f[0], Y: f[1], Z: f[2]}}
		if len(f) == 6 {
			p.Rotation = v3.Vec{X: f[3], Y: f[4], Z: f[5]}
		}
		s.SetPose(p)
		return zygo.SexpNull, nil
	})

	// (move-to x y z) moves the tool keeping its rotation and runs a frame.
	add("move-to", func(args []zygo.Sexp) (zygo.Sexp, error) {
		p, err := toVec(args)
		if err != nil {
			return nil, err
		}
		moveTo(p)
		return zygo.SexpNull, nil
	})

	// (tick) or (tick n) runs frames without moving the tool.
	add("tick", func(args []zygo.Sexp) (zygo.Sexp, error) {
		n := 1
		if len(args) == 1 {
			f, err := toFloat64(args[0])
			if err != nil {
				return nil, err
			}
			n = int(f)
		} else if len(args) > 1 {
			return nil, fmt.Errorf("expected at most one frame count")
		}
		if n < 0 {
			return nil, fmt.Errorf("frame count must not be negative, got %d", n)
		}
		for i := 0; i < n; i++ {
			s.Frame()
		}
		return zygo.SexpNull, nil
	})

	add("trigger-down", func(args []zygo.Sexp) (zygo.Sexp, error) {
		s.TriggerDown()
		return zygo.SexpNull, nil
	})

	add("trigger-up", func(args []zygo.Sexp) (zygo.Sexp, error) {
		s.TriggerUp()
		return zygo.SexpNull, nil
	})

	// (drag x y z x y z ...) presses the trigger at the first point, moves
	// through the rest one frame each, and releases.
	add("drag", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 6 || len(args)%3 != 0 {
			return nil, fmt.Errorf("expected at least two x y z points, got %d numbers", len(args))
		}
		f, err := toFloats(args)
		if err != nil {
			return nil, err
		}
		pose := s.Tool().Pose()
		pose.Position = v3.Vec{X: f[0], Y: f[1], Z: f[2]}
		s.SetPose(pose)
		s.TriggerDown()
		for i := 3; i < len(f); i += 3 {
			moveTo(v3.Vec{X: f[i], Y: f[i+1], Z: f[i+2]})
		}
		s.TriggerUp()
		return zygo.SexpNull, nil
	})

	// (press "red") chooses a menu icon by name.
	add("press", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one icon name")
		}
		name, err := toKeywordString(args[0])
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, m.Press(name, s)
	})

	add("recolor", func(args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := toColor(args)
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, s.Recolor(c)
	})

	add("rescale", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one scale factor")
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, s.Rescale(f)
	})

	// (delete-selection) returns the number of scene nodes removed.
	add("delete-selection", func(args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := s.DeleteSelection()
		if err != nil {
			return nil, err
		}
		return sexpInt(n), nil
	})

	add("clear-selection", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return zygo.SexpNull, s.ClearSelection()
	})

	// (group-selection "name") returns the short ID of the new group.
	add("group-selection", func(args []zygo.Sexp) (zygo.Sexp, error) {
		name := "group"
		if len(args) == 1 {
			n, err := toString(args[0])
			if err != nil {
				return nil, err
			}
			name = n
		}
		id, err := s.GroupSelection(name)
		if err != nil {
			return nil, err
		}
		return &zygo.SexpStr{S: id.Short()}, nil
	})

	// (duplicate) copies the selection in place and returns the copy count.
	add("duplicate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		ids, err := s.Duplicate()
		if err != nil {
			return nil, err
		}
		return sexpInt(len(ids)), nil
	})

	// (stroke-count) returns the number of finished strokes in the scene.
	add("stroke-count", func(args []zygo.Sexp) (zygo.Sexp, error) {
		n := 0
		for _, node := range s.Scene().Tagged(s.Scene().Tag()) {
			if node.Kind == graph.NodeStroke {
				n++
			}
		}
		return sexpInt(n), nil
	})

	add("selection-size", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpInt(s.Selection().Len()), nil
	})
}
