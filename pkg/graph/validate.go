package graph

import (
	"fmt"
	"slices"
)

// ValidationSeverity indicates whether a validation finding marks the scene
// as corrupt or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // structural corruption
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs the structural checks on the scene graph and returns every
// finding. An empty slice means the graph is consistent. Validate never
// mutates the graph.
func Validate(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateStrokes(g)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	return slices.ContainsFunc(findings, func(e ValidationError) bool {
		return e.Severity == SeverityError
	})
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateDAG(g *SceneGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; reported by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.All() {
		if color[n.ID] == white && visit(n.ID) {
			break
		}
	}
	return errs
}

// validateReferences checks that child and parent links point at live nodes
// and agree with each other.
func validateReferences(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.All() {
		for _, childID := range node.Children {
			child, ok := g.Nodes[childID]
			if !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
				continue
			}
			if child.Parent != node.ID {
				errs = append(errs, ValidationError{
					NodeID:   childID,
					Message:  fmt.Sprintf("listed as child of %s but parent is %s", node.ID.Short(), child.Parent.Short()),
					Severity: SeverityError,
				})
			}
		}
		if node.Parent.IsZero() {
			continue
		}
		parent, ok := g.Nodes[node.Parent]
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("parent reference %s does not exist", node.Parent.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if !slices.Contains(parent.Children, node.ID) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("parent %s does not list this node as a child", node.Parent.Short()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that roots exist and are exactly the parentless nodes.
func validateRoots(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	rootSet := make(map[NodeID]bool, len(g.Roots))
	for _, rid := range g.Roots {
		rootSet[rid] = true
		n, ok := g.Nodes[rid]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if !n.Parent.IsZero() {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  "root has a parent",
				Severity: SeverityError,
			})
		}
	}
	for _, n := range g.All() {
		if n.Parent.IsZero() && !rootSet[n.ID] {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "parentless node is not a root",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateStrokes checks stroke payloads against their ribbon meshes.
func validateStrokes(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, n := range g.Strokes() {
		sd, ok := n.Stroke()
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("stroke node has %T payload", n.Data),
				Severity: SeverityError,
			})
			continue
		}
		if sd.Width <= 0 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("stroke width must be positive, got %g", sd.Width),
				Severity: SeverityError,
			})
		}
		if n.Mesh == nil {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "stroke has no collision volume",
				Severity: SeverityWarning,
			})
			continue
		}
		np := len(sd.Points)
		if np < 2 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("finalized stroke has %d points, need at least 2", np),
				Severity: SeverityError,
			})
			continue
		}
		if n.Mesh.VertexCount() != 2*np || len(n.Mesh.Indices) != 6*(np-1) {
			errs = append(errs, ValidationError{
				NodeID: n.ID,
				Message: fmt.Sprintf("ribbon has %d vertices and %d indices, want %d and %d",
					n.Mesh.VertexCount(), len(n.Mesh.Indices), 2*np, 6*(np-1)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
