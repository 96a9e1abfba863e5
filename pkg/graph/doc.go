// Package graph defines the scene graph for airsketch. Nodes are tagged
// scene entities: finished strokes carrying a ribbon mesh as both render
// surface and collision volume, and groups that parent other entities.
// Selection and erasure resolve a node to its parent group when it has one.
package graph
