// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// Graph traversal depth limits. MaxGraphDepth is the hard ceiling; the
// effective clamp can be lowered per world with SetMaxGraphDepth.
const (
	DefaultGraphDepth = 3
	MaxGraphDepth     = 5
)

// SetMaxGraphDepth lowers the traversal clamp for this world. Values
// below 1 are ignored; values above MaxGraphDepth still clamp to the
// hard ceiling.
func (w *World) SetMaxGraphDepth(depth int) {
	if depth < 1 {
		return
	}
	if depth > MaxGraphDepth {
		depth = MaxGraphDepth
	}
	w.maxDepth = depth
}

// GraphNode is one node of an expanded relationship tree.
type GraphNode struct {
	Name          string
	Type          string
	Relationships []GraphEdge
}

// GraphEdge is an outgoing relationship from a node, with the target
// expanded one level deeper.
type GraphEdge struct {
	Type   string // original human-typed form
	Target *GraphNode
}

// EntityGraph expands outgoing relationships from root, breadth-first,
// down to the given depth. Depth is clamped to the world's configured
// maximum (MaxGraphDepth unless lowered with SetMaxGraphDepth).
//
// Traversal tracks remaining depth only, not a visited set: a true cycle
// is re-traversed up to the clamp. That bounds cost without the
// bookkeeping of cycle detection and is deliberate, not a bug.
func (w *World) EntityGraph(root string, depth int) (*GraphNode, error) {
	if _, ok := w.entities[root]; !ok {
		return nil, &NotFoundError{Kind: "entity", Name: root}
	}
	if depth < 0 {
		depth = 0
	}
	if depth > w.maxDepth {
		depth = w.maxDepth
	}
	return w.expand(root, depth), nil
}

func (w *World) expand(name string, depth int) *GraphNode {
	node := &GraphNode{Name: name}
	entity, ok := w.entities[name]
	if !ok {
		// Endpoint missing from the cache; leave the node unexpanded.
		return node
	}
	node.Type = entity.Type

	if depth == 0 {
		return node
	}
	for _, rel := range entity.rels {
		node.Relationships = append(node.Relationships, GraphEdge{
			Type:   rel.Type,
			Target: w.expand(rel.Target, depth-1),
		})
	}
	return node
}
