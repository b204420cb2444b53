package topology

import "slices"

// Graph edits return a new Graph and never modify the receiver's slices,
// so a Graph handed out earlier stays valid.

// WithNode returns a copy of g with n appended to the node order
func (g Graph) WithNode(n Node) Graph {
	return Graph{
		Nodes: append(slices.Clip(g.Nodes), n),
		Edges: g.Edges,
	}
}

// WithoutNode returns a copy of g without the node and every edge that
// touches it. It reports how many edges were dropped and whether the node
// existed.
func (g Graph) WithoutNode(id string) (Graph, int, bool) {
	i := slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return g, 0, false
	}

	out := Graph{
		Nodes: slices.Delete(slices.Clone(g.Nodes), i, i+1),
		Edges: make([]Edge, 0, len(g.Edges)),
	}
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out, len(g.Edges) - len(out.Edges), true
}

// WithEdge returns a copy of g holding e. An existing edge with the same
// source and target is replaced in place; it reports whether that
// happened.
func (g Graph) WithEdge(e Edge) (Graph, bool) {
	i := g.edgeIndex(e.Source, e.Target)
	if i < 0 {
		return Graph{Nodes: g.Nodes, Edges: append(slices.Clip(g.Edges), e)}, false
	}
	edges := slices.Clone(g.Edges)
	edges[i] = e
	return Graph{Nodes: g.Nodes, Edges: edges}, true
}

// WithoutEdge returns a copy of g without the source→target edge
func (g Graph) WithoutEdge(source, target string) (Graph, bool) {
	i := g.edgeIndex(source, target)
	if i < 0 {
		return g, false
	}
	return Graph{
		Nodes: g.Nodes,
		Edges: slices.Delete(slices.Clone(g.Edges), i, i+1),
	}, true
}

// Edge looks up the first source→target edge
func (g Graph) Edge(source, target string) (Edge, bool) {
	if i := g.edgeIndex(source, target); i >= 0 {
		return g.Edges[i], true
	}
	return Edge{}, false
}

func (g Graph) edgeIndex(source, target string) int {
	return slices.IndexFunc(g.Edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
}
