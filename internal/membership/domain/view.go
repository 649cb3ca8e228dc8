package domain

// View is an immutable snapshot of the cluster's membership and
// availability at one point in time. Callers must not mutate a View they
// receive; manager.go always hands out a freshly built one.
type View struct {
	nodes map[int32]Node
}

// NewView builds a View from a set of nodes, keyed by id.
func NewView(nodes map[int32]Node) View {
	copied := make(map[int32]Node, len(nodes))
	for id, n := range nodes {
		copied[id] = n
	}
	return View{nodes: copied}
}

// Nodes returns a copy of the view's nodes, safe for the caller to keep.
func (v View) Nodes() map[int32]Node {
	out := make(map[int32]Node, len(v.nodes))
	for id, n := range v.nodes {
		out[id] = n
	}
	return out
}

// Get returns the node for id, if present.
func (v View) Get(id int32) (Node, bool) {
	n, ok := v.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the view.
func (v View) Len() int {
	return len(v.nodes)
}
