// Package domain defines the node model, wire codec, and error types for
// the cluster membership coordination core.
package domain

// Node is a single member of the cluster as seen through the coordination
// store: an identity, a transport URL, the partitions it serves, and
// whether it is currently accepting traffic.
//
// Node is immutable once constructed. Identity is by ID alone: two Nodes
// with the same ID are considered the same node for every map/set purpose
// in this package, even if their URL or partitions differ (a mismatch
// there indicates an inconsistency upstream, not a different node).
type Node struct {
	ID         int32
	URL        string
	Partitions []int32
	Available  bool
}

// NewNode constructs a Node, failing immediately if URL is empty or
// partitions is nil. partitions may be empty but must not be nil; the
// returned Node holds its own non-nil copy of it.
func NewNode(id int32, url string, partitions []int32, available bool) (Node, error) {
	if url == "" {
		return Node{}, ErrMalformedNode.WithDetails("url must not be empty")
	}
	if partitions == nil {
		return Node{}, ErrMalformedNode.WithDetails("partitions must not be nil")
	}
	return Node{
		ID:         id,
		URL:        url,
		Partitions: append(make([]int32, 0, len(partitions)), partitions...),
		Available:  available,
	}, nil
}

// WithAvailable returns a copy of n with Available set, leaving n untouched.
func (n Node) WithAvailable(available bool) Node {
	n.Available = available
	return n
}

// Equal reports whether two nodes share the same identity. Only ID
// participates — see DESIGN.md's Open Question decision.
func (n Node) Equal(other Node) bool {
	return n.ID == other.ID
}
