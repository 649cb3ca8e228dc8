package manager

import (
	"github.com/nodacore/clusterkeeper/internal/membership/domain"
)

// message is the sealed set of things the Cluster Manager's mailbox loop
// accepts. It is unexported: only the Watcher Adapter and the public
// request methods on Manager construct these.
type message interface {
	apply(m *Manager)
}

// sessionConnected reports the store session reached SyncConnected.
type sessionConnected struct{}

// sessionDisconnected reports the store session dropped to Disconnected
// (transient; the session may still recover without re-registering).
type sessionDisconnected struct{}

// sessionExpired reports the store session expired; all ephemeral state
// this process owned is gone and must be rebuilt on reconnect.
type sessionExpired struct{}

// childrenChanged reports that a watched node's children changed; path
// tells the manager which subtree to refresh.
type childrenChanged struct {
	path string
}

// addNodeRequest asks the manager to register a new node.
type addNodeRequest struct {
	node  domain.Node
	reply chan error
}

// removeNodeRequest asks the manager to deregister a node.
type removeNodeRequest struct {
	id    int32
	reply chan error
}

// markAvailableRequest asks the manager to mark a node available.
type markAvailableRequest struct {
	id    int32
	reply chan error
}

// markUnavailableRequest asks the manager to mark a node unavailable.
type markUnavailableRequest struct {
	id    int32
	reply chan error
}

// shutdownRequest asks the manager to stop, closing the store session.
type shutdownRequest struct {
	done chan struct{}
}

func (s sessionConnected) apply(m *Manager)    { m.handleConnected() }
func (s sessionDisconnected) apply(m *Manager) { m.handleDisconnected() }
func (s sessionExpired) apply(m *Manager)      { m.handleExpired() }
func (c childrenChanged) apply(m *Manager)     { m.handleChildrenChanged(c.path) }

func (r addNodeRequest) apply(m *Manager)         { r.reply <- m.handleAddNode(r.node) }
func (r removeNodeRequest) apply(m *Manager)      { r.reply <- m.handleRemoveNode(r.id) }
func (r markAvailableRequest) apply(m *Manager)   { r.reply <- m.handleSetAvailable(r.id, true) }
func (r markUnavailableRequest) apply(m *Manager) { r.reply <- m.handleSetAvailable(r.id, false) }

func (s shutdownRequest) apply(m *Manager) {
	m.handleShutdown()
	close(s.done)
}
