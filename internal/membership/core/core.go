// Package core wires the Node Codec, coordination-store client, Watcher
// Adapter, Notification Manager, and Cluster Manager into the single
// facade the rest of the process depends on.
package core

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/membership/manager"
	"github.com/nodacore/clusterkeeper/internal/membership/notify"
	"github.com/nodacore/clusterkeeper/internal/membership/store"
)

// Config configures a Core instance.
type Config struct {
	// Addr is the coordination-store connection string (e.g. a
	// comma-separated list of ZooKeeper server addresses).
	Addr string
	// SessionTimeoutMillis is the requested session timeout, in
	// milliseconds, passed to store.Dialer.
	SessionTimeoutMillis int64
	// Root is the cluster root path (R in spec terms).
	Root string
	// Dial opens the coordination-store client. Defaults to store.Dial
	// (a real ZooKeeper session) when nil.
	Dial store.Dialer
}

// Core is the membership coordination facade: subscribe for view
// updates, issue mutation commands, and manage the session lifecycle.
type Core struct {
	manager  *manager.Manager
	notifier *notify.Manager

	connected atomic.Bool
	viewMu    sync.RWMutex
	view      domain.View
}

// New builds a Core but does not yet open a coordination-store session;
// call Start for that.
func New(cfg Config) *Core {
	dial := cfg.Dial
	if dial == nil {
		dial = store.Dial
	}

	notifier := notify.New()
	mgr := manager.New(dial, cfg.Addr, cfg.SessionTimeoutMillis, cfg.Root, notifier)

	c := &Core{manager: mgr, notifier: notifier}
	notifier.AddListener(c.trackStatus)
	return c
}

// trackStatus is a permanent listener that keeps Status()/View() current
// without requiring callers to reach into the manager's mailbox goroutine.
func (c *Core) trackStatus(ev notify.Event) {
	switch ev.Kind {
	case notify.EventConnected:
		c.connected.Store(true)
		c.viewMu.Lock()
		c.view = ev.View
		c.viewMu.Unlock()
	case notify.EventNodesChanged:
		c.viewMu.Lock()
		c.view = ev.View
		c.viewMu.Unlock()
	case notify.EventDisconnected, notify.EventShutdown:
		c.connected.Store(false)
	}
}

// Connected reports whether the Cluster Manager currently holds a
// Connected coordination-store session.
func (c *Core) Connected() bool {
	return c.connected.Load()
}

// View returns the most recently published cluster view. Zero-valued
// until the first Connected event.
func (c *Core) View() domain.View {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// Start opens the coordination-store session and begins running both the
// Cluster Manager and Notification Manager mailbox loops.
func (c *Core) Start(ctx context.Context) error {
	go c.notifier.Run()
	return c.manager.Start(ctx)
}

// Subscribe registers l for Connected/Disconnected/NodesChanged/Shutdown
// events, delivering a synchronous Connected(currentView) immediately if
// a view is already known.
func (c *Core) Subscribe(l notify.Listener) notify.ListenerID {
	return c.notifier.AddListener(l)
}

// Unsubscribe is idempotent.
func (c *Core) Unsubscribe(id notify.ListenerID) {
	c.notifier.RemoveListener(id)
}

// AddNode registers node with the cluster.
func (c *Core) AddNode(ctx context.Context, node domain.Node) error {
	return c.manager.AddNode(ctx, node)
}

// RemoveNode deregisters id.
func (c *Core) RemoveNode(ctx context.Context, id int32) error {
	return c.manager.RemoveNode(ctx, id)
}

// MarkNodeAvailable marks id as accepting traffic.
func (c *Core) MarkNodeAvailable(ctx context.Context, id int32) error {
	return c.manager.MarkNodeAvailable(ctx, id)
}

// MarkNodeUnavailable marks id as not accepting traffic.
func (c *Core) MarkNodeUnavailable(ctx context.Context, id int32) error {
	return c.manager.MarkNodeUnavailable(ctx, id)
}

// Shutdown closes the coordination-store session exactly once. The
// manager itself publishes Shutdown to every listener as part of its
// shutdown handler; this waits for that fan-out to finish.
func (c *Core) Shutdown(ctx context.Context) error {
	if err := c.manager.Shutdown(ctx); err != nil {
		return err
	}
	<-c.notifier.Done()
	return nil
}

// PostConnectedForTest delivers a synthetic Connected transition to the
// Cluster Manager. A real coordination-store client reports this
// asynchronously through the Watcher Adapter as soon as it gets
// SyncConnected; store.FakeCluster never does, so tests against it must
// trigger the transition themselves.
func (c *Core) PostConnectedForTest() bool {
	return c.manager.PostConnected()
}
