// Package manager implements the Cluster Manager: the single-consumer
// state machine that owns the coordination-store session, reconciles
// remote state into an in-memory view, serves membership-mutation
// commands, and drives the Notification Manager.
package manager

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/membership/notify"
	"github.com/nodacore/clusterkeeper/internal/membership/store"
	"github.com/nodacore/clusterkeeper/internal/membership/watcher"
	"github.com/nodacore/clusterkeeper/internal/telemetry/logger"
)

// Manager is the Cluster Manager. Zero value is not usable; build one
// with New and call Start before sending it any commands.
type Manager struct {
	mailbox        chan message
	dial           store.Dialer
	watcherFn      store.Watcher
	addr           string
	sessionTimeout int64
	root           string

	notifier *notify.Manager
	log      logger.Logger

	store store.Client

	connected bool
	shutdown  bool

	currentView  map[int32]domain.Node
	availability map[int32]struct{}
}

// New builds a Cluster Manager against a coordination store reachable at
// addr (opened via dial), rooted at root. notifier is driven with every
// view transition; the caller owns running notifier.Run separately.
func New(dial store.Dialer, addr string, sessionTimeout int64, root string, notifier *notify.Manager) *Manager {
	m := &Manager{
		mailbox:        make(chan message, 256),
		dial:           dial,
		addr:           addr,
		sessionTimeout: sessionTimeout,
		root:           root,
		notifier:       notifier,
		log:            logger.Default().With("component", "cluster-manager"),
		currentView:    make(map[int32]domain.Node),
		availability:   make(map[int32]struct{}),
	}
	m.watcherFn = watcher.New(m)
	return m
}

// Start opens the initial coordination-store session and begins draining
// the mailbox in a new goroutine. The manager is not yet Connected: that
// happens once the store reports SyncConnected through the watcher.
func (m *Manager) Start(ctx context.Context) error {
	client, err := m.dial(ctx, m.addr, m.sessionTimeout, m.watcherFn)
	if err != nil {
		return fmt.Errorf("dial coordination store: %w", err)
	}
	m.store = client
	go m.run()
	return nil
}

func (m *Manager) run() {
	for msg := range m.mailbox {
		msg.apply(m)
	}
}

// Sink methods (watcher.Sink): non-blocking posts from the store client's
// foreign event-delivery thread into the mailbox.

func (m *Manager) PostConnected() bool             { return m.tryPost(sessionConnected{}) }
func (m *Manager) PostDisconnected() bool          { return m.tryPost(sessionDisconnected{}) }
func (m *Manager) PostExpired() bool               { return m.tryPost(sessionExpired{}) }
func (m *Manager) PostChildrenChanged(p string) bool { return m.tryPost(childrenChanged{path: p}) }

func (m *Manager) tryPost(msg message) bool {
	select {
	case m.mailbox <- msg:
		return true
	default:
		return false
	}
}

// AddNode registers node. Rejects with a NotConnectedError-kind
// *domain.DomainError unless the manager is Connected.
func (m *Manager) AddNode(ctx context.Context, node domain.Node) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, addNodeRequest{node: node, reply: reply}); err != nil {
		return err
	}
	return m.await(ctx, reply)
}

// RemoveNode deregisters id. Idempotent: removing an absent node succeeds.
func (m *Manager) RemoveNode(ctx context.Context, id int32) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, removeNodeRequest{id: id, reply: reply}); err != nil {
		return err
	}
	return m.await(ctx, reply)
}

// MarkNodeAvailable marks id as accepting traffic. Idempotent.
func (m *Manager) MarkNodeAvailable(ctx context.Context, id int32) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, markAvailableRequest{id: id, reply: reply}); err != nil {
		return err
	}
	return m.await(ctx, reply)
}

// MarkNodeUnavailable marks id as not accepting traffic. Idempotent.
func (m *Manager) MarkNodeUnavailable(ctx context.Context, id int32) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, markUnavailableRequest{id: id, reply: reply}); err != nil {
		return err
	}
	return m.await(ctx, reply)
}

// Shutdown closes the store session exactly once and stops processing.
// Safe to call more than once.
func (m *Manager) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	if err := m.send(ctx, shutdownRequest{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) send(ctx context.Context, msg message) error {
	select {
	case m.mailbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) await(ctx context.Context, reply chan error) error {
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- handlers, run exclusively on the mailbox goroutine ---

func (m *Manager) handleConnected() {
	if m.shutdown {
		return
	}

	if m.store == nil {
		client, err := m.dial(context.Background(), m.addr, m.sessionTimeout, m.watcherFn)
		if err != nil {
			m.log.Error("dial failed handling Connected", "error", err)
			return
		}
		m.store = client
	}

	for _, p := range []string{m.root, m.membersPath(), m.availablePath()} {
		if err := m.ensurePersistent(p); err != nil {
			m.log.Error("znode verification failed, staying disconnected", "path", p, "error", err)
			return
		}
	}

	view, err := m.refresh()
	if err != nil {
		m.log.Error("initial refresh failed, staying disconnected", "error", err)
		return
	}

	m.connected = true
	m.notifier.PublishConnected(view)
}

func (m *Manager) handleDisconnected() {
	if m.shutdown || !m.connected {
		return
	}
	m.connected = false
	m.notifier.PublishDisconnected()
}

func (m *Manager) handleExpired() {
	if m.shutdown {
		return
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.Warn("error closing expired session", "error", err)
		}
		m.store = nil
	}

	m.connected = false
	m.currentView = make(map[int32]domain.Node)
	m.availability = make(map[int32]struct{})

	client, err := m.dial(context.Background(), m.addr, m.sessionTimeout, m.watcherFn)
	if err != nil {
		m.log.Error("reconnect after session expiry failed", "error", err)
		return
	}
	m.store = client
}

func (m *Manager) handleChildrenChanged(path string) {
	if m.shutdown || !m.connected || m.store == nil {
		return
	}

	view, err := m.refresh()
	if err != nil {
		m.log.Error("refresh failed after children-changed event", "path", path, "error", err)
		return
	}
	m.notifier.PublishNodesChanged(view)
}

func (m *Manager) handleAddNode(node domain.Node) error {
	if !m.connected {
		return domain.ErrNotConnected
	}

	p := m.memberPath(node.ID)
	stat, err := m.store.Exists(context.Background(), p, false)
	if err != nil {
		return domain.NewStoreError("exists", err)
	}
	if stat != nil {
		return domain.ErrDuplicateNode
	}

	if _, err := m.store.Create(context.Background(), p, domain.Encode(node), store.PermissiveACL, store.Persistent); err != nil {
		return domain.NewStoreError("create", err)
	}

	_, available := m.availability[node.ID]
	m.currentView[node.ID] = node.WithAvailable(available)
	m.notifier.PublishNodesChanged(domain.NewView(m.currentView))
	return nil
}

func (m *Manager) handleRemoveNode(id int32) error {
	if !m.connected {
		return domain.ErrNotConnected
	}

	p := m.memberPath(id)
	stat, err := m.store.Exists(context.Background(), p, false)
	if err != nil {
		return domain.NewStoreError("exists", err)
	}
	if stat == nil {
		return nil
	}

	if err := m.store.Delete(context.Background(), p, -1); err != nil {
		return domain.NewStoreError("delete", err)
	}

	delete(m.currentView, id)
	m.notifier.PublishNodesChanged(domain.NewView(m.currentView))
	return nil
}

func (m *Manager) handleSetAvailable(id int32, available bool) error {
	if !m.connected {
		return domain.ErrNotConnected
	}

	p := m.availPath(id)
	stat, err := m.store.Exists(context.Background(), p, false)
	if err != nil {
		return domain.NewStoreError("exists", err)
	}

	if available {
		if stat != nil {
			return nil
		}
		if _, err := m.store.Create(context.Background(), p, nil, store.PermissiveACL, store.Ephemeral); err != nil {
			return domain.NewStoreError("create", err)
		}
		m.availability[id] = struct{}{}
	} else {
		if stat == nil {
			return nil
		}
		if err := m.store.Delete(context.Background(), p, -1); err != nil {
			return domain.NewStoreError("delete", err)
		}
		delete(m.availability, id)
	}

	if n, ok := m.currentView[id]; ok {
		m.currentView[id] = n.WithAvailable(available)
	}
	m.notifier.PublishNodesChanged(domain.NewView(m.currentView))
	return nil
}

func (m *Manager) handleShutdown() {
	if m.shutdown {
		return
	}
	m.shutdown = true
	m.connected = false

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.Warn("error closing session on shutdown", "error", err)
		}
		m.store = nil
	}

	m.notifier.PublishShutdown()
}

// refresh rebuilds currentView and availability from the store, arming a
// fresh watch on both parent paths (spec's watches fire at most once).
func (m *Manager) refresh() (domain.View, error) {
	ctx := context.Background()

	memberIDs, err := m.store.GetChildren(ctx, m.membersPath(), true)
	if err != nil {
		return domain.View{}, fmt.Errorf("list members: %w", err)
	}

	availIDs, err := m.store.GetChildren(ctx, m.availablePath(), true)
	if err != nil {
		return domain.View{}, fmt.Errorf("list available: %w", err)
	}

	availability := make(map[int32]struct{}, len(availIDs))
	for _, idStr := range availIDs {
		id, err := parseID(idStr)
		if err != nil {
			m.log.Warn("skipping malformed availability entry", "name", idStr)
			continue
		}
		availability[id] = struct{}{}
	}

	nodes := make(map[int32]domain.Node, len(memberIDs))
	for _, idStr := range memberIDs {
		id, err := parseID(idStr)
		if err != nil {
			m.log.Warn("skipping malformed member entry", "name", idStr)
			continue
		}

		data, err := m.store.GetData(ctx, m.memberPath(id), false)
		if err != nil {
			m.log.Warn("skipping member, getData failed", "id", id, "error", err)
			continue
		}

		node, err := domain.Decode(data)
		if err != nil {
			m.log.Warn("skipping member, decode failed", "id", id, "error", err)
			continue
		}

		_, available := availability[id]
		nodes[id] = node.WithAvailable(available)
	}

	m.currentView = nodes
	m.availability = availability
	return domain.NewView(nodes), nil
}

func (m *Manager) ensurePersistent(p string) error {
	ctx := context.Background()
	stat, err := m.store.Exists(ctx, p, false)
	if err != nil {
		return fmt.Errorf("exists %s: %w", p, err)
	}
	if stat != nil {
		return nil
	}
	if _, err := m.store.Create(ctx, p, nil, store.PermissiveACL, store.Persistent); err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	return nil
}

func (m *Manager) membersPath() string   { return path.Join(m.root, "members") }
func (m *Manager) availablePath() string { return path.Join(m.root, "available") }
func (m *Manager) memberPath(id int32) string {
	return path.Join(m.root, "members", strconv.Itoa(int(id)))
}
func (m *Manager) availPath(id int32) string {
	return path.Join(m.root, "available", strconv.Itoa(int(id)))
}

func parseID(name string) (int32, error) {
	v, err := strconv.ParseInt(name, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
