// Package notify implements the single-writer broadcaster that fans a
// cluster view out to subscribed listeners, in registration order, one
// at a time.
package notify

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/telemetry/logger"
)

// ListenerID identifies a registered listener for later removal.
type ListenerID string

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventNodesChanged
	EventShutdown
)

// Event is what a Listener receives. View is populated for Connected and
// NodesChanged; it is the zero value otherwise.
type Event struct {
	Kind EventKind
	View domain.View
}

// Listener receives events from the Notification Manager's goroutine; it
// must not assume it runs on any caller's thread and must not block long.
type Listener func(Event)

// op is the sealed set of operations the Manager's mailbox accepts.
type op interface {
	apply(m *Manager)
}

type addListenerOp struct {
	l     Listener
	reply chan ListenerID
}

type removeListenerOp struct {
	id ListenerID
}

type publishOp struct {
	ev Event
}

// Manager is the single-writer broadcaster. It owns an entropy source for
// listener IDs and runs its own mailbox loop; call Run in a goroutine.
type Manager struct {
	mailbox  chan op
	entropy  *ulid.MonotonicEntropy
	log      logger.Logger
	done     chan struct{}
	order    []ListenerID
	byID     map[ListenerID]Listener
	lastView domain.View
	haveView bool
	shutdown bool
}

// New creates a Notification Manager. Call Run to start its mailbox loop.
func New() *Manager {
	return &Manager{
		mailbox: make(chan op, 64),
		entropy: ulid.Monotonic(rand.Reader, 0),
		log:     logger.Default().With("component", "notify"),
		done:    make(chan struct{}),
		byID:    make(map[ListenerID]Listener),
	}
}

// Run drains the mailbox until Shutdown is published. Call it in its own
// goroutine; it returns once Shutdown has been delivered to every listener.
func (m *Manager) Run() {
	for o := range m.mailbox {
		o.apply(m)
		if m.shutdown {
			close(m.done)
			return
		}
	}
}

// Done is closed once Shutdown has been fully published.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// AddListener registers l. If a view is currently known, l synchronously
// receives a Connected(currentView) event before AddListener returns.
func (m *Manager) AddListener(l Listener) ListenerID {
	reply := make(chan ListenerID, 1)
	m.mailbox <- addListenerOp{l: l, reply: reply}
	return <-reply
}

// RemoveListener is idempotent.
func (m *Manager) RemoveListener(id ListenerID) {
	m.mailbox <- removeListenerOp{id: id}
}

// PublishConnected fans out a Connected(view) event.
func (m *Manager) PublishConnected(view domain.View) {
	m.mailbox <- publishOp{ev: Event{Kind: EventConnected, View: view}}
}

// PublishDisconnected fans out a Disconnected event.
func (m *Manager) PublishDisconnected() {
	m.mailbox <- publishOp{ev: Event{Kind: EventDisconnected}}
}

// PublishNodesChanged fans out a NodesChanged(view) event.
func (m *Manager) PublishNodesChanged(view domain.View) {
	m.mailbox <- publishOp{ev: Event{Kind: EventNodesChanged, View: view}}
}

// PublishShutdown fans out the terminal Shutdown event. After it returns,
// the Manager's Run loop exits; further publishes are ignored.
func (m *Manager) PublishShutdown() {
	m.mailbox <- publishOp{ev: Event{Kind: EventShutdown}}
}

func (o addListenerOp) apply(m *Manager) {
	id := ListenerID(m.nextID())
	m.byID[id] = o.l
	m.order = append(m.order, id)

	if m.haveView {
		m.deliver(id, o.l, Event{Kind: EventConnected, View: m.lastView})
	}
	o.reply <- id
}

func (o removeListenerOp) apply(m *Manager) {
	if _, ok := m.byID[o.id]; !ok {
		return
	}
	delete(m.byID, o.id)
	for i, id := range m.order {
		if id == o.id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (o publishOp) apply(m *Manager) {
	if m.shutdown {
		return
	}

	switch o.ev.Kind {
	case EventConnected, EventNodesChanged:
		m.lastView = o.ev.View
		m.haveView = true
	case EventShutdown:
		m.shutdown = true
	}

	for _, id := range m.order {
		m.deliver(id, m.byID[id], o.ev)
	}
}

// deliver invokes l and recovers any panic so one misbehaving listener
// does not stop delivery to the rest.
func (m *Manager) deliver(id ListenerID, l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("listener panicked", "listener_id", id, "kind", ev.Kind, "panic", r)
		}
	}()
	l(ev)
}

func (m *Manager) nextID() string {
	ms := ulid.Timestamp(time.Now())
	id, err := ulid.New(ms, m.entropy)
	if err != nil {
		// Monotonic entropy exhausted for this millisecond; fall back to a
		// fresh entropy source rather than blocking listener delivery.
		id, _ = ulid.New(ms, ulid.Monotonic(rand.Reader, 0))
	}
	return id.String()
}
