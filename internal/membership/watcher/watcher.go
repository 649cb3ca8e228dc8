// Package watcher translates raw coordination-store events into the typed
// messages the Cluster Manager's mailbox accepts, without ever blocking
// the store client's own event-delivery thread.
package watcher

import (
	"github.com/nodacore/clusterkeeper/internal/membership/store"
	"github.com/nodacore/clusterkeeper/internal/telemetry/logger"
)

// Sink is the subset of the Cluster Manager's inbound mailbox the adapter
// needs: a non-blocking post. true means the message was enqueued.
type Sink interface {
	PostConnected() bool
	PostDisconnected() bool
	PostExpired() bool
	PostChildrenChanged(path string) bool
}

// Adapter is stateless; New returns a store.Watcher closure bound to sink.
type Adapter struct {
	sink Sink
	log  logger.Logger
}

// New builds a store.Watcher that posts into sink. The returned function
// is what gets passed to store.Dial/store.FakeCluster.Dial; it runs on
// whatever foreign thread the store client delivers events on.
func New(sink Sink) store.Watcher {
	a := &Adapter{sink: sink, log: logger.Default().With("component", "watcher")}
	return a.onEvent
}

func (a *Adapter) onEvent(ev store.Event) {
	var posted bool

	switch {
	case ev.Type == store.NodeChildrenChanged:
		posted = a.sink.PostChildrenChanged(ev.Path)
	case ev.State == store.SyncConnected:
		posted = a.sink.PostConnected()
	case ev.State == store.Disconnected:
		posted = a.sink.PostDisconnected()
	case ev.State == store.Expired:
		posted = a.sink.PostExpired()
	default:
		// All other raw events are dropped silently.
		return
	}

	if !posted {
		a.log.Warn("mailbox full, dropping event", "path", ev.Path)
	}
}
