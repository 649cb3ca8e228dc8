package watcher

import (
	"testing"
	"time"

	"github.com/nodacore/clusterkeeper/internal/membership/store"
)

type fakeSink struct {
	calls    []string
	full     bool
	lastPath string
}

func (f *fakeSink) PostConnected() bool    { f.calls = append(f.calls, "connected"); return !f.full }
func (f *fakeSink) PostDisconnected() bool { f.calls = append(f.calls, "disconnected"); return !f.full }
func (f *fakeSink) PostExpired() bool      { f.calls = append(f.calls, "expired"); return !f.full }
func (f *fakeSink) PostChildrenChanged(path string) bool {
	f.calls = append(f.calls, "children:"+path)
	f.lastPath = path
	return !f.full
}

func TestAdapterTranslatesSessionStates(t *testing.T) {
	sink := &fakeSink{}
	onEvent := New(sink)

	onEvent(store.Event{State: store.SyncConnected, Type: store.None})
	onEvent(store.Event{State: store.Disconnected, Type: store.None})
	onEvent(store.Event{State: store.Expired, Type: store.None})

	want := []string{"connected", "disconnected", "expired"}
	if len(sink.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, sink.calls)
	}
	for i, c := range want {
		if sink.calls[i] != c {
			t.Fatalf("call %d: expected %q, got %q", i, c, sink.calls[i])
		}
	}
}

func TestAdapterTranslatesChildrenChanged(t *testing.T) {
	sink := &fakeSink{}
	onEvent := New(sink)

	onEvent(store.Event{State: store.SyncConnected, Type: store.NodeChildrenChanged, Path: "/ck/members"})

	if len(sink.calls) != 1 || sink.calls[0] != "children:/ck/members" {
		t.Fatalf("expected a single children-changed post, got %v", sink.calls)
	}
}

func TestAdapterDoesNotBlockWhenSinkFull(t *testing.T) {
	sink := &fakeSink{full: true}
	onEvent := New(sink)

	// Must return promptly rather than block, even though the sink
	// reports the mailbox as full.
	done := make(chan struct{})
	go func() {
		onEvent(store.Event{State: store.SyncConnected})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onEvent blocked when sink reported full")
	}
}
