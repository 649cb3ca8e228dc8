package manager

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/membership/notify"
	"github.com/nodacore/clusterkeeper/internal/membership/store"
)

// harness wires a Manager against a fresh fake cluster and collects every
// notify.Event published to a single listener, in order.
type harness struct {
	t       *testing.T
	cluster *store.FakeCluster
	mgr     *Manager
	nf      *notify.Manager
	events  chan notify.Event
	fake    *store.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cluster := store.NewFakeCluster()
	nf := notify.New()
	go nf.Run()

	h := &harness{t: t, cluster: cluster, nf: nf, events: make(chan notify.Event, 64)}

	dialer := func(_ context.Context, _ string, _ int64, w store.Watcher) (store.Client, error) {
		h.fake = h.cluster.Dial(w).(*store.Fake)
		return h.fake, nil
	}

	h.mgr = New(dialer, "fake:2181", 5000, "/ck", nf)
	nf.AddListener(func(ev notify.Event) { h.events <- ev })

	if err := h.mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return h
}

func (h *harness) connect() {
	h.mgr.PostConnected()
	h.drain()
}

// drain gives the mailbox goroutine a moment to process posted events.
func (h *harness) drain() {
	time.Sleep(20 * time.Millisecond)
}

func (h *harness) nextEvent() notify.Event {
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(time.Second):
		h.t.Fatal("timed out waiting for event")
		return notify.Event{}
	}
}

func (h *harness) expectNoEvent() {
	select {
	case ev := <-h.events:
		h.t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func seedMember(t *testing.T, f *store.Fake, n domain.Node) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.Create(ctx, "/ck/members/"+itoa(n.ID), domain.Encode(n), store.PermissiveACL, store.Persistent); err != nil {
		t.Fatalf("seed member %d: %v", n.ID, err)
	}
}

func seedAvailable(t *testing.T, f *store.Fake, id int32) {
	t.Helper()
	if _, err := f.Create(context.Background(), "/ck/available/"+itoa(id), nil, store.PermissiveACL, store.Ephemeral); err != nil {
		t.Fatalf("seed available %d: %v", id, err)
	}
}

func itoa(id int32) string {
	return strconv.Itoa(int(id))
}

func n1() domain.Node { return domain.Node{ID: 1, URL: "localhost:31313", Partitions: []int32{1, 2}} }
func n2() domain.Node { return domain.Node{ID: 2, URL: "localhost:31314", Partitions: []int32{2, 3}} }
func n3() domain.Node { return domain.Node{ID: 3, URL: "localhost:31315", Partitions: []int32{2, 3}} }

func TestFreshConnectPopulatesView(t *testing.T) {
	h := newHarness(t)
	seedMember(t, h.fake, n1())
	seedMember(t, h.fake, n2())
	seedMember(t, h.fake, n3())
	seedAvailable(t, h.fake, 1)
	seedAvailable(t, h.fake, 2)

	h.connect()

	ev := h.nextEvent()
	if ev.Kind != notify.EventConnected {
		t.Fatalf("expected EventConnected, got %v", ev.Kind)
	}
	if ev.View.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", ev.View.Len())
	}
	assertAvailable(t, ev.View, 1, true)
	assertAvailable(t, ev.View, 2, true)
	assertAvailable(t, ev.View, 3, false)
	h.expectNoEvent()
}

func TestAvailabilityFlip(t *testing.T) {
	h := newHarness(t)
	seedMember(t, h.fake, n1())
	seedMember(t, h.fake, n2())
	seedMember(t, h.fake, n3())
	seedAvailable(t, h.fake, 1)
	seedAvailable(t, h.fake, 2)
	h.connect()
	h.nextEvent() // Connected

	if err := h.fake.Delete(context.Background(), "/ck/available/2", -1); err != nil {
		t.Fatalf("delete available/2: %v", err)
	}
	seedAvailable(t, h.fake, 3)
	h.drain()

	ev := h.nextEvent()
	if ev.Kind != notify.EventNodesChanged {
		t.Fatalf("expected NodesChanged, got %v", ev.Kind)
	}
	if ev.View.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", ev.View.Len())
	}
	assertAvailable(t, ev.View, 1, true)
	assertAvailable(t, ev.View, 2, false)
	assertAvailable(t, ev.View, 3, true)
	h.expectNoEvent()
}

func TestAllUnavailable(t *testing.T) {
	h := newHarness(t)
	seedMember(t, h.fake, n1())
	seedMember(t, h.fake, n2())
	seedMember(t, h.fake, n3())
	seedAvailable(t, h.fake, 1)
	seedAvailable(t, h.fake, 2)
	seedAvailable(t, h.fake, 3)
	h.connect()
	h.nextEvent() // Connected

	for _, id := range []int32{1, 2, 3} {
		if err := h.fake.Delete(context.Background(), "/ck/available/"+itoa(id), -1); err != nil {
			t.Fatalf("delete available/%d: %v", id, err)
		}
	}
	h.drain()

	ev := h.nextEvent()
	if ev.Kind != notify.EventNodesChanged {
		t.Fatalf("expected NodesChanged, got %v", ev.Kind)
	}
	for _, id := range []int32{1, 2, 3} {
		assertAvailable(t, ev.View, id, false)
	}
	h.expectNoEvent()
}

func TestMembershipGrowth(t *testing.T) {
	h := newHarness(t)
	seedMember(t, h.fake, n1())
	seedMember(t, h.fake, n2())
	seedAvailable(t, h.fake, 1)
	seedAvailable(t, h.fake, 2)
	h.connect()
	h.nextEvent() // Connected

	seedMember(t, h.fake, n3())
	h.drain()

	ev := h.nextEvent()
	if ev.Kind != notify.EventNodesChanged {
		t.Fatalf("expected NodesChanged, got %v", ev.Kind)
	}
	if ev.View.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", ev.View.Len())
	}
	assertAvailable(t, ev.View, 1, true)
	assertAvailable(t, ev.View, 2, true)
	assertAvailable(t, ev.View, 3, false)
	h.expectNoEvent()
}

func TestRejectedCommandsWhileDisconnected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.mgr.AddNode(ctx, n1()); !domain.IsDomainError(err, domain.ErrNotConnected.Code) {
		t.Fatalf("AddNode: expected NotConnectedError, got %v", err)
	}
	if err := h.mgr.RemoveNode(ctx, 1); !domain.IsDomainError(err, domain.ErrNotConnected.Code) {
		t.Fatalf("RemoveNode: expected NotConnectedError, got %v", err)
	}
	if err := h.mgr.MarkNodeAvailable(ctx, 1); !domain.IsDomainError(err, domain.ErrNotConnected.Code) {
		t.Fatalf("MarkNodeAvailable: expected NotConnectedError, got %v", err)
	}
	if err := h.mgr.MarkNodeUnavailable(ctx, 1); !domain.IsDomainError(err, domain.ErrNotConnected.Code) {
		t.Fatalf("MarkNodeUnavailable: expected NotConnectedError, got %v", err)
	}
	h.expectNoEvent()
}

func TestSessionExpiryTriggersReconnect(t *testing.T) {
	h := newHarness(t)
	h.connect()
	h.nextEvent() // Connected

	if got := h.cluster.SessionConstructions(); got != 1 {
		t.Fatalf("expected 1 session construction, got %d", got)
	}

	h.mgr.PostExpired()
	h.drain()

	if got := h.cluster.SessionConstructions(); got != 2 {
		t.Fatalf("expected 2 session constructions after Expired, got %d", got)
	}

	h.mgr.PostConnected()
	h.drain()
	ev := h.nextEvent()
	if ev.Kind != notify.EventConnected {
		t.Fatalf("expected Connected after reconnect, got %v", ev.Kind)
	}
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.connect()
	h.nextEvent() // Connected, empty view

	ctx := context.Background()
	if err := h.mgr.AddNode(ctx, n1()); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	ev := h.nextEvent()
	if ev.View.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", ev.View.Len())
	}
	assertAvailable(t, ev.View, 1, false)

	if err := h.mgr.RemoveNode(ctx, 1); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	ev = h.nextEvent()
	if ev.View.Len() != 0 {
		t.Fatalf("expected empty view, got %d", ev.View.Len())
	}
}

func TestDuplicateAdd(t *testing.T) {
	h := newHarness(t)
	h.connect()
	h.nextEvent() // Connected

	ctx := context.Background()
	if err := h.mgr.AddNode(ctx, n1()); err != nil {
		t.Fatalf("first AddNode: %v", err)
	}
	h.nextEvent() // NodesChanged

	if err := h.mgr.AddNode(ctx, n1()); !domain.IsDomainError(err, domain.ErrDuplicateNode.Code) {
		t.Fatalf("expected DuplicateNodeError, got %v", err)
	}
	h.expectNoEvent()
}

func TestIdempotentMarkAvailable(t *testing.T) {
	h := newHarness(t)
	seedMember(t, h.fake, n1())
	seedAvailable(t, h.fake, 1)
	h.connect()
	h.nextEvent() // Connected

	constructionsBefore := h.cluster.SessionConstructions()
	if err := h.mgr.MarkNodeAvailable(context.Background(), 1); err != nil {
		t.Fatalf("MarkNodeAvailable: %v", err)
	}
	if h.cluster.SessionConstructions() != constructionsBefore {
		t.Fatalf("expected no new session from idempotent mark-available")
	}
	h.expectNoEvent()
}

func assertAvailable(t *testing.T, v domain.View, id int32, want bool) {
	t.Helper()
	n, ok := v.Get(id)
	if !ok {
		t.Fatalf("node %d missing from view", id)
	}
	if n.Available != want {
		t.Fatalf("node %d: expected available=%v, got %v", id, want, n.Available)
	}
}
