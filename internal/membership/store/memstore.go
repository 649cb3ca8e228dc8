package store

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/nodacore/clusterkeeper/pkg/cmap"
)

// znode is one entry of the fake tree.
type znode struct {
	payload []byte
	mode    Mode
	version int32
	// owner ties an ephemeral znode to the Fake that created it, so
	// Close can remove only that owner's ephemeral nodes.
	owner int64
}

// Fake is an in-memory, single-process stand-in for the coordination store,
// used by tests (spec §8's nine end-to-end scenarios run against it).
// Multiple Fake handles created via the same Cluster share one tree, so
// tests can simulate disconnects/expiry/reconnect realistically.
type Fake struct {
	cluster *fakeCluster
	id      int64
	watcher Watcher
	closed  bool
	mu      sync.Mutex
}

// fakeCluster is the shared backing tree for one or more Fake sessions.
type fakeCluster struct {
	mu          sync.Mutex
	nodes       *cmap.Map[string, *znode]
	childWatch  map[string][]chan struct{}
	nextSession int64
	sessionSeq  int
}

// NewFakeCluster creates a fresh backing tree. SessionConstructions
// reports how many times Dial has been called against it, letting tests
// assert on reconnect behavior (spec §8 scenario 6).
func NewFakeCluster() *FakeCluster {
	return &FakeCluster{inner: &fakeCluster{
		nodes:      cmap.New[string, *znode](),
		childWatch: make(map[string][]chan struct{}),
	}}
}

// FakeCluster is the public handle to a shared fake tree.
type FakeCluster struct {
	inner *fakeCluster
}

// SessionConstructions returns how many sessions have been dialed.
func (c *FakeCluster) SessionConstructions() int {
	c.inner.mu.Lock()
	defer c.inner.mu.Unlock()
	return c.inner.sessionSeq
}

// Dial opens a new Fake session against this cluster, delivering session
// events to watcher. It always starts delivered-but-not-yet-SyncConnected
// and never reports Connected on its own; the test drives the Connected
// transition by posting Connected to the Cluster Manager itself (e.g. via
// PostConnected), standing in for a real ZK client reporting
// StateHasSession asynchronously.
func (c *FakeCluster) Dial(watcher Watcher) Client {
	c.inner.mu.Lock()
	c.inner.sessionSeq++
	sessionID := c.inner.nextSession
	c.inner.nextSession++
	c.inner.mu.Unlock()

	return &Fake{cluster: c.inner, id: sessionID, watcher: watcher}
}

func (f *Fake) Exists(ctx context.Context, p string, watch bool) (*Stat, error) {
	f.cluster.mu.Lock()
	defer f.cluster.mu.Unlock()
	n, ok := f.cluster.nodes.Get(p)
	if !ok {
		return nil, nil
	}
	return &Stat{Version: n.version}, nil
}

func (f *Fake) Create(ctx context.Context, p string, payload []byte, acl ACL, mode Mode) (string, error) {
	f.cluster.mu.Lock()
	defer f.cluster.mu.Unlock()

	if _, ok := f.cluster.nodes.Get(p); ok {
		return "", fmt.Errorf("memstore: node exists: %s", p)
	}

	f.cluster.nodes.Set(p, &znode{payload: payload, mode: mode, owner: f.id})
	f.notifyChildrenLocked(path.Dir(p))
	return p, nil
}

func (f *Fake) Delete(ctx context.Context, p string, version int32) error {
	f.cluster.mu.Lock()
	defer f.cluster.mu.Unlock()

	n, ok := f.cluster.nodes.Get(p)
	if !ok {
		return fmt.Errorf("memstore: no such node: %s", p)
	}
	if version != -1 && n.version != version {
		return fmt.Errorf("memstore: version mismatch for %s", p)
	}

	f.cluster.nodes.Delete(p)
	f.notifyChildrenLocked(path.Dir(p))
	return nil
}

func (f *Fake) GetChildren(ctx context.Context, p string, watch bool) ([]string, error) {
	f.cluster.mu.Lock()
	var children []string
	prefix := p
	if prefix != "/" {
		prefix += "/"
	}
	for _, key := range f.cluster.nodes.Keys() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix && path.Dir(key) == p {
			children = append(children, key[len(prefix):])
		}
	}

	if watch {
		ch := make(chan struct{}, 1)
		f.cluster.childWatch[p] = append(f.cluster.childWatch[p], ch)
		go f.waitChildWatch(p, ch)
	}
	f.cluster.mu.Unlock()

	sort.Strings(children)
	return children, nil
}

func (f *Fake) GetData(ctx context.Context, p string, watch bool) ([]byte, error) {
	f.cluster.mu.Lock()
	defer f.cluster.mu.Unlock()
	n, ok := f.cluster.nodes.Get(p)
	if !ok {
		return nil, fmt.Errorf("memstore: no such node: %s", p)
	}
	return n.payload, nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	f.cluster.mu.Lock()
	defer f.cluster.mu.Unlock()
	for _, key := range f.cluster.nodes.Keys() {
		if n, ok := f.cluster.nodes.Get(key); ok && n.mode == Ephemeral && n.owner == f.id {
			f.cluster.nodes.Delete(key)
			f.notifyChildrenLocked(path.Dir(key))
		}
	}
	return nil
}

// Deliver lets a test push a synthetic session event (Connected,
// Disconnected, Expired) to this Fake's watcher, simulating what a real
// store client would report asynchronously.
func (f *Fake) Deliver(ev Event) {
	f.watcher(ev)
}

func (f *Fake) notifyChildrenLocked(parent string) {
	for _, ch := range f.cluster.childWatch[parent] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	delete(f.cluster.childWatch, parent)
}

func (f *Fake) waitChildWatch(p string, ch chan struct{}) {
	<-ch
	f.watcher(Event{State: SyncConnected, Type: NodeChildrenChanged, Path: p})
}
