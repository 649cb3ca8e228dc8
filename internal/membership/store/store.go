// Package store defines the coordination-store client contract this repo
// consumes, plus a production implementation backed by ZooKeeper and an
// in-memory fake for tests.
package store

import "context"

// Mode selects the persistence mode of a created node.
type Mode int

const (
	// Persistent nodes survive the session that created them.
	Persistent Mode = iota
	// Ephemeral nodes are deleted when the owning session ends.
	Ephemeral
)

// SessionState describes the state of the coordination-store session, as
// reported to a Watcher.
type SessionState int

const (
	SyncConnected SessionState = iota
	Disconnected
	Expired
)

// EventType describes the kind of tree event a Watcher may receive.
type EventType int

const (
	// None carries only a session-state change, no tree event.
	None EventType = iota
	// NodeChildrenChanged fires when a watched node's children changed.
	NodeChildrenChanged
)

// Event is what a Watcher receives from the store client, on a foreign
// goroutine owned by the client — handlers must not block it.
type Event struct {
	State SessionState
	Type  EventType
	Path  string
}

// Watcher receives coordination-store events. Implementations (the
// Watcher Adapter) must enqueue and return promptly.
type Watcher func(Event)

// Stat is the subset of znode metadata this repo needs.
type Stat struct {
	Version int32
}

// ACL is an opaque access-control descriptor; PermissiveACL grants
// unrestricted access, matching spec §4.4's "permissive ACL" requirement.
type ACL struct {
	Scheme string
	ID     string
	Perms  int32
}

// PermissiveACL grants read/write/create/delete/admin to anyone, the
// "permissive ACL" spec §4.4 requires for membership/availability znodes.
var PermissiveACL = ACL{Scheme: "world", ID: "anyone", Perms: 0x1f}

// Client is the coordination store as consumed by the Cluster Manager
// (spec §6). All methods are synchronous; callers invoke them from a
// single goroutine (the Cluster Manager's mailbox loop).
type Client interface {
	// Exists reports whether path exists, optionally arming a watch that
	// fires once on the next change to path.
	Exists(ctx context.Context, path string, watch bool) (*Stat, error)

	// Create creates path with payload under mode and acl, returning the
	// created path.
	Create(ctx context.Context, path string, payload []byte, acl ACL, mode Mode) (string, error)

	// Delete removes path at the given version (-1 to skip the version
	// check, per spec §6).
	Delete(ctx context.Context, path string, version int32) error

	// GetChildren lists path's children, optionally arming a watch that
	// fires once the next time the child set changes.
	GetChildren(ctx context.Context, path string, watch bool) ([]string, error)

	// GetData fetches path's payload, optionally arming a watch.
	GetData(ctx context.Context, path string, watch bool) ([]byte, error)

	// Close tears down the session. Safe to call at most once per Client;
	// callers (the Cluster Manager) are responsible for the "exactly once"
	// contract from spec §5.
	Close() error
}

// Dialer opens a new Client against addr, delivering session/tree events
// to watcher for the lifetime of the returned Client.
type Dialer func(ctx context.Context, addr string, sessionTimeout int64, watcher Watcher) (Client, error)
