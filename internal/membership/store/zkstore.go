package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/nodacore/clusterkeeper/internal/telemetry/logger"
)

// zkClient backs Client with a real ZooKeeper session via go-zookeeper/zk.
type zkClient struct {
	conn        *zk.Conn
	log         logger.Logger
	cancel      context.CancelFunc
	onTreeEvent Watcher
}

// Dial connects to a ZooKeeper ensemble and starts forwarding session
// events to watcher. sessionTimeout is in milliseconds, matching spec §6.
func Dial(ctx context.Context, addr string, sessionTimeout int64, watcher Watcher) (Client, error) {
	return dialWithServers(splitAddrs(addr), sessionTimeout, watcher)
}

func dialWithServers(servers []string, sessionTimeout int64, watcher Watcher) (Client, error) {
	conn, events, err := zk.Connect(servers, time.Duration(sessionTimeout)*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("zk connect: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c := &zkClient{
		conn:        conn,
		log:         logger.Default().With("component", "zkstore"),
		cancel:      cancel,
		onTreeEvent: watcher,
	}

	go c.pumpSessionEvents(runCtx, events, watcher)

	return c, nil
}

func (c *zkClient) pumpSessionEvents(ctx context.Context, events <-chan zk.Event, watcher Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if state, handled := translateState(ev.State); handled {
				watcher(Event{State: state, Type: None})
			}
		}
	}
}

func translateState(s zk.State) (SessionState, bool) {
	switch s {
	case zk.StateConnected, zk.StateHasSession:
		return SyncConnected, true
	case zk.StateDisconnected:
		return Disconnected, true
	case zk.StateExpired:
		return Expired, true
	default:
		return 0, false
	}
}

func (c *zkClient) Exists(ctx context.Context, path string, watch bool) (*Stat, error) {
	if !watch {
		ok, stat, err := c.conn.Exists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &Stat{Version: stat.Version}, nil
	}

	ok, stat, ch, err := c.conn.ExistsW(path)
	if err != nil {
		return nil, err
	}
	c.armNodeWatch(path, ch)
	if !ok {
		return nil, nil
	}
	return &Stat{Version: stat.Version}, nil
}

func (c *zkClient) Create(ctx context.Context, path string, payload []byte, acl ACL, mode Mode) (string, error) {
	var flags int32
	if mode == Ephemeral {
		flags = zk.FlagEphemeral
	}
	return c.conn.Create(path, payload, flags, translateACL(acl))
}

func (c *zkClient) Delete(ctx context.Context, path string, version int32) error {
	return c.conn.Delete(path, version)
}

func (c *zkClient) GetChildren(ctx context.Context, path string, watch bool) ([]string, error) {
	if !watch {
		children, _, err := c.conn.Children(path)
		return children, err
	}

	children, _, ch, err := c.conn.ChildrenW(path)
	if err != nil {
		return nil, err
	}
	c.armChildrenWatch(path, ch)
	return children, nil
}

func (c *zkClient) GetData(ctx context.Context, path string, watch bool) ([]byte, error) {
	if !watch {
		data, _, err := c.conn.Get(path)
		return data, err
	}

	data, _, ch, err := c.conn.GetW(path)
	if err != nil {
		return nil, err
	}
	c.armNodeWatch(path, ch)
	return data, nil
}

func (c *zkClient) Close() error {
	c.cancel()
	c.conn.Close()
	return nil
}

// armChildrenWatch waits on a one-shot ZK watch channel and forwards a
// NodeChildrenChanged event once it fires. ZK watches fire at most once
// (spec §4.4), so each armed watch needs its own goroutine.
func (c *zkClient) armChildrenWatch(path string, ch <-chan zk.Event) {
	go func() {
		ev, ok := <-ch
		if !ok {
			return
		}
		if ev.Type == zk.EventNodeChildrenChanged {
			c.forwardTreeEvent(path)
		}
	}()
}

func (c *zkClient) armNodeWatch(path string, ch <-chan zk.Event) {
	go func() {
		ev, ok := <-ch
		if !ok {
			return
		}
		if ev.Type == zk.EventNodeDataChanged || ev.Type == zk.EventNodeCreated || ev.Type == zk.EventNodeDeleted {
			c.forwardTreeEvent(path)
		}
	}()
}

func (c *zkClient) forwardTreeEvent(path string) {
	if c.onTreeEvent != nil {
		c.onTreeEvent(Event{State: SyncConnected, Type: NodeChildrenChanged, Path: path})
	}
}

func translateACL(a ACL) []zk.ACL {
	return []zk.ACL{{Perms: a.Perms, Scheme: a.Scheme, ID: a.ID}}
}

func splitAddrs(addr string) []string {
	var servers []string
	start := 0
	for i := 0; i <= len(addr); i++ {
		if i == len(addr) || addr[i] == ',' {
			if i > start {
				servers = append(servers, addr[start:i])
			}
			start = i + 1
		}
	}
	if len(servers) == 0 {
		return []string{addr}
	}
	return servers
}
