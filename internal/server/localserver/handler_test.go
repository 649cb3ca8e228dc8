package localserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nodacore/clusterkeeper/internal/membership/core"
	"github.com/nodacore/clusterkeeper/internal/membership/store"
	"github.com/nodacore/clusterkeeper/internal/telemetry/metric"
)

const testToken = "ckctl_test-token"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cluster := store.NewFakeCluster()

	dial := func(_ context.Context, _ string, _ int64, w store.Watcher) (store.Client, error) {
		return cluster.Dial(w), nil
	}

	c := core.New(core.Config{Addr: "fake:2181", SessionTimeoutMillis: 5000, Root: "/ck", Dial: dial})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.PostConnectedForTest()

	deadline := time.Now().Add(time.Second)
	for !c.Connected() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	return NewHandler(c, testToken, metric.NewRegistry())
}

func execute(t *testing.T, h *Handler, line string) response {
	t.Helper()
	var buf bytes.Buffer
	if err := h.Execute(context.Background(), &buf, line); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var resp response
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body=%q)", err, buf.String())
	}
	return resp
}

func TestHandlerRejectsBadToken(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, "wrong-token status\n")
	if resp.OK {
		t.Fatal("expected bad token to be rejected")
	}
}

func TestHandlerRejectsMalformedLine(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, "\n")
	if resp.OK {
		t.Fatal("expected malformed request to be rejected")
	}
}

func TestHandlerStatus(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, testToken+" status\n")
	if !resp.OK {
		t.Fatalf("expected ok response, got %+v", resp)
	}
}

func TestHandlerAddNodeThenList(t *testing.T) {
	h := newTestHandler(t)

	add := execute(t, h, testToken+" add-node 1 host-1:31313 0 1\n")
	if !add.OK {
		t.Fatalf("add-node failed: %+v", add)
	}

	deadline := time.Now().Add(time.Second)
	var list response
	for time.Now().Before(deadline) {
		list = execute(t, h, testToken+" list\n")
		data, _ := list.Data.(map[string]any)
		if nodes, ok := data["nodes"].([]any); ok && len(nodes) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	data, ok := list.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected list data to be a map, got %+v", list.Data)
	}
	nodes, ok := data["nodes"].([]any)
	if !ok || len(nodes) != 1 {
		t.Fatalf("expected 1 node in list, got %+v", data)
	}
}

func TestHandlerRemoveNodeUnknownIDIsIdempotent(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, testToken+" remove-node 99\n")
	if !resp.OK {
		t.Fatalf("expected removing an unknown node id to be a no-op, got %+v", resp)
	}
}

func TestHandlerRemoveNodeBadID(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, testToken+" remove-node not-a-number\n")
	if resp.OK {
		t.Fatal("expected non-numeric id to be rejected")
	}
}

func TestHandlerUnknownCommand(t *testing.T) {
	h := newTestHandler(t)
	resp := execute(t, h, testToken+" nonsense\n")
	if resp.OK {
		t.Fatal("expected unknown command to be rejected")
	}
}

func TestHandlerRecordsCommandMetrics(t *testing.T) {
	h := newTestHandler(t)

	add := execute(t, h, testToken+" add-node 1 host-1:31313 0\n")
	if !add.OK {
		t.Fatalf("add-node failed: %+v", add)
	}
	badAdd := execute(t, h, testToken+" add-node not-a-number host-2:31313\n")
	if badAdd.OK {
		t.Fatal("expected non-numeric id to be rejected")
	}

	body := scrapeMetrics(t, h.metrics)
	for _, want := range []string{
		`clusterkeeper_commands_total{kind="add-node",outcome="success"} 1`,
		`clusterkeeper_commands_total{kind="add-node",outcome="error"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}

func scrapeMetrics(t *testing.T, registry *metric.Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, req)
	return rec.Body.String()
}
