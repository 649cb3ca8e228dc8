package metric

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistryExposesInstruments(t *testing.T) {
	r := NewRegistry()

	r.SessionConnected.Set(1)
	r.ObserveView(3, 2)
	r.Refreshes.Inc()
	r.ObserveCommand("add_node", "success")
	r.ObserveCommand("add_node", "error")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"clusterkeeper_session_connected 1",
		"clusterkeeper_view_nodes 3",
		"clusterkeeper_view_available_nodes 2",
		`clusterkeeper_commands_total{kind="add_node",outcome="error"} 1`,
		`clusterkeeper_commands_total{kind="add_node",outcome="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}
