// Package httpserver provides the metrics/health HTTP surface for the
// cluster membership coordination core.
package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_SetsHeaderWhenAbsent(t *testing.T) {
	h := RequestID()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID to be set")
	}
}

func TestRequestID_PreservesIncomingHeader(t *testing.T) {
	h := RequestID()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied" {
		t.Errorf("expected caller-supplied request id preserved, got %q", got)
	}
}

func TestRecover_CatchesPanic(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recover(slog.New(slog.NewTextHandler(io.Discard, nil)))(panicking)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after recovered panic, got %d", rec.Code)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"https://example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
}

func TestCORS_RejectsUnlistedOrigin(t *testing.T) {
	h := CORS([]string{"https://example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unlisted origin, got %q", got)
	}
}

func TestCORS_EmptyAllowListAllowsAny(t *testing.T) {
	h := CORS(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("expected origin echoed back with empty allow list, got %q", got)
	}
}

func TestRateLimit_BlocksAfterBurstExhausted(t *testing.T) {
	h := RateLimit(1, 1)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	req.RemoteAddr = "10.0.0.5:1234"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected second immediate request to be limited, got %d", second.Code)
	}
}

func TestRateLimit_TracksClientsIndependently(t *testing.T) {
	h := RateLimit(1, 1)(okHandler())

	reqA := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	reqA.RemoteAddr = "10.0.0.5:1234"
	recA := httptest.NewRecorder()
	h.ServeHTTP(recA, reqA)

	reqB := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
	reqB.RemoteAddr = "10.0.0.9:4321"
	recB := httptest.NewRecorder()
	h.ServeHTTP(recB, reqB)

	if recA.Code != http.StatusOK || recB.Code != http.StatusOK {
		t.Errorf("expected independent clients to each get their own burst, got %d and %d", recA.Code, recB.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(r *http.Request)
		want    string
	}{
		{
			name: "XForwardedFor",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
			},
			want: "203.0.113.5",
		},
		{
			name: "XRealIP",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "203.0.113.7")
			},
			want: "203.0.113.7",
		},
		{
			name: "RemoteAddr",
			setup: func(r *http.Request) {
				r.RemoteAddr = "203.0.113.9:5555"
			},
			want: "203.0.113.9",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/nodes", nil)
			tc.setup(req)
			if got := getClientIP(req); got != tc.want {
				t.Errorf("getClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestChain_AppliesInOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mark("first"), mark("second"))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected middlewares applied outer-to-inner, got %v", order)
	}
}
