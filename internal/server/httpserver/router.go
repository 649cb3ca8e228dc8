// Package httpserver provides the metrics/health HTTP surface for the
// cluster membership coordination core.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/nodacore/clusterkeeper/internal/membership/core"
	"github.com/nodacore/clusterkeeper/internal/server/httpserver/handler"
	"github.com/nodacore/clusterkeeper/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Core is the Cluster Manager facade backing /healthz, /readyz, and
	// /v1/nodes.
	Core *core.Core

	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// RateLimitPerSecond is the per-client-IP rate limit. Zero disables
	// rate limiting.
	RateLimitPerSecond float64

	// RateLimitBurst is the token-bucket burst size for RateLimitPerSecond.
	RateLimitBurst int
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Core, cfg.Logger)

	chain := []Middleware{
		Recover(cfg.Logger),
		CORS(cfg.CORSAllowedOrigins),
		RequestID(),
	}
	if cfg.RateLimitPerSecond > 0 {
		chain = append(chain, RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", Chain(h, chain...))
	mux.Handle("GET /readyz", Chain(h, chain...))
	mux.Handle("GET /v1/nodes", Chain(h, chain...))
	mux.Handle("GET /v1/nodes/{id}", Chain(h, chain...))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(cfg.Logger), RequestID()))
	}

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimitPerSecond: 1000,
		RateLimitBurst:     50,
	}
}
