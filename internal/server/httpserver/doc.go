// Package httpserver provides the metrics/health HTTP surface for the
// cluster membership coordination core.
//
// This package implements the ambient external API using stdlib
// net/http:
//
//   - Health endpoints: /healthz, /readyz
//   - Metrics: /metrics (Prometheus exposition format)
//   - Read-only view: /v1/nodes
//
// Features:
//
//   - TLS support with automatic certificate reload via internal/infra/tlsroots
//   - Middleware chain: Recover, CORS, RequestID, then RateLimit when a
//     per-second limit is set
//   - Graceful shutdown with configurable timeout
package httpserver
