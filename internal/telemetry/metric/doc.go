// Package metric provides Prometheus metrics for the cluster membership
// coordination core.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//
// Metrics include:
//
//   - Session-connected gauge
//   - Cluster view size and availability gauges
//   - Refresh and mutation-command counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
