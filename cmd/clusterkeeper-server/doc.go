// Package main provides the entry point for clusterkeeper-server.
//
// The server runs the cluster membership coordination core:
//
//   - a coordination-store session (Node Codec + Watcher Adapter +
//     Cluster Manager) that keeps a live view of registered nodes
//   - a metrics/health HTTP surface (/healthz, /readyz, /metrics,
//     /v1/nodes)
//   - a local Unix control socket for mutating the view (add/remove/
//     mark-available/mark-unavailable), authenticated with a bearer
//     token minted at startup and never sent over the network
//
// Usage:
//
//	clusterkeeper-server [flags]
//	clusterkeeper-server --config /path/to/config.yaml
//
// The server loads configuration, opens the coordination-store session,
// and starts the HTTP and control-socket listeners.
package main
