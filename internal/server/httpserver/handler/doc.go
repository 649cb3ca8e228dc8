// Package handler provides HTTP request handlers for the cluster
// membership coordination core's metrics/health surface.
//
// This package contains handlers for all HTTP endpoints:
//
//   - health.go: Health and readiness checks
//   - nodes.go: Read-only view of the current cluster membership
//
// All handlers follow a consistent pattern:
//
//   - Call into the Cluster Manager facade
//   - Format and return a JSON response
//   - Handle errors with appropriate HTTP status codes
package handler
