// Package main provides the entry point for clusterkeeper-cli.
//
// The CLI tool manages cluster membership over the local control
// socket, authenticated with the bearer token clusterkeeper-server
// wrote at startup:
//
//   - node list / node add / node remove
//   - node mark-available / node mark-unavailable
//   - node status
//
// Usage:
//
//	clusterkeeper-cli node list
//	clusterkeeper-cli node add 7 10.0.0.7:7000 0 1 2
//	clusterkeeper-cli --socket /tmp/ck.sock --token-file /tmp/ck.token node status
package main
