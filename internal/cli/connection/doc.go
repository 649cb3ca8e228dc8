// Package connection provides the control-socket client for
// clusterkeeper-cli.
//
//   - socket.go: Unix domain socket client speaking the local control
//     plane's one-request-per-connection line protocol
package connection
