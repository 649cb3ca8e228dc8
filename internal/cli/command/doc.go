// Package command provides CLI command definitions for clusterkeeper-cli.
//
// This package defines the CLI commands using urfave/cli/v2:
//
//   - root.go: App assembly, global flags, token/socket client wiring
//   - node.go: node subcommand group (list/add/remove/mark-available/
//     mark-unavailable/status)
//
// Commands follow a consistent pattern: parse flags, build a
// connection.SocketClient, send one request, format the response.
package command
