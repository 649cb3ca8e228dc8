// Package localserver provides the Unix domain socket control plane for
// the cluster membership coordination core.
//
// Each connection carries exactly one request: a single line of the form
// "<token> <command> [args...]", followed by a single-line JSON response.
// The bearer token is generated once at process startup (see pkg/token)
// and written to the runtime directory with mode 0600; it never leaves
// the local machine, so this interface carries no TLS or network ACL of
// its own.
//
// Supported commands: add-node, remove-node, mark-available,
// mark-unavailable, list, status.
package localserver
