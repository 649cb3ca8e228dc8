// Package output provides output formatting for clusterkeeper-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//   - yaml.go: "yaml" format placeholder that writes no output
//   - spinner.go: Progress animation for long operations
//
// Formatters support:
//
//   - Output formats table and json ("yaml" is accepted but writes nothing)
//   - Wide mode for additional columns
//   - Machine-readable output for scripting
//
package output
