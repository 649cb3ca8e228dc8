// Package output provides output formatting for clusterkeeper-cli.
package output

import "io"

// YAMLFormatter is the formatter selected for the "yaml" output format.
// It does not encode YAML.
type YAMLFormatter struct{}

// Format writes nothing to w and returns nil.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	// TODO: Use gopkg.in/yaml.v3 for YAML encoding
	return nil
}
