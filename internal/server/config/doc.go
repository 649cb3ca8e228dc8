// Package config defines the coordinator's configuration structure and
// validation.
//
//   - spec.go: Config struct definition
//   - default.go: default configuration values
//   - verify.go: required-field and value validation
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: a YAML file, environment variables, and defaults.
package config
