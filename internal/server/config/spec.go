// Package config defines the coordinator's configuration structure.
package config

import "time"

// Config is the root configuration for clusterkeeper-server.
type Config struct {
	Coordination CoordinationSection `koanf:"coordination"`
	Control      ControlSection      `koanf:"control"`
	Metrics      MetricsSection      `koanf:"metrics"`
	Log          LogSection          `koanf:"log"`
}

// CoordinationSection configures the coordination-store session.
type CoordinationSection struct {
	// Addr is a comma-separated list of coordination-store server
	// addresses (e.g. "zk1:2181,zk2:2181,zk3:2181").
	Addr string `koanf:"addr"`

	// SessionTimeoutMillis is the requested session timeout, in
	// milliseconds, negotiated with the coordination store on connect.
	SessionTimeoutMillis int64 `koanf:"session_timeout_millis"`

	// Root is the cluster root znode path under which members/ and
	// available/ live (e.g. "/clusterkeeper/prod").
	Root string `koanf:"root"`
}

// ControlSection configures the local management socket.
type ControlSection struct {
	// SocketPath is the filesystem path of the Unix domain socket the
	// control server listens on.
	SocketPath string `koanf:"socket_path"`

	// DefaultTarget is the socket path the CLI connects to when the
	// user doesn't override it with a flag.
	DefaultTarget string `koanf:"default_target"`

	// TokenPath is the filesystem path the control server writes its
	// freshly generated bearer token to at startup (mode 0600), and the
	// path the CLI reads it back from.
	TokenPath string `koanf:"token_path"`
}

// MetricsSection configures the metrics/health HTTP server.
type MetricsSection struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
	TLSCAFile   string `koanf:"tls_ca_file"`

	// RateLimitPerSecond bounds requests per client IP across the
	// metrics/health/nodes endpoints.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst      int    `koanf:"rate_limit_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ReconnectBudget bounds the context the server passes to Core.Start when
// it opens the coordination-store session at startup. Start returns once
// the session is dialed; it does not wait for the session to report
// Connected.
const ReconnectBudget = 30 * time.Second
