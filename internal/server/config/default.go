package config

// Default configuration values.
const (
	DefaultCoordinationAddr            = "127.0.0.1:2181"
	DefaultSessionTimeoutMillis        = 10_000
	DefaultRoot                        = "/clusterkeeper"

	DefaultSocketPath    = "/var/run/clusterkeeper/control.sock"
	DefaultControlTarget = DefaultSocketPath
	DefaultTokenPath     = "/var/run/clusterkeeper/control.token"

	DefaultMetricsAddr         = "127.0.0.1:9090"
	DefaultRateLimitPerSecond  = 20
	DefaultRateLimitBurst      = 40

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default coordinator configuration.
func Default() *Config {
	return &Config{
		Coordination: CoordinationSection{
			Addr:                 DefaultCoordinationAddr,
			SessionTimeoutMillis: DefaultSessionTimeoutMillis,
			Root:                 DefaultRoot,
		},
		Control: ControlSection{
			SocketPath:    DefaultSocketPath,
			DefaultTarget: DefaultControlTarget,
			TokenPath:     DefaultTokenPath,
		},
		Metrics: MetricsSection{
			Addr:               DefaultMetricsAddr,
			RateLimitPerSecond: DefaultRateLimitPerSecond,
			RateLimitBurst:     DefaultRateLimitBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
