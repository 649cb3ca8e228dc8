package config

import "errors"

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyCoordination(&cfg.Coordination); err != nil {
		return err
	}
	if err := verifyControl(&cfg.Control); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return nil
}

func verifyCoordination(cfg *CoordinationSection) error {
	if cfg.Addr == "" {
		return errors.New("coordination.addr is required")
	}
	if cfg.SessionTimeoutMillis <= 0 {
		return errors.New("coordination.session_timeout_millis must be positive")
	}
	if cfg.Root == "" {
		return errors.New("coordination.root is required")
	}
	if cfg.Root[0] != '/' {
		return errors.New("coordination.root must be an absolute znode path")
	}
	return nil
}

func verifyControl(cfg *ControlSection) error {
	if cfg.SocketPath == "" {
		return errors.New("control.socket_path is required")
	}
	if cfg.TokenPath == "" {
		return errors.New("control.token_path is required")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.Addr == "" {
		return errors.New("metrics.addr is required")
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("metrics.tls_cert_file and metrics.tls_key_file must be set together")
	}
	if cfg.RateLimitPerSecond < 0 {
		return errors.New("metrics.rate_limit_per_second must not be negative")
	}
	if cfg.RateLimitBurst < 0 {
		return errors.New("metrics.rate_limit_burst must not be negative")
	}
	return nil
}
