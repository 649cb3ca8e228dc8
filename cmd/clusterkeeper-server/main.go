// Package main provides the entry point for clusterkeeper-server.
//
// clusterkeeper-server runs the cluster membership coordination core: it
// holds a coordination-store session, republishes the cluster view to
// in-process subscribers, and exposes that view over a metrics/health
// HTTP surface and a local control socket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nodacore/clusterkeeper/internal/infra/buildinfo"
	"github.com/nodacore/clusterkeeper/internal/infra/confloader"
	"github.com/nodacore/clusterkeeper/internal/infra/shutdown"
	"github.com/nodacore/clusterkeeper/internal/membership/core"
	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/membership/notify"
	"github.com/nodacore/clusterkeeper/internal/server/config"
	"github.com/nodacore/clusterkeeper/internal/server/httpserver"
	"github.com/nodacore/clusterkeeper/internal/server/localserver"
	"github.com/nodacore/clusterkeeper/internal/telemetry/logger"
	"github.com/nodacore/clusterkeeper/internal/telemetry/metric"
	"github.com/nodacore/clusterkeeper/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "clusterkeeper-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to a YAML configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Info("starting clusterkeeper-server", "version", buildinfo.Version, "coordination_addr", cfg.Coordination.Addr)

	registry := metric.NewRegistry()

	c := core.New(core.Config{
		Addr:                 cfg.Coordination.Addr,
		SessionTimeoutMillis: cfg.Coordination.SessionTimeoutMillis,
		Root:                 cfg.Coordination.Root,
	})
	c.Subscribe(metricsListener(registry))

	startCtx, cancelStart := context.WithTimeout(context.Background(), config.ReconnectBudget)
	defer cancelStart()
	if err := c.Start(startCtx); err != nil {
		return fmt.Errorf("start coordination session: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Core:               c,
		Metrics:            registry,
		Logger:             slogLogger,
		RateLimitPerSecond: cfg.Metrics.RateLimitPerSecond,
		RateLimitBurst:     cfg.Metrics.RateLimitBurst,
	})
	metricsServer, err := httpserver.New(cfg.Metrics.Addr, router, cfg.Metrics.TLSCertFile, cfg.Metrics.TLSKeyFile)
	if err != nil {
		return fmt.Errorf("init metrics server: %w", err)
	}

	controlToken, err := mintControlToken(cfg.Control.TokenPath)
	if err != nil {
		return fmt.Errorf("mint control token: %w", err)
	}
	localHandler := localserver.NewHandler(c, controlToken, registry)
	localSrv := localserver.New(cfg.Control.SocketPath, localHandler)

	sh := shutdown.NewHandler(30 * time.Second)
	// Hooks run in reverse registration order, so register in startup
	// order: the local socket and HTTP server stop accepting new work
	// before the coordination session is torn down underneath them.
	sh.OnShutdown(func(ctx context.Context) error {
		return c.Shutdown(ctx)
	})
	sh.OnShutdown(func(ctx context.Context) error {
		return metricsServer.Shutdown(ctx)
	})
	sh.OnShutdown(func(ctx context.Context) error {
		return localSrv.Shutdown(ctx)
	})
	sh.OnShutdown(func(ctx context.Context) error {
		if err := os.Remove(cfg.Control.TokenPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})

	go func() {
		log.Info("local control socket listening", "path", cfg.Control.SocketPath)
		if err := localSrv.ListenAndServe(); err != nil {
			log.Error("local control socket exited", "error", err)
		}
	}()

	go func() {
		log.Info("metrics/health server listening", "addr", cfg.Metrics.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics/health server exited", "error", err)
		}
	}()

	if err := sh.Wait(); err != nil {
		log.Error("shutdown hooks returned errors", "error", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// loadConfig loads and verifies the server configuration, starting from
// defaults and overlaying an optional YAML file and environment
// variables.
func loadConfig(configFile string) (*config.Config, error) {
	cfg := config.Default()

	loader := confloader.NewLoader(confloader.WithConfigFile(configFile))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger builds both the convenience Logger (installed as the
// package default for code that calls logger.Info/Error directly) and
// the raw *slog.Logger handed to components that take log/slog, sharing
// the same JSON/redaction handler.
func initLogger(cfg *config.Config) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.SetDefault(log)

	return log, logger.Slog(log), nil
}

// mintControlToken generates a fresh bearer token for the local control
// socket and writes it to path with owner-only permissions. The token
// never crosses the network, so there is no rotation story beyond
// restarting the process.
func mintControlToken(path string) (string, error) {
	raw, err := token.Generate()
	if err != nil {
		return "", err
	}
	full := "ckctl_" + raw

	if err := os.WriteFile(path, []byte(full+"\n"), 0600); err != nil {
		return "", fmt.Errorf("write token file %s: %w", path, err)
	}
	return full, nil
}

// metricsListener keeps the Prometheus registry's gauges in sync with
// the Notification Manager's event stream.
func metricsListener(registry *metric.Registry) notify.Listener {
	return func(ev notify.Event) {
		switch ev.Kind {
		case notify.EventConnected:
			registry.SessionConnected.Set(1)
			observeView(registry, ev.View)
		case notify.EventNodesChanged:
			registry.Refreshes.Inc()
			observeView(registry, ev.View)
		case notify.EventDisconnected, notify.EventShutdown:
			registry.SessionConnected.Set(0)
		}
	}
}

func observeView(registry *metric.Registry, view domain.View) {
	available := 0
	for _, n := range view.Nodes() {
		if n.Available {
			available++
		}
	}
	registry.ObserveView(view.Len(), available)
}
