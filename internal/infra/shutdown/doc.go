// Package shutdown provides graceful shutdown for the cluster membership coordination core.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	if err := h.Wait(); err != nil { ... } // blocks until SIGINT/SIGTERM
//
package shutdown
