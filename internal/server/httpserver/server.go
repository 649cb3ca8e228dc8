// Package httpserver provides the metrics/health HTTP surface for the
// cluster membership coordination core.
package httpserver

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/nodacore/clusterkeeper/internal/infra/tlsroots"
)

// Server represents the metrics/health HTTP server.
type Server struct {
	httpServer *http.Server
	certWatch  *tlsroots.Watcher
}

// New creates a new HTTP server bound to addr. If certFile/keyFile are
// both set, the server reloads its certificate on change via
// tlsroots.Watcher instead of reading the files once at startup.
func New(addr string, handler http.Handler, certFile, keyFile string) (*Server, error) {
	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}

	if certFile == "" {
		return s, nil
	}

	watcher, err := tlsroots.NewWatcher(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	watcher.StartAsync()
	s.certWatch = watcher
	s.httpServer.TLSConfig = &tls.Config{GetCertificate: watcher.GetCertificate}

	return s, nil
}

// ListenAndServe starts the server, serving TLS if a certificate watcher
// was configured.
func (s *Server) ListenAndServe() error {
	if s.certWatch != nil {
		return s.httpServer.ListenAndServeTLS("", "")
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.certWatch != nil {
		s.certWatch.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
