// Package handler provides HTTP request handlers for the cluster
// membership coordination core's metrics/health surface.
package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /healthz. It reports the process is alive
// regardless of coordination-store session state.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /readyz. Readiness requires a Connected
// coordination-store session, not merely process liveness.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.core.Connected() {
		h.writeError(w, r, http.StatusServiceUnavailable, "CK-MGR-5030", "not connected to coordination store", nil)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
