// Package handler provides HTTP request handlers for the cluster
// membership coordination core's metrics/health surface.
package handler

import (
	"net/http"
	"strconv"

	"github.com/nodacore/clusterkeeper/internal/membership/domain"
)

// handleListNodes handles GET /v1/nodes, returning the most recently
// published cluster view.
func (h *Handler) handleListNodes(w http.ResponseWriter, r *http.Request) {
	view := h.core.View()
	nodes := view.Nodes()

	resp := ListNodesResponse{
		Nodes: make([]NodeResponse, 0, len(nodes)),
		Total: len(nodes),
	}
	for _, n := range nodes {
		resp.Nodes = append(resp.Nodes, toNodeResponse(n))
		if n.Available {
			resp.Available++
		}
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleGetNode handles GET /v1/nodes/{id}.
func (h *Handler) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "CK-HTTP-4000", "id must be an integer", nil)
		return
	}

	node, ok := h.core.View().Get(int32(id))
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "CK-NODE-4040", "node not found", nil)
		return
	}

	h.writeJSON(w, r, http.StatusOK, toNodeResponse(node))
}

func toNodeResponse(n domain.Node) NodeResponse {
	return NodeResponse{
		ID:         n.ID,
		URL:        n.URL,
		Partitions: n.Partitions,
		Available:  n.Available,
	}
}
