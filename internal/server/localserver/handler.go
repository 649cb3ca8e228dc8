package localserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nodacore/clusterkeeper/internal/membership/core"
	"github.com/nodacore/clusterkeeper/internal/membership/domain"
	"github.com/nodacore/clusterkeeper/internal/telemetry/metric"
	"github.com/nodacore/clusterkeeper/pkg/token"
)

// Handler dispatches line-protocol commands against a Core facade,
// rejecting any request that does not present the expected bearer token.
type Handler struct {
	core      *core.Core
	tokenHash string
	metrics   *metric.Registry
}

// NewHandler creates a Handler that authenticates requests against tok and
// serves them from c. Every mutation command's outcome is recorded against
// registry. tok is hashed once here so that every request is verified with
// token.Verify's constant-time comparison instead of holding the raw token
// around for each check.
func NewHandler(c *core.Core, tok string, registry *metric.Registry) *Handler {
	return &Handler{core: c, tokenHash: token.Hash(tok), metrics: registry}
}

// observe records a mutation command's outcome against the metrics
// registry, where outcome is "success" or "error".
func (h *Handler) observe(kind, outcome string) {
	h.metrics.ObserveCommand(kind, outcome)
}

// Execute parses and runs a single request line, writing one line of JSON
// to w. A malformed line or bad token yields an error response rather
// than a connection-level error.
func (h *Handler) Execute(ctx context.Context, w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return writeLine(w, errorResponse("malformed request"))
	}

	given, fields := fields[0], fields[1:]
	if !token.Verify(given, h.tokenHash) {
		return writeLine(w, errorResponse("invalid token"))
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "add-node":
		return writeLine(w, h.handleAddNode(ctx, args))
	case "remove-node":
		return writeLine(w, h.handleRemoveNode(ctx, args))
	case "mark-available":
		return writeLine(w, h.handleMarkAvailable(ctx, args))
	case "mark-unavailable":
		return writeLine(w, h.handleMarkUnavailable(ctx, args))
	case "list":
		return writeLine(w, h.handleList())
	case "status":
		return writeLine(w, h.handleStatus())
	default:
		return writeLine(w, errorResponse(fmt.Sprintf("unknown command: %s", cmd)))
	}
}

func (h *Handler) handleAddNode(ctx context.Context, args []string) response {
	const kind = "add-node"
	if len(args) < 2 {
		h.observe(kind, "error")
		return errorResponse("usage: add-node <id> <url> [partition...]")
	}

	id, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		h.observe(kind, "error")
		return errorResponse("id must be an integer")
	}

	partitions := make([]int32, 0, len(args)-2)
	for _, p := range args[2:] {
		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			h.observe(kind, "error")
			return errorResponse("partition ids must be integers")
		}
		partitions = append(partitions, int32(v))
	}

	node, err := domain.NewNode(int32(id), args[1], partitions, false)
	if err != nil {
		h.observe(kind, "error")
		return errorResponse(err.Error())
	}

	if err := h.core.AddNode(ctx, node); err != nil {
		h.observe(kind, "error")
		return errorResponse(err.Error())
	}
	h.observe(kind, "success")
	return okResponse(nil)
}

func (h *Handler) handleRemoveNode(ctx context.Context, args []string) response {
	const kind = "remove-node"
	id, ok := parseSingleID(args)
	if !ok {
		h.observe(kind, "error")
		return errorResponse("usage: remove-node <id>")
	}
	if err := h.core.RemoveNode(ctx, id); err != nil {
		h.observe(kind, "error")
		return errorResponse(err.Error())
	}
	h.observe(kind, "success")
	return okResponse(nil)
}

func (h *Handler) handleMarkAvailable(ctx context.Context, args []string) response {
	const kind = "mark-available"
	id, ok := parseSingleID(args)
	if !ok {
		h.observe(kind, "error")
		return errorResponse("usage: mark-available <id>")
	}
	if err := h.core.MarkNodeAvailable(ctx, id); err != nil {
		h.observe(kind, "error")
		return errorResponse(err.Error())
	}
	h.observe(kind, "success")
	return okResponse(nil)
}

func (h *Handler) handleMarkUnavailable(ctx context.Context, args []string) response {
	const kind = "mark-unavailable"
	id, ok := parseSingleID(args)
	if !ok {
		h.observe(kind, "error")
		return errorResponse("usage: mark-unavailable <id>")
	}
	if err := h.core.MarkNodeUnavailable(ctx, id); err != nil {
		h.observe(kind, "error")
		return errorResponse(err.Error())
	}
	h.observe(kind, "success")
	return okResponse(nil)
}

func (h *Handler) handleList() response {
	view := h.core.View()
	nodes := view.Nodes()

	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{
			"id":         n.ID,
			"url":        n.URL,
			"partitions": n.Partitions,
			"available":  n.Available,
		})
	}
	return okResponse(map[string]any{"nodes": out})
}

func (h *Handler) handleStatus() response {
	return okResponse(map[string]any{
		"connected": h.core.Connected(),
		"nodes":     h.core.View().Len(),
	})
}

func parseSingleID(args []string) (int32, bool) {
	if len(args) != 1 {
		return 0, false
	}
	v, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// response is the single-line envelope every command replies with.
type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func okResponse(data any) response {
	return response{OK: true, Data: data}
}

func errorResponse(msg string) response {
	return response{OK: false, Error: msg}
}

func writeLine(w io.Writer, r response) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
