package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/factmerge/internal/server/response"
)

// HandleHealth handles GET /health and GET {prefix}/health.
// It is a liveness probe and never touches the merge pipeline.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "factmerge-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET {prefix}/ready.
// The server is ready once the field tables load and a merger can be built.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	tables, err := h.app.Tables()
	if err != nil {
		h.logger.Error().Err(err).Msg("Field tables not available")
		response.ServiceUnavailable(w, "Field tables not available")
		return
	}
	if _, err := h.app.Merger(); err != nil {
		h.logger.Error().Err(err).Msg("Merger not available")
		response.ServiceUnavailable(w, "Merger not available")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"fields": len(tables.Fields()),
		"cache":  h.cache.GetStats(),
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
