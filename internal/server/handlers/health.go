package handlers

import (
	"net/http"

	"github.com/agentstation/overlaysync/internal/server/response"
)

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "overlaysync",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The engine is ready once its
// worker is running.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	st := h.engine.Status()
	if !st.Running {
		response.JSON(w, http.StatusServiceUnavailable, response.Fail(
			"SERVICE_UNAVAILABLE", "Service unavailable", "engine worker is not running"))
		return
	}
	response.OK(w, map[string]any{
		"status":            "ready",
		"state":             st.State,
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
