package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/overlaysync/internal/server/events"
)

// HandleWebSocket handles GET /api/v1/events/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.wsHub.Serve(r.RemoteAddr, conn)
	h.broker.Publish(events.ClientConnected, map[string]any{
		"transport": "websocket",
		"at":        time.Now(),
	})
}

// HandleSSE handles GET /api/v1/events/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
