package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/overlaysync/internal/server/events"
	"github.com/agentstation/overlaysync/internal/server/response"
	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// HandleStatus handles GET /api/v1/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.engine.Status())
}

// HandleSeverities handles GET /api/v1/severity.
func (h *Handlers) HandleSeverities(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.engine.Severities())
}

// HandleSeverity handles GET /api/v1/severity/{key}. Keys that were never
// observed report nominal.
func (h *Handlers) HandleSeverity(w http.ResponseWriter, _ *http.Request, key string) {
	response.OK(w, map[string]any{
		"key":      key,
		"severity": h.engine.Severity(key),
	})
}

// HandleDesired handles GET /api/v1/desired.
func (h *Handlers) HandleDesired(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.engine.Desired())
}

type setDesiredRequest struct {
	Value *string `json:"value"`
}

// HandleSetDesired handles PUT /api/v1/desired/{key} with a body of
// {"value": "..."}. Rejected overrides answer 422 with the outcome.
func (h *Handlers) HandleSetDesired(w http.ResponseWriter, r *http.Request, key string) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)

	var req setDesiredRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if req.Value == nil {
		response.BadRequest(w, "Invalid request body", `field "value" is required`)
		return
	}

	out := h.engine.SetDesired(key, *req.Value)
	if !out.Accepted() {
		response.Unprocessable(w, out, "OVERRIDE_REJECTED", "Override rejected", string(out.Reason))
		return
	}
	if out.Result == overlay.Applied {
		h.broker.Publish(events.DesiredChanged, out)
	}
	response.OK(w, out)
}

// HandleCatalog handles GET /api/v1/catalog.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	data := h.cache.GetOrLoad("catalog", func() any {
		return h.engine.Catalog().Entries()
	})
	response.OK(w, data)
}

// HandleCatalogKey handles GET /api/v1/catalog/{key}.
func (h *Handlers) HandleCatalogKey(w http.ResponseWriter, _ *http.Request, key string) {
	cat := h.engine.Catalog()
	if !cat.Has(key) {
		response.NotFound(w, "Key not in catalog", key)
		return
	}
	data := h.cache.GetOrLoad("catalog/"+key, func() any {
		return map[string]any{"key": key, "values": cat.Values(key)}
	})
	response.OK(w, data)
}
