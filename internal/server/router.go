package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/overlaysync/internal/server/handlers"
	"github.com/agentstation/overlaysync/internal/server/middleware"
	"github.com/agentstation/overlaysync/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(
		s.engine,
		s.cache,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)
	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", get(h.HandleReady))
	mux.HandleFunc(prefix+"/status", get(h.HandleStatus))

	mux.HandleFunc(prefix+"/severity", get(h.HandleSeverities))
	mux.HandleFunc(prefix+"/severity/", func(w http.ResponseWriter, r *http.Request) {
		key := extractPathParam(r.URL.Path, prefix+"/severity/")
		if key == "" {
			response.NotFound(w, "Key required", "")
			return
		}
		get(func(w http.ResponseWriter, r *http.Request) { h.HandleSeverity(w, r, key) })(w, r)
	})

	mux.HandleFunc(prefix+"/desired", get(h.HandleDesired))
	mux.HandleFunc(prefix+"/desired/", func(w http.ResponseWriter, r *http.Request) {
		key := extractPathParam(r.URL.Path, prefix+"/desired/")
		if key == "" {
			response.NotFound(w, "Key required", "")
			return
		}
		if r.Method != http.MethodPut {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleSetDesired(w, r, key)
	})

	mux.HandleFunc(prefix+"/catalog", get(h.HandleCatalog))
	mux.HandleFunc(prefix+"/catalog/", func(w http.ResponseWriter, r *http.Request) {
		key := extractPathParam(r.URL.Path, prefix+"/catalog/")
		if key == "" {
			response.NotFound(w, "Key required", "")
			return
		}
		get(func(w http.ResponseWriter, r *http.Request) { h.HandleCatalogKey(w, r, key) })(w, r)
	})

	mux.HandleFunc(prefix+"/events/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/events/stream", get(h.HandleSSE))
}

// get rejects every method but GET.
func get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// applyMiddleware wraps handler with the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}
	if s.config.CORSEnabled {
		cors := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			cors.AllowedOrigins = s.config.CORSOrigins
		}
		chain = append(chain, middleware.CORS(cors))
	}
	return middleware.Chain(chain...)(handler)
}

// extractPathParam returns the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	key, _, _ := strings.Cut(trimmed, "/")
	return key
}
