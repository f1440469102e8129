// Package rest exposes the assistant over HTTP.
package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/castaway-labs/castaway/internal/core/services"
)

// Command bodies are small sentences; anything bigger is abuse.
const maxBodyBytes = 64 << 10

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Assistant // Dependency on the Core Service
	router *http.ServeMux      // Standard library router
	log    zerolog.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes. The metrics
// endpoint serves the given registry.
func NewHandler(svc *services.Assistant, registry *prometheus.Registry, log zerolog.Logger) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
		log:    log,
	}

	h.routes(registry)

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes(registry *prometheus.Registry) {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /v1/command", h.HandleCommand)
	h.router.HandleFunc("POST /v1/parse", h.HandleParse)
	if registry != nil {
		h.router.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
