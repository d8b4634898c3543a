// Package handlers provides HTTP handlers for the market summary.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/optionsentry/internal/modules/summary"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market summary HTTP requests
type Handler struct {
	service *summary.Service
	log     zerolog.Logger
}

// NewHandler creates a new summary handler
func NewHandler(service *summary.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "summary").Logger(),
	}
}

// HandleGetSummary returns the daily market summary. With ?test=1 it returns
// the canned sample payload instead of fetching live quotes.
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	var s *summary.Summary
	if r.URL.Query().Get("test") != "" {
		s = summary.Sample(now)
	} else {
		s = h.service.Build(now)
	}

	h.writeJSON(w, http.StatusOK, s)
}

// RegisterRoutes registers the market summary route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/market-summary", h.HandleGetSummary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
