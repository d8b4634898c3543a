// Package handlers provides HTTP handlers for the recommendations API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	analyzer *recommendations.Analyzer
	log      zerolog.Logger
}

// NewHandler creates a new recommendations handler
func NewHandler(analyzer *recommendations.Analyzer, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		log:      log.With().Str("handler", "recommendations").Logger(),
	}
}

// HandleGetReport returns the full categorized analysis report
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyzer.Analyze(time.Now().UTC())
	if err != nil {
		if errors.Is(err, portfolio.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "no portfolio data")
			return
		}
		h.log.Error().Err(err).Msg("Analysis failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleGetView returns a single named category list
func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")

	report, err := h.analyzer.Analyze(time.Now().UTC())
	if err != nil {
		if errors.Is(err, portfolio.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "no portfolio data")
			return
		}
		h.log.Error().Err(err).Msg("Analysis failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := report.Categories.View(name)
	if view == nil {
		h.writeError(w, http.StatusNotFound, "unknown view: "+name)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"view":      name,
		"positions": view,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
