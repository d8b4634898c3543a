// Package handlers provides HTTP handlers for snapshot history.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/snapshots"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *snapshots.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleList returns stored snapshot metadata, newest first.
// Accepts ?limit=N, default 50.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	metas, err := h.service.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": metas,
		"count":     len(metas),
	})
}

// HandleGet returns one stored snapshot with its full report.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("uuid", id).Msg("Failed to load snapshot")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshot == nil {
		h.writeError(w, http.StatusNotFound, "snapshot not found: "+id)
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// HandleCapture runs the analysis now and stores the result.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.Capture(time.Now().UTC())
	if err != nil {
		if errors.Is(err, portfolio.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "no portfolio data")
			return
		}
		h.log.Error().Err(err).Msg("Snapshot capture failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"uuid": id})
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
