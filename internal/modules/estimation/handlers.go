package estimation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles estimation HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new estimation handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "estimation").Logger(),
	}
}

// HandleEstimate handles POST /estimate - run the full reconstruction
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Estimate(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Estimation failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
