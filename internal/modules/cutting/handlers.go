package cutting

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/domain"
)

// Handler handles cutting HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new cutting handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "cutting").Logger(),
	}
}

// ExperimentsRequest is the build-only materialization request.
type ExperimentsRequest struct {
	Templates []domain.Circuit     `json:"templates"`
	Cuts      []domain.CutLocation `json:"cuts"`
}

// HandleExperiments handles POST /experiments - materialize without executing
func (h *Handler) HandleExperiments(w http.ResponseWriter, r *http.Request) {
	var req ExperimentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Templates) == 0 {
		http.Error(w, "No subcircuit templates supplied", http.StatusBadRequest)
		return
	}

	experiments, err := h.service.BuildExperiments(req.Templates, len(req.Cuts))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build experiments")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experiments)
}
