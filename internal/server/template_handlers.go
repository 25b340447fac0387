package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/database/repositories"
)

// templateHandler serves the template-library CRUD surface.
type templateHandler struct {
	repo *repositories.TemplateRepository
	log  zerolog.Logger
}

func newTemplateHandler(repo *repositories.TemplateRepository, log zerolog.Logger) *templateHandler {
	return &templateHandler{
		repo: repo,
		log:  log.With().Str("handler", "templates").Logger(),
	}
}

// handleList handles GET /api/templates/ - list stored template sets
func (h *templateHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list template sets")
		http.Error(w, "Failed to list template sets", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// handleGet handles GET /api/templates/{name}
func (h *templateHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	set, err := h.repo.Get(name)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("name", name).Msg("Failed to load template set")
		http.Error(w, "Failed to load template set", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

// handleSave handles POST /api/templates/
func (h *templateHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var set repositories.TemplateSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if set.Name == "" {
		http.Error(w, "Template set name is required", http.StatusBadRequest)
		return
	}
	if len(set.Templates) == 0 {
		http.Error(w, "Template set must contain at least one template", http.StatusBadRequest)
		return
	}

	if err := h.repo.Save(&set); err != nil {
		h.log.Error().Err(err).Str("name", set.Name).Msg("Failed to save template set")
		http.Error(w, "Failed to save template set", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleDelete handles DELETE /api/templates/{name}
func (h *templateHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.repo.Delete(name); err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("name", name).Msg("Failed to delete template set")
		http.Error(w, "Failed to delete template set", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
