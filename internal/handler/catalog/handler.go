package catalog

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakview/vacationdesk/internal/catalog"
)

// Handler exposes the campaign catalog to the chat UI.
type Handler struct {
	store catalog.Store
}

// New creates the catalog handler.
func New(store catalog.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/package", h.handleGetPackage)
}

// handleGetPackage returns the active vacation package.
func (h *Handler) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.store.Package(r.Context())
	if err != nil {
		log.Printf("[catalog] failed to load package: %v", err)
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load package"})
		return
	}

	h.respondJSON(w, http.StatusOK, pkg)
}

// respondJSON writes a JSON response.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
