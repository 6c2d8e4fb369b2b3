package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/visaportapp/visaport/internal/pages"
)

// ListPages returns all static content pages.
func (h *Handlers) ListPages(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]any{"pages": h.pageStore.List()})
}

// GetPage returns one static content page by slug.
func (h *Handlers) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageStore.Get(mux.Vars(r)["slug"])
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			h.respondError(w, r, http.StatusNotFound, "page not found")
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "failed to load page")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{"page": page})
}
