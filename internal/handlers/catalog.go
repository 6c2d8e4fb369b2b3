package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/visaportapp/visaport/internal/catalog"
)

// ListVisas serves the filtered, sorted catalog listing. Query parameters:
// country, duration, entry_type, min_price, max_price, q, sort. Selector
// parameters left empty (or set to ALL) do not constrain.
func (h *Handlers) ListVisas(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	scope := catalog.Scope{
		Country:  mux.Vars(r)["country"],
		Category: r.URL.Query().Get("category"),
	}
	sortKey := catalog.ParseSortKey(r.URL.Query().Get("sort"))

	products, err := h.catalogService.List(r.Context(), scope, spec, sortKey)
	if err != nil {
		h.loggerFromContext(r.Context()).Error("failed to list visas", "error", err)
		h.respondError(w, r, http.StatusBadGateway, "catalog temporarily unavailable")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
		"sort":     sortKey,
	})
}

// GetVisa serves a single product by handle. Unknown handles get a 404
// distinct from upstream failures.
func (h *Handlers) GetVisa(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	product, err := h.catalogService.GetByHandle(r.Context(), handle)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.respondError(w, r, http.StatusNotFound, "visa not found")
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to fetch visa", "handle", handle, "error", err)
		h.respondError(w, r, http.StatusBadGateway, "catalog temporarily unavailable")
		return
	}

	response := map[string]any{"product": product}
	if variant := catalog.DefaultVariant(product); variant != nil {
		response["defaultVariant"] = variant
	}
	h.respondJSON(w, r, http.StatusOK, response)
}

// FilterOptions serves the distinct selector values for the filter sidebar.
func (h *Handlers) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogService.Options(r.Context())
	if err != nil {
		h.loggerFromContext(r.Context()).Error("failed to derive filter options", "error", err)
		h.respondError(w, r, http.StatusBadGateway, "catalog temporarily unavailable")
		return
	}

	h.respondJSON(w, r, http.StatusOK, options)
}

func filterSpecFromQuery(r *http.Request) (catalog.FilterSpec, error) {
	query := r.URL.Query()
	spec := catalog.NewFilterSpec()

	if country := strings.TrimSpace(query.Get("country")); country != "" {
		spec.Country = country
	}
	if duration := strings.TrimSpace(query.Get("duration")); duration != "" {
		spec.Duration = duration
	}
	if entryType := strings.TrimSpace(query.Get("entry_type")); entryType != "" {
		spec.EntryType = entryType
	}
	spec.Query = query.Get("q")

	if raw := strings.TrimSpace(query.Get("min_price")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return spec, errors.New("min_price must be a non-negative number")
		}
		spec.MinPrice = value
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return spec, errors.New("max_price must be a non-negative number")
		}
		spec.MaxPrice = value
	}

	return spec, nil
}
