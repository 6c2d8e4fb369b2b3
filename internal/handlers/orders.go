package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/visaportapp/visaport/internal/services"
)

// ListOrders returns the logged-in customer's order history.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetSession(r.Context(), r)
	if err != nil {
		h.respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	orders, err := h.accountService.Orders(r.Context(), sess, limit)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			h.respondError(w, r, http.StatusUnauthorized, "not logged in")
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to fetch orders", "error", err)
		h.respondError(w, r, http.StatusBadGateway, "orders temporarily unavailable")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{"orders": orders})
}
