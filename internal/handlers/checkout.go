package handlers

import (
	"errors"
	"net/http"

	"github.com/visaportapp/visaport/internal/services"
)

// BeginCheckout creates the hosted checkout for the session cart and
// returns its redirect URL. The cart is kept until the visitor completes
// payment upstream; abandoning checkout loses nothing.
func (h *Handlers) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetSession(r.Context(), r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "no cart to check out")
		return
	}

	url, err := h.checkoutService.Begin(r.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			h.respondError(w, r, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, services.ErrMissingTravelers), errors.Is(err, services.ErrCheckoutNoVariants):
			h.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			h.loggerFromContext(r.Context()).Error("checkout creation failed", "error", err)
			h.respondError(w, r, http.StatusBadGateway, "checkout temporarily unavailable")
		}
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"checkoutUrl": url})
}
