package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/visaportapp/visaport/internal/currency"
)

// ListCurrencies returns the currencies display conversion is available
// for. Conversion never affects charged amounts; checkout always runs in
// the base currency.
func (h *Handlers) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	if h.currencyService == nil {
		h.respondError(w, r, http.StatusNotFound, "currency conversion is not configured")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"base":       h.currencyService.Base(),
		"currencies": h.currencyService.Currencies(),
	})
}

// ConvertCurrency converts an amount from the base currency for display.
func (h *Handlers) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	if h.currencyService == nil {
		h.respondError(w, r, http.StatusNotFound, "currency conversion is not configured")
		return
	}

	query := r.URL.Query()
	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil || amount < 0 {
		h.respondError(w, r, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}
	target := query.Get("to")

	converted, err := h.currencyService.Convert(amount, target)
	if err != nil {
		if errors.Is(err, currency.ErrRateUnavailable) {
			h.respondError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "conversion failed")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"amount":    amount,
		"base":      h.currencyService.Base(),
		"to":        target,
		"converted": converted,
	})
}
