package handlers

import (
	"errors"
	"net/http"

	"github.com/visaportapp/visaport/internal/services"
)

// SubmitContact records a contact-form inquiry and notifies the support
// inbox.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	inquiry, err := h.contactService.Submit(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to submit inquiry", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "failed to submit inquiry")
		return
	}

	h.respondJSON(w, r, http.StatusCreated, map[string]any{"inquiryId": inquiry.ID})
}
