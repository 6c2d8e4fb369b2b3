package handlers

import (
	"errors"
	"net/http"

	"github.com/visaportapp/visaport/internal/services"
)

// Register creates a customer account on the commerce backend and logs
// the new customer in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load session")
		return
	}

	customer, err := h.accountService.Register(r.Context(), sess, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.loggerFromContext(r.Context()).Warn("registration failed", "error", err)
		h.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.respondJSON(w, r, http.StatusCreated, map[string]any{"customer": customer})
}

// Login exchanges credentials for a backend access token held in the
// session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load session")
		return
	}

	if err := h.accountService.Login(r.Context(), sess, input); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "logged_in"})
}

// Logout invalidates the backend token and clears the customer from the
// session. The cart survives logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetSession(r.Context(), r)
	if err != nil {
		h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "logged_out"})
		return
	}

	h.accountService.Logout(r.Context(), sess)
	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "logged_out"})
}

// CurrentUser returns the logged-in customer's profile.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetSession(r.Context(), r)
	if err != nil {
		h.respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	customer, err := h.accountService.CurrentUser(r.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			h.respondError(w, r, http.StatusUnauthorized, "not logged in")
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to fetch customer", "error", err)
		h.respondError(w, r, http.StatusBadGateway, "account temporarily unavailable")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{"customer": customer})
}
