package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/visaportapp/visaport/internal/cart"
	"github.com/visaportapp/visaport/internal/catalog"
)

type cartResponse struct {
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
}

func (h *Handlers) cartResponseFromSession(sess []cart.Line) cartResponse {
	if sess == nil {
		sess = []cart.Line{}
	}
	return cartResponse{Lines: sess, Summary: cart.Totals(sess)}
}

// GetCart returns the session cart with its computed totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load cart")
		return
	}

	h.respondJSON(w, r, http.StatusOK, h.cartResponseFromSession(sess.Cart))
}

type addCartItemRequest struct {
	Handle    string   `json:"handle"`
	VariantID string   `json:"variantId"`
	Quantity  int      `json:"quantity"`
	AddonIDs  []string `json:"addonIds"`
}

// AddCartItem adds a visa product to the cart. Prices come from the
// catalog snapshot, never from the request.
func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalogService.GetByHandle(r.Context(), req.Handle)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.respondError(w, r, http.StatusNotFound, "visa not found")
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to resolve cart product", "handle", req.Handle, "error", err)
		h.respondError(w, r, http.StatusBadGateway, "catalog temporarily unavailable")
		return
	}

	line := cart.Line{
		ProductID: product.ID,
		Handle:    product.Handle,
		Title:     product.Title,
		UnitPrice: product.Price,
		Quantity:  cart.ClampQuantity(req.Quantity),
	}

	variant := variantByID(product, req.VariantID)
	if variant == nil {
		variant = catalog.DefaultVariant(product)
	}
	if variant != nil {
		line.VariantID = variant.ID
		line.VariantTitle = variant.Title
		line.UnitPrice = variant.Price
	}

	for _, addonID := range req.AddonIDs {
		addon, err := h.catalogService.FindAddon(r.Context(), addonID)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "unknown addon")
			return
		}
		line.Addons = append(line.Addons, cart.SelectedAddon{
			ID:    addon.ID,
			Title: addon.Title,
			Price: addon.Price,
		})
	}

	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load cart")
		return
	}

	sess.Cart = cart.Add(sess.Cart, line)
	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save cart")
		return
	}

	h.respondJSON(w, r, http.StatusCreated, h.cartResponseFromSession(sess.Cart))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem changes a line's quantity, clamped to a minimum of one.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load cart")
		return
	}

	updated, ok := cart.UpdateQuantity(sess.Cart, mux.Vars(r)["lineID"], req.Quantity)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, "cart line not found")
		return
	}

	sess.Cart = updated
	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save cart")
		return
	}

	h.respondJSON(w, r, http.StatusOK, h.cartResponseFromSession(sess.Cart))
}

type setTravelersRequest struct {
	Travelers []cart.Traveler `json:"travelers"`
}

// SetTravelers attaches applicant details to a cart line ahead of checkout.
func (h *Handlers) SetTravelers(w http.ResponseWriter, r *http.Request) {
	var req setTravelersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	for _, traveler := range req.Travelers {
		if traveler.FullName == "" || traveler.PassportNumber == "" || traveler.Nationality == "" {
			h.respondError(w, r, http.StatusBadRequest, "each traveler needs a name, passport number, and nationality")
			return
		}
	}

	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load cart")
		return
	}

	updated, ok := cart.SetTravelers(sess.Cart, mux.Vars(r)["lineID"], req.Travelers)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, "cart line not found")
		return
	}

	sess.Cart = updated
	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save cart")
		return
	}

	h.respondJSON(w, r, http.StatusOK, h.cartResponseFromSession(sess.Cart))
}

// RemoveCartItem drops a line from the cart.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionManager.GetOrCreateSession(r.Context(), w, r)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load cart")
		return
	}

	updated, ok := cart.Remove(sess.Cart, mux.Vars(r)["lineID"])
	if !ok {
		h.respondError(w, r, http.StatusNotFound, "cart line not found")
		return
	}

	sess.Cart = updated
	if err := h.sessionManager.UpdateSession(r.Context(), r, sess); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to save cart")
		return
	}

	h.respondJSON(w, r, http.StatusOK, h.cartResponseFromSession(sess.Cart))
}

func variantByID(product *catalog.VisaProduct, variantID string) *catalog.VisaVariant {
	if variantID == "" {
		return nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}
