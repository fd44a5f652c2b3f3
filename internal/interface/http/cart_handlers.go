package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domproduct "example.com/marketplace/app/internal/domain/product"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type updateCartItemRequest struct {
	// Zero or negative removes the line.
	Quantity int `json:"quantity"`
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	token, sessionID, err := a.sessionSvc.IssueToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"token":      token,
		"session_id": sessionID,
	})
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	store := a.carts.ForSession(getSessionID(r.Context()))
	writeJSON(w, http.StatusOK, mapCartState(store.Snapshot()))
}

// handleAddCartItem looks the product up and refuses out-of-stock products.
// The stock rule lives here, not in the cart store.
func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.GetByID(r.Context(), req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if !p.InStock {
		handleDomainError(w, domproduct.ErrOutOfStock)
		return
	}

	store := a.carts.ForSession(getSessionID(r.Context()))
	store.AddItem(*p)
	writeJSON(w, http.StatusCreated, mapCartState(store.Snapshot()))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	store := a.carts.ForSession(getSessionID(r.Context()))
	store.UpdateQuantity(chi.URLParam(r, "productId"), req.Quantity)
	writeJSON(w, http.StatusOK, mapCartState(store.Snapshot()))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	store := a.carts.ForSession(getSessionID(r.Context()))
	store.RemoveItem(chi.URLParam(r, "productId"))
	writeJSON(w, http.StatusOK, mapCartState(store.Snapshot()))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	store := a.carts.ForSession(getSessionID(r.Context()))
	store.Clear()
	writeJSON(w, http.StatusOK, mapCartState(store.Snapshot()))
}
