// internal/adapters/in/http/store/handler/cart_handler.go
package storeHandler

import (
	"net/http"

	mw "brewhaven/internal/adapters/in/http/middleware"
	usecase "brewhaven/internal/application/usecase"
	cartdom "brewhaven/internal/domain/cart"
)

// CartHandler serves the caller's cart.
//
//   - GET    /store/cart                          current state
//   - DELETE /store/cart                          clear
//   - GET    /store/cart/count                    item count
//   - POST   /store/cart/items                    add line (merges duplicates)
//   - PATCH  /store/cart/items/{pid}/{vid}        set quantity (stock bounded)
//   - DELETE /store/cart/items/{pid}/{vid}        remove line
//   - PUT    /store/cart/shipping-address         set shipping address
//   - PUT    /store/cart/billing-address          set billing address
type CartHandler struct {
	Cart *usecase.CartUsecase
}

func NewCartHandler(cart *usecase.CartUsecase) *CartHandler {
	return &CartHandler{Cart: cart}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ident, ok := mw.CurrentIdentity(r)
	if !ok {
		writeErr(w, usecase.ErrNoIdentity)
		return
	}

	seg := pathTail(r, "/store/cart")

	switch {
	case len(seg) == 0:
		h.root(w, r, ident.ID)
	case len(seg) == 1 && seg[0] == "count":
		h.count(w, r, ident.ID)
	case len(seg) == 1 && seg[0] == "items":
		h.addItem(w, r, ident.ID)
	case len(seg) == 3 && seg[0] == "items":
		h.line(w, r, ident.ID, seg[1], seg[2])
	case len(seg) == 1 && seg[0] == "shipping-address":
		h.address(w, r, ident.ID, true)
	case len(seg) == 1 && seg[0] == "billing-address":
		h.address(w, r, ident.ID, false)
	default:
		notFound(w)
	}
}

func (h *CartHandler) root(w http.ResponseWriter, r *http.Request, customerID string) {
	switch r.Method {
	case http.MethodGet:
		st, err := h.Cart.Get(r.Context(), customerID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	case http.MethodDelete:
		st, err := h.Cart.Clear(r.Context(), customerID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) count(w http.ResponseWriter, r *http.Request, customerID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	n, err := h.Cart.ItemCount(r.Context(), customerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request, customerID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var it cartdom.Item
	if !readJSON(w, r, &it) {
		return
	}

	st, err := h.Cart.AddItem(r.Context(), customerID, it)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *CartHandler) line(w http.ResponseWriter, r *http.Request, customerID, productID, variantID string) {
	switch r.Method {
	case http.MethodPatch:
		var body struct {
			Quantity int `json:"quantity"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		st, err := h.Cart.UpdateQuantity(r.Context(), customerID, productID, variantID, body.Quantity)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	case http.MethodDelete:
		st, err := h.Cart.RemoveItem(r.Context(), customerID, productID, variantID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) address(w http.ResponseWriter, r *http.Request, customerID string, shipping bool) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	var a cartdom.Address
	if !readJSON(w, r, &a) {
		return
	}

	var (
		st  cartdom.State
		err error
	)
	if shipping {
		st, err = h.Cart.SetShippingAddress(r.Context(), customerID, a)
	} else {
		st, err = h.Cart.SetBillingAddress(r.Context(), customerID, a)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
