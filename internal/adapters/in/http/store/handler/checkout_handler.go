// internal/adapters/in/http/store/handler/checkout_handler.go
package storeHandler

import (
	"net/http"

	mw "brewhaven/internal/adapters/in/http/middleware"
	usecase "brewhaven/internal/application/usecase"
)

// CheckoutHandler turns the caller's cart into an order.
//
//   - POST /store/checkout  { "paymentMethod": "..." }
type CheckoutHandler struct {
	Cart *usecase.CartUsecase
}

func NewCheckoutHandler(cart *usecase.CartUsecase) *CheckoutHandler {
	return &CheckoutHandler{Cart: cart}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	ident, _ := mw.CurrentIdentity(r)

	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	o, err := h.Cart.PlaceOrder(r.Context(), ident, body.PaymentMethod)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}
