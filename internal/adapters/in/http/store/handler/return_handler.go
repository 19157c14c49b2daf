// internal/adapters/in/http/store/handler/return_handler.go
package storeHandler

import (
	"net/http"

	mw "brewhaven/internal/adapters/in/http/middleware"
	usecase "brewhaven/internal/application/usecase"
	retdom "brewhaven/internal/domain/returnreq"
)

// ReturnHandler opens and reads the caller's return requests.
//
//   - POST /store/returns               { orderId, reason, items? }
//   - GET  /store/returns?orderId=...   returns for one of the caller's orders
type ReturnHandler struct {
	Cart    *usecase.CartUsecase
	Orders  *usecase.OrderUsecase
	Returns *usecase.ReturnUsecase
}

func NewReturnHandler(cart *usecase.CartUsecase, orders *usecase.OrderUsecase, returns *usecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{Cart: cart, Orders: orders, Returns: returns}
}

func (h *ReturnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ident, ok := mw.CurrentIdentity(r)
	if !ok || ident.Guest() {
		writeErr(w, usecase.ErrNoIdentity)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.request(w, r, ident)
	case http.MethodGet:
		h.list(w, r, ident)
	default:
		methodNotAllowed(w)
	}
}

func (h *ReturnHandler) request(w http.ResponseWriter, r *http.Request, ident *usecase.Identity) {
	var body struct {
		OrderID string        `json:"orderId"`
		Reason  string        `json:"reason"`
		Items   []retdom.Item `json:"items"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	if !h.ownsOrder(w, r, ident, body.OrderID) {
		return
	}

	req, err := h.Cart.RequestReturn(r.Context(), ident, body.OrderID, body.Reason, body.Items)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *ReturnHandler) list(w http.ResponseWriter, r *http.Request, ident *usecase.Identity) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		badRequest(w, "orderId query parameter is required")
		return
	}

	if !h.ownsOrder(w, r, ident, orderID) {
		return
	}

	reqs, err := h.Returns.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// ownsOrder resolves the order and hides other customers' orders behind 404.
func (h *ReturnHandler) ownsOrder(w http.ResponseWriter, r *http.Request, ident *usecase.Identity, orderID string) bool {
	o, err := h.Orders.Get(r.Context(), orderID)
	if err != nil {
		writeErr(w, err)
		return false
	}
	if !ident.Admin && o.Customer.ID != ident.ID {
		notFound(w)
		return false
	}
	return true
}
