// internal/adapters/in/http/store/handler/order_handler.go
package storeHandler

import (
	"net/http"

	mw "brewhaven/internal/adapters/in/http/middleware"
	usecase "brewhaven/internal/application/usecase"
)

// OrderHandler serves the caller's own orders.
//
//   - GET /store/orders        list
//   - GET /store/orders/{id}   detail (owner only)
type OrderHandler struct {
	Orders *usecase.OrderUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	ident, ok := mw.CurrentIdentity(r)
	if !ok || ident.Guest() {
		writeErr(w, usecase.ErrNoIdentity)
		return
	}

	seg := pathTail(r, "/store/orders")

	switch len(seg) {
	case 0:
		orders, err := h.Orders.ListByCustomer(r.Context(), ident.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)

	case 1:
		o, err := h.Orders.Get(r.Context(), seg[0])
		if err != nil {
			writeErr(w, err)
			return
		}
		if o.Customer.ID != ident.ID {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, o)

	default:
		notFound(w)
	}
}
