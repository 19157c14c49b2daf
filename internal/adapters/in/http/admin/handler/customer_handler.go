// internal/adapters/in/http/admin/handler/customer_handler.go
package adminHandler

import (
	"context"
	"net/http"

	custdom "brewhaven/internal/domain/customer"
)

// customerLister is the read-only slice of the CRM repository the console
// needs.
type customerLister interface {
	List(ctx context.Context) ([]custdom.Aggregate, error)
}

// CustomerHandler lists the CRM records built up from completed orders.
//
//   - GET /admin/customers
type CustomerHandler struct {
	Customers customerLister
}

func NewCustomerHandler(customers customerLister) *CustomerHandler {
	return &CustomerHandler{Customers: customers}
}

func (h *CustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	list, err := h.Customers.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
