// internal/adapters/in/http/admin/handler/order_admin_handler.go
package adminHandler

import (
	"net/http"
	"time"

	usecase "brewhaven/internal/application/usecase"
	orderdom "brewhaven/internal/domain/order"
)

// OrderAdminHandler is the console's order management surface.
//
//   - GET    /admin/orders                      list all
//   - GET    /admin/orders/{id}                 detail
//   - DELETE /admin/orders/{id}                 delete
//   - PATCH  /admin/orders/{id}/status          { status, expectedUpdatedAt }
//   - PATCH  /admin/orders/{id}/tracking        { trackingNumber, expectedUpdatedAt }
//   - PATCH  /admin/orders/{id}/notes           { notes, expectedUpdatedAt }
//
// Mutations carry expectedUpdatedAt, the version the console last read;
// a stale version comes back as 409.
type OrderAdminHandler struct {
	Orders *usecase.OrderUsecase
}

func NewOrderAdminHandler(orders *usecase.OrderUsecase) *OrderAdminHandler {
	return &OrderAdminHandler{Orders: orders}
}

func (h *OrderAdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seg := pathTail(r, "/admin/orders")

	switch {
	case len(seg) == 0:
		h.list(w, r)
	case len(seg) == 1:
		h.one(w, r, seg[0])
	case len(seg) == 2 && seg[1] == "status":
		h.status(w, r, seg[0])
	case len(seg) == 2 && seg[1] == "tracking":
		h.tracking(w, r, seg[0])
	case len(seg) == 2 && seg[1] == "notes":
		h.notes(w, r, seg[0])
	default:
		notFound(w)
	}
}

func (h *OrderAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderAdminHandler) one(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		o, err := h.Orders.Get(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case http.MethodDelete:
		if err := h.Orders.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		methodNotAllowed(w)
	}
}

func (h *OrderAdminHandler) status(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Status            string    `json:"status"`
		ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	to, err := orderdom.ParseStatus(body.Status)
	if err != nil {
		writeErr(w, err)
		return
	}

	o, outcome, err := h.Orders.UpdateStatus(r.Context(), id, to, body.ExpectedUpdatedAt)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":        o,
		"notification": outcome,
	})
}

func (h *OrderAdminHandler) tracking(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var body struct {
		TrackingNumber    string    `json:"trackingNumber"`
		ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	o, err := h.Orders.SetTracking(r.Context(), id, body.TrackingNumber, body.ExpectedUpdatedAt)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderAdminHandler) notes(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Notes             string    `json:"notes"`
		ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	o, err := h.Orders.SetNotes(r.Context(), id, body.Notes, body.ExpectedUpdatedAt)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
