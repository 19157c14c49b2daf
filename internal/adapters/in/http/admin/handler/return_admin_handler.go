// internal/adapters/in/http/admin/handler/return_admin_handler.go
package adminHandler

import (
	"net/http"

	usecase "brewhaven/internal/application/usecase"
	retdom "brewhaven/internal/domain/returnreq"
)

// ReturnAdminHandler is the console's return management surface.
//
//   - GET   /admin/returns                    list all
//   - POST  /admin/returns                    open a return on a customer's behalf
//   - GET   /admin/returns/{id}               detail
//   - PATCH /admin/returns/{id}/status        { status, expectedStatus }
//   - POST  /admin/returns/bulk/status        { ids, status }
//   - POST  /admin/returns/bulk/labels        { ids }
//   - POST  /admin/returns/bulk/refunds       { ids }
//
// Bulk responses are aggregate reports; partial success is a 200 with
// failure entries, not an error.
type ReturnAdminHandler struct {
	Returns *usecase.ReturnUsecase
}

func NewReturnAdminHandler(returns *usecase.ReturnUsecase) *ReturnAdminHandler {
	return &ReturnAdminHandler{Returns: returns}
}

func (h *ReturnAdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seg := pathTail(r, "/admin/returns")

	switch {
	case len(seg) == 0:
		h.root(w, r)
	case len(seg) == 2 && seg[0] == "bulk":
		h.bulk(w, r, seg[1])
	case len(seg) == 1:
		h.one(w, r, seg[0])
	case len(seg) == 2 && seg[1] == "status":
		h.status(w, r, seg[0])
	default:
		notFound(w)
	}
}

func (h *ReturnAdminHandler) root(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reqs, err := h.Returns.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reqs)

	case http.MethodPost:
		var body struct {
			OrderID string        `json:"orderId"`
			Reason  string        `json:"reason"`
			Items   []retdom.Item `json:"items"`
		}
		if !readJSON(w, r, &body) {
			return
		}

		req, err := h.Returns.Request(r.Context(), usecase.RequestReturnInput{
			OrderID:        body.OrderID,
			Reason:         body.Reason,
			Items:          body.Items,
			AdminSubmitted: true,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)

	default:
		methodNotAllowed(w)
	}
}

func (h *ReturnAdminHandler) one(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	req, err := h.Returns.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *ReturnAdminHandler) status(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Status         string `json:"status"`
		ExpectedStatus string `json:"expectedStatus"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	to, err := retdom.ParseStatus(body.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	expected, err := retdom.ParseStatus(body.ExpectedStatus)
	if err != nil {
		writeErr(w, err)
		return
	}

	req, outcome, err := h.Returns.UpdateStatus(r.Context(), id, to, expected)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returnRequest": req,
		"notification":  outcome,
	})
}

func (h *ReturnAdminHandler) bulk(w http.ResponseWriter, r *http.Request, op string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var body struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if len(body.IDs) == 0 {
		badRequest(w, "ids is required")
		return
	}

	var report usecase.BulkReport

	switch op {
	case "status":
		to, err := retdom.ParseStatus(body.Status)
		if err != nil {
			writeErr(w, err)
			return
		}
		report = h.Returns.BulkUpdateStatus(r.Context(), body.IDs, to)

	case "labels":
		report = h.Returns.BulkGenerateLabels(r.Context(), body.IDs)

	case "refunds":
		report = h.Returns.BulkProcessRefunds(r.Context(), body.IDs)

	default:
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
