// internal/adapters/in/http/store/handler/helper_handler.go
package storeHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	usecase "brewhaven/internal/application/usecase"
	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.TrimSpace(msg)})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid json body")
		return false
	}
	return true
}

// writeErr maps application/domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, orderdom.ErrNotFound), errors.Is(err, retdom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orderdom.ErrConflict), errors.Is(err, retdom.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, orderdom.ErrIllegalTransition), errors.Is(err, retdom.ErrIllegalTransition):
		code = http.StatusConflict
	case errors.Is(err, usecase.ErrNoIdentity), errors.Is(err, usecase.ErrGuestCheckout):
		code = http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAdminCheckout):
		code = http.StatusForbidden
	case errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrMissingShippingAddress),
		errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, cartdom.ErrInvalidItem),
		errors.Is(err, custdom.ErrInvalidCustomer),
		errors.Is(err, orderdom.ErrInvalidCustomer),
		errors.Is(err, orderdom.ErrInvalidStatus),
		errors.Is(err, retdom.ErrInvalidStatus),
		errors.Is(err, retdom.ErrReasonTooShort),
		errors.Is(err, retdom.ErrInvalidItems),
		errors.Is(err, usecase.ErrReturnItemNotInOrder),
		errors.Is(err, usecase.ErrReturnQuantity):
		code = http.StatusBadRequest
	case errors.Is(err, usecase.ErrItemNotFound):
		code = http.StatusNotFound
	}

	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// pathTail strips prefix from the request path and splits the rest on "/".
// Empty segments are dropped.
func pathTail(r *http.Request, prefix string) []string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
