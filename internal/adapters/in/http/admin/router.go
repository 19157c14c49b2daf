// internal/adapters/in/http/admin/router.go
package admin

import (
	"log"
	"net/http"
)

// Deps is the console-facing handler set. Every handler here is expected
// to sit behind middleware.RequireAdmin.
type Deps struct {
	Order    http.Handler
	Return   http.Handler
	Customer http.Handler
}

func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[admin.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers console routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	handleSafe(mux, "/admin/orders", deps.Order, "Order")
	handleSafe(mux, "/admin/orders/", deps.Order, "Order")

	handleSafe(mux, "/admin/returns", deps.Return, "Return")
	handleSafe(mux, "/admin/returns/", deps.Return, "Return")

	handleSafe(mux, "/admin/customers", deps.Customer, "Customer")
	handleSafe(mux, "/admin/customers/", deps.Customer, "Customer")
}
