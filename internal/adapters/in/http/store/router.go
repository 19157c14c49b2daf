// internal/adapters/in/http/store/router.go
package store

import (
	"log"
	"net/http"
)

// Deps is the buyer-facing (storefront) handler set.
type Deps struct {
	Cart     http.Handler
	Checkout http.Handler
	Order    http.Handler
	Return   http.Handler
}

// handleSafe registers pattern with h. A nil handler logs and registers
// NotFoundHandler instead so a wiring gap never crashes the process.
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[store.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// cart
	handleSafe(mux, "/store/cart", deps.Cart, "Cart")
	handleSafe(mux, "/store/cart/", deps.Cart, "Cart")

	// checkout
	handleSafe(mux, "/store/checkout", deps.Checkout, "Checkout")

	// orders
	handleSafe(mux, "/store/orders", deps.Order, "Order")
	handleSafe(mux, "/store/orders/", deps.Order, "Order")

	// returns
	handleSafe(mux, "/store/returns", deps.Return, "Return")
	handleSafe(mux, "/store/returns/", deps.Return, "Return")
}
