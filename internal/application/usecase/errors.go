// internal/application/usecase/errors.go
package usecase

import "errors"

var (
	// Checkout preconditions.
	ErrNoIdentity             = errors.New("usecase: no signed-in identity")
	ErrGuestCheckout          = errors.New("usecase: guest sessions cannot place orders")
	ErrAdminCheckout          = errors.New("usecase: admin accounts cannot place orders")
	ErrEmptyCart              = errors.New("usecase: cart is empty")
	ErrMissingShippingAddress = errors.New("usecase: shipping address is required")

	// Cart operations.
	ErrInvalidQuantity   = errors.New("usecase: quantity must be at least 1")
	ErrItemNotFound      = errors.New("usecase: item is not in the cart")
	ErrInsufficientStock = errors.New("usecase: requested quantity exceeds available stock")

	// Return requests.
	ErrReturnItemNotInOrder = errors.New("usecase: returned item is not part of the order")
	ErrReturnQuantity       = errors.New("usecase: return quantity exceeds the ordered quantity")
)
