// internal/domain/order/repository_port.go
package order

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the order document does not exist.
	ErrNotFound = errors.New("order: not found")

	// ErrConflict is returned by conditional saves when the stored document
	// moved past the expected updatedAt (concurrent admin edit).
	ErrConflict = errors.New("order: concurrent update conflict")
)

// Repository is the persistence port for orders.
//
// Create must be durable before an order is considered placed; there is no
// local-only fallback. Save is conditional: it fails with ErrConflict when
// the stored updatedAt differs from expectedUpdatedAt.
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	Save(ctx context.Context, o Order, expectedUpdatedAt time.Time) (Order, error)
	Delete(ctx context.Context, id string) error
}
