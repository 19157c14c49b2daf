// internal/domain/returnreq/repository_port.go
package returnreq

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("returnreq: not found")

	// ErrConflict is returned by conditional saves when the stored document
	// moved past the expected status (concurrent admin edit).
	ErrConflict = errors.New("returnreq: concurrent update conflict")
)

// Repository is the persistence port for return requests.
//
// Unlike orders, Create is best-effort at the call site: a failed remote
// write is logged by the caller and the request is allowed to exist only
// locally in degraded conditions.
type Repository interface {
	Create(ctx context.Context, r ReturnRequest) (ReturnRequest, error)
	GetByID(ctx context.Context, id string) (ReturnRequest, error)
	List(ctx context.Context) ([]ReturnRequest, error)
	ListByOrder(ctx context.Context, orderID string) ([]ReturnRequest, error)
	Save(ctx context.Context, r ReturnRequest, expectedStatus Status) (ReturnRequest, error)
}
