// internal/domain/customer/repository_port.go
package customer

import "context"

// Repository is the persistence port for CRM aggregates.
//
// GetByEmail returns (nil, nil) when no record matches (nil policy).
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Aggregate, error)
	Create(ctx context.Context, a Aggregate) (Aggregate, error)
	Save(ctx context.Context, a Aggregate) error
	List(ctx context.Context) ([]Aggregate, error)
}
