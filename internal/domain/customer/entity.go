// internal/domain/customer/entity.go
package customer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GuestIDPrefix marks locally generated placeholder ids: a customer id with
// this prefix has no linked authenticated identity.
const GuestIDPrefix = "guest-"

var (
	ErrInvalidCustomer = errors.New("customer: name and email are required")
)

// Customer is the checkout-facing identity (authenticated or guest).
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewGuestID mints a placeholder id for an unauthenticated session.
func NewGuestID() string {
	return GuestIDPrefix + uuid.NewString()
}

// IsGuestID reports whether id is a locally generated placeholder.
func IsGuestID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), GuestIDPrefix)
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return ErrInvalidCustomer
	}
	return nil
}

// Aggregate is the CRM record, upserted by email match on every completed
// order. Spent is cumulative, in minor currency units.
type Aggregate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Orders     int       `json:"orders"`
	Spent      int64     `json:"spent"`
	JoinedDate time.Time `json:"joinedDate"`
}

// NewAggregate creates a fresh CRM record for a first order.
func NewAggregate(c Customer, orderTotal int64, now time.Time) Aggregate {
	return Aggregate{
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		Orders:     1,
		Spent:      orderTotal,
		JoinedDate: now.UTC(),
	}
}

// RecordOrder folds one completed order into the aggregate.
func (a *Aggregate) RecordOrder(total int64) {
	a.Orders++
	a.Spent += total
}
