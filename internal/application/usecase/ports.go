// internal/application/usecase/ports.go
package usecase

import (
	"context"
	"time"

	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

// OrderNotifier sends status emails for orders. mail.StatusNotifier is the
// production implementation.
type OrderNotifier interface {
	SendOrderStatus(ctx context.Context, o orderdom.Order) error
}

// ReturnNotifier sends status emails for return requests.
type ReturnNotifier interface {
	SendReturnStatus(ctx context.Context, r retdom.ReturnRequest) error
}

// NotificationOutcome reports what happened to the customer email attached
// to a status change. Send failures never roll the status change back; they
// are surfaced here so the caller can tell the operator.
type NotificationOutcome struct {
	Attempted bool      `json:"attempted"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
}
