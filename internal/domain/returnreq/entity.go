// internal/domain/returnreq/entity.go
package returnreq

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Policy
// ========================================

const (
	// PickupWindow is the fixed delay between creation and the scheduled
	// pickup date.
	PickupWindow = 48 * time.Hour

	// MinAdminReasonLen applies to admin-submitted return justifications.
	MinAdminReasonLen = 25
)

// ========================================
// Status state machine
// ========================================

type Status string

const (
	StatusRequested  Status = "Requested"
	StatusApproved   Status = "Approved"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusRejected   Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusRequested:  {StatusApproved, StatusRejected},
	StatusApproved:   {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusCompleted, StatusRejected},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	switch s {
	case StatusRequested, StatusApproved, StatusInProgress, StatusCompleted, StatusRejected:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// ========================================
// Entity
// ========================================

// Item is a returned subset of the originating order's lines. Price is in
// minor currency units.
type Item struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	Name        string `json:"name"`
	VariantName string `json:"variantName"`
	Price       int64  `json:"price"`
	Qty         int    `json:"quantity"`
}

type ReturnRequest struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`

	OrderDate     time.Time `json:"orderDate"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`

	Items  []Item `json:"items"`
	Reason string `json:"reason"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	// ScheduledDate is the pickup date: CreatedAt + PickupWindow.
	ScheduledDate time.Time `json:"scheduledDate"`

	RefundStatus string     `json:"refundStatus,omitempty"`
	RefundAmount int64      `json:"refundAmount,omitempty"`
	RefundDate   *time.Time `json:"refundDate,omitempty"`

	LabelGenerated bool   `json:"labelGenerated,omitempty"`
	LabelURL       string `json:"labelUrl,omitempty"`

	LastNotificationStatus Status     `json:"lastNotificationStatus,omitempty"`
	LastNotificationDate   *time.Time `json:"lastNotificationDate,omitempty"`

	// DocID is the external-store document reference, attached by the
	// repository on create. Empty when the request exists only locally
	// (degraded persistence).
	DocID string `json:"-"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID         = errors.New("returnreq: invalid id")
	ErrInvalidOrderID    = errors.New("returnreq: invalid orderId")
	ErrInvalidItems      = errors.New("returnreq: at least one item is required")
	ErrReasonTooShort    = errors.New("returnreq: reason must be at least 25 characters")
	ErrInvalidStatus     = errors.New("returnreq: invalid status")
	ErrIllegalTransition = errors.New("returnreq: illegal status transition")
)

// ========================================
// Constructor
// ========================================

// New creates a return request with status Requested and the pickup date
// fixed at createdAt + PickupWindow.
func New(
	id string,
	orderID string,
	orderDate time.Time,
	customerName string,
	customerEmail string,
	items []Item,
	reason string,
	createdAt time.Time,
) (ReturnRequest, error) {
	r := ReturnRequest{
		ID:            strings.TrimSpace(id),
		OrderID:       strings.TrimSpace(orderID),
		OrderDate:     orderDate.UTC(),
		CustomerName:  strings.TrimSpace(customerName),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Items:         normalizeItems(items),
		Reason:        strings.TrimSpace(reason),
		Status:        StatusRequested,
		CreatedAt:     createdAt.UTC(),
		ScheduledDate: createdAt.UTC().Add(PickupWindow),
	}
	if err := r.validate(); err != nil {
		return ReturnRequest{}, err
	}
	return r, nil
}

// ========================================
// Behavior (mutators)
// ========================================

// Transition applies a guarded status change. Completion side effects
// (refund computation) are handled by Complete.
func (r *ReturnRequest) Transition(to Status, now time.Time) error {
	if !CanTransition(r.Status, to) {
		return ErrIllegalTransition
	}
	r.Status = to
	if to == StatusCompleted {
		r.complete(now)
	}
	return nil
}

// complete computes the refund when none was set yet and stamps the refund
// fields.
func (r *ReturnRequest) complete(now time.Time) {
	if r.RefundStatus == "" {
		r.RefundAmount = r.RefundTotal()
	}
	r.RefundStatus = "Completed"
	t := now.UTC()
	r.RefundDate = &t
}

// ProcessRefund applies the completion refund logic directly (bulk refund
// processing path). No-op when a refund was already recorded.
func (r *ReturnRequest) ProcessRefund(now time.Time) {
	if r.RefundStatus != "" {
		return
	}
	r.complete(now)
}

// GenerateLabel marks the return label as generated.
func (r *ReturnRequest) GenerateLabel(url string) {
	r.LabelGenerated = true
	r.LabelURL = strings.TrimSpace(url)
}

// MarkNotified records a successfully delivered status notification.
func (r *ReturnRequest) MarkNotified(status Status, date time.Time) {
	r.LastNotificationStatus = status
	t := date.UTC()
	r.LastNotificationDate = &t
}

// RefundTotal is the sum of (price * quantity) over the returned items.
func (r ReturnRequest) RefundTotal() int64 {
	var sum int64
	for _, it := range r.Items {
		sum += it.Price * int64(it.Qty)
	}
	return sum
}

// ========================================
// Validation
// ========================================

// ValidateAdminReason enforces the minimum justification length for admin
// submissions (rune length, not bytes).
func ValidateAdminReason(reason string) error {
	if len([]rune(strings.TrimSpace(reason))) < MinAdminReasonLen {
		return ErrReasonTooShort
	}
	return nil
}

func (r ReturnRequest) validate() error {
	if r.ID == "" {
		return ErrInvalidID
	}
	if r.OrderID == "" {
		return ErrInvalidOrderID
	}
	if len(r.Items) == 0 {
		return ErrInvalidItems
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			ProductID:   strings.TrimSpace(it.ProductID),
			VariantID:   strings.TrimSpace(it.VariantID),
			Name:        strings.TrimSpace(it.Name),
			VariantName: strings.TrimSpace(it.VariantName),
			Price:       it.Price,
			Qty:         it.Qty,
		})
	}
	return out
}
