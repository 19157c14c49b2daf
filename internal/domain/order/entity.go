// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Policy
// ========================================

const (
	// FreeShippingThreshold is the subtotal (minor currency units) at which
	// shipping becomes free.
	FreeShippingThreshold int64 = 99900

	// FlatShippingFee is charged below the threshold.
	FlatShippingFee int64 = 10000
)

// ShippingFee returns the fee for a given subtotal.
func ShippingFee(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// ========================================
// Status state machine
// ========================================

type Status string

const (
	StatusProcessing      Status = "Processing"
	StatusShipped         Status = "Shipped"
	StatusDelivered       Status = "Delivered"
	StatusCancelled       Status = "Cancelled"
	StatusReturnRequested Status = "Return Requested"
	StatusReturned        Status = "Returned"
)

var transitions = map[Status][]Status{
	StatusProcessing:      {StatusShipped, StatusCancelled, StatusReturnRequested},
	StatusShipped:         {StatusDelivered, StatusReturnRequested},
	StatusDelivered:       {StatusReturnRequested},
	StatusReturnRequested: {StatusReturned},
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
	case StatusProcessing, StatusShipped, StatusDelivered,
		StatusCancelled, StatusReturnRequested, StatusReturned:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// NotifiableStatus reports whether a change to s triggers a customer email.
func NotifiableStatus(s Status) bool {
	return s == StatusShipped || s == StatusDelivered || s == StatusCancelled
}

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// Address is copied from cart state at checkout; orders keep their own copy.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Customer identifies who placed the order. ID is either an authenticated
// identity id or a locally generated guest placeholder.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ItemSnapshot is one ordered line: product/variant frozen at checkout plus
// the computed line price (Price * Qty, minor units).
type ItemSnapshot struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	Name        string `json:"name"`
	VariantName string `json:"variantName"`
	Price       int64  `json:"price"`
	Qty         int    `json:"quantity"`
	LinePrice   int64  `json:"linePrice"`
}

// EmailNotification records the last status email successfully sent.
type EmailNotification struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID       string   `json:"id"`
	Customer Customer `json:"customer"`

	Items []ItemSnapshot `json:"items"`

	ShippingAddress Address `json:"shippingAddress"`
	BillingAddress  Address `json:"billingAddress"`

	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`

	Status Status `json:"status"`

	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PaymentMethod  string `json:"paymentMethod"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Notes          string `json:"notes,omitempty"`

	LastEmailNotification *EmailNotification `json:"lastEmailNotification,omitempty"`

	// ReturnRequestID tags the order once a return has been opened for it.
	ReturnRequestID string `json:"returnRequestId,omitempty"`

	// DocID is the external-store document reference, attached by the
	// repository on create.
	DocID string `json:"-"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID         = errors.New("order: invalid id")
	ErrInvalidCustomer   = errors.New("order: customer name and email are required")
	ErrInvalidItems      = errors.New("order: at least one item is required")
	ErrInvalidItem       = errors.New("order: invalid item snapshot")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrIllegalTransition = errors.New("order: illegal status transition")
)

// ========================================
// Constructor
// ========================================

// New assembles an order aggregate at checkout. Subtotal, shipping and
// total are computed here; status starts at Processing with both
// timestamps set to createdAt.
func New(
	id string,
	customer Customer,
	items []ItemSnapshot,
	shippingAddress Address,
	billingAddress Address,
	paymentMethod string,
	createdAt time.Time,
) (Order, error) {
	o := Order{
		ID: strings.TrimSpace(id),
		Customer: Customer{
			ID:    strings.TrimSpace(customer.ID),
			Name:  strings.TrimSpace(customer.Name),
			Email: strings.TrimSpace(customer.Email),
			Phone: strings.TrimSpace(customer.Phone),
		},
		Items:           normalizeItems(items),
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		Status:          StatusProcessing,
		Date:            createdAt.UTC(),
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
		PaymentMethod:   strings.TrimSpace(paymentMethod),
	}

	o.Subtotal = sumLines(o.Items)
	o.Shipping = ShippingFee(o.Subtotal)
	o.Total = o.Subtotal + o.Shipping

	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Behavior (mutators)
// ========================================

// ChangeStatus applies a guarded status transition and stamps UpdatedAt.
func (o *Order) ChangeStatus(to Status, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return ErrIllegalTransition
	}
	o.Status = to
	o.UpdatedAt = now.UTC()
	return nil
}

// AttachReturnRequest flips the order into Return Requested and tags it
// with the return request id.
func (o *Order) AttachReturnRequest(returnID string, now time.Time) error {
	if err := o.ChangeStatus(StatusReturnRequested, now); err != nil {
		return err
	}
	o.ReturnRequestID = strings.TrimSpace(returnID)
	return nil
}

func (o *Order) SetTracking(trackingNumber string, now time.Time) {
	o.TrackingNumber = strings.TrimSpace(trackingNumber)
	o.UpdatedAt = now.UTC()
}

func (o *Order) SetNotes(notes string, now time.Time) {
	o.Notes = strings.TrimSpace(notes)
	o.UpdatedAt = now.UTC()
}

// MarkNotified records a successfully delivered status email.
func (o *Order) MarkNotified(status Status, date time.Time) {
	o.LastEmailNotification = &EmailNotification{Status: status, Date: date.UTC()}
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.Customer.Name == "" || o.Customer.Email == "" {
		return ErrInvalidCustomer
	}
	if len(o.Items) == 0 {
		return ErrInvalidItems
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ProductID) == "" || strings.TrimSpace(it.VariantID) == "" {
			return ErrInvalidItem
		}
		if it.Qty <= 0 || it.Price < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeItems(items []ItemSnapshot) []ItemSnapshot {
	out := make([]ItemSnapshot, 0, len(items))
	for _, it := range items {
		n := ItemSnapshot{
			ProductID:   strings.TrimSpace(it.ProductID),
			VariantID:   strings.TrimSpace(it.VariantID),
			Name:        strings.TrimSpace(it.Name),
			VariantName: strings.TrimSpace(it.VariantName),
			Price:       it.Price,
			Qty:         it.Qty,
		}
		n.LinePrice = n.Price * int64(n.Qty)
		out = append(out, n)
	}
	return out
}

func sumLines(items []ItemSnapshot) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LinePrice
	}
	return sum
}
