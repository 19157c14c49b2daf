// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
	"brewhaven/internal/domain/sequence"
)

// ========================================
// Usecase
// ========================================

// OrderUsecase creates orders at checkout and drives the order status
// machine. Order durability is the one hard requirement here: a store
// failure on create fails the whole checkout, while id allocation, CRM
// upserts and customer emails all degrade gracefully.
type OrderUsecase struct {
	orders    orderdom.Repository
	customers custdom.Repository
	seq       sequence.Allocator
	notifier  OrderNotifier

	now func() time.Time
}

func NewOrderUsecase(
	orders orderdom.Repository,
	customers custdom.Repository,
	seq sequence.Allocator,
	notifier OrderNotifier,
) *OrderUsecase {
	return &OrderUsecase{
		orders:    orders,
		customers: customers,
		seq:       seq,
		notifier:  notifier,
		now:       time.Now,
	}
}

// ========================================
// Place
// ========================================

type PlaceOrderInput struct {
	Cart          cartdom.State
	Customer      custdom.Customer
	PaymentMethod string
}

// Place turns a cart into a durable order.
//
// Flow: allocate id (wall-clock fallback on allocator failure), build the
// aggregate, persist it (fatal on failure), then upsert the CRM record
// (best effort). The caller clears the cart only after Place returns nil.
func (u *OrderUsecase) Place(ctx context.Context, in PlaceOrderInput) (orderdom.Order, error) {
	if len(in.Cart.Items) == 0 {
		return orderdom.Order{}, ErrEmptyCart
	}
	if err := in.Customer.Validate(); err != nil {
		return orderdom.Order{}, err
	}
	if in.Cart.ShippingAddress == nil {
		return orderdom.Order{}, ErrMissingShippingAddress
	}

	now := u.now()
	id := u.nextOrderID(ctx, now)

	billing := in.Cart.ShippingAddress
	if in.Cart.BillingAddress != nil {
		billing = in.Cart.BillingAddress
	}

	o, err := orderdom.New(
		id,
		orderdom.Customer{
			ID:    in.Customer.ID,
			Name:  in.Customer.Name,
			Email: in.Customer.Email,
			Phone: in.Customer.Phone,
		},
		itemsFromCart(in.Cart.Items),
		addressFromCart(*in.Cart.ShippingAddress),
		addressFromCart(*billing),
		in.PaymentMethod,
		now,
	)
	if err != nil {
		return orderdom.Order{}, err
	}

	created, err := u.orders.Create(ctx, o)
	if err != nil {
		return orderdom.Order{}, fmt.Errorf("order_usecase: create order: %w", err)
	}
	log.Printf("[order_usecase] order created id=%s total=%d customerId=%s",
		created.ID, created.Total, created.Customer.ID)

	u.upsertCustomer(ctx, created)

	return created, nil
}

// nextOrderID allocates from the transactional sequence, falling back to a
// wall-clock id in its own namespace when the allocator is unavailable.
func (u *OrderUsecase) nextOrderID(ctx context.Context, now time.Time) string {
	n, err := u.seq.Next(ctx, sequence.OrderSequence)
	if err != nil {
		log.Printf("[order_usecase] sequence allocation failed, using fallback id: %v", err)
		return sequence.FallbackOrderID(now)
	}
	return sequence.FormatOrderID(n)
}

// upsertCustomer folds the order into the CRM record matched by email.
// Failures are logged, never surfaced: CRM bookkeeping must not undo a
// placed order.
func (u *OrderUsecase) upsertCustomer(ctx context.Context, o orderdom.Order) {
	existing, err := u.customers.GetByEmail(ctx, o.Customer.Email)
	if err != nil {
		log.Printf("[order_usecase] crm lookup failed email=%s err=%v", o.Customer.Email, err)
		return
	}

	if existing != nil {
		existing.RecordOrder(o.Total)
		if err := u.customers.Save(ctx, *existing); err != nil {
			log.Printf("[order_usecase] crm update failed id=%s err=%v", existing.ID, err)
		}
		return
	}

	agg := custdom.NewAggregate(custdom.Customer{
		ID:    o.Customer.ID,
		Name:  o.Customer.Name,
		Email: o.Customer.Email,
		Phone: o.Customer.Phone,
	}, o.Total, u.now())

	if _, err := u.customers.Create(ctx, agg); err != nil {
		log.Printf("[order_usecase] crm create failed email=%s err=%v", agg.Email, err)
	}
}

// ========================================
// Status machine
// ========================================

// UpdateStatus applies a guarded transition and persists it conditionally
// on the version the caller read (expectedUpdatedAt). Shipped, Delivered
// and Cancelled trigger a customer email; the send outcome is reported
// alongside the order and never rolls the change back.
func (u *OrderUsecase) UpdateStatus(
	ctx context.Context,
	id string,
	to orderdom.Status,
	expectedUpdatedAt time.Time,
) (orderdom.Order, NotificationOutcome, error) {
	o, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return orderdom.Order{}, NotificationOutcome{}, err
	}

	if err := o.ChangeStatus(to, u.now()); err != nil {
		return orderdom.Order{}, NotificationOutcome{}, err
	}

	saved, err := u.orders.Save(ctx, o, expectedUpdatedAt)
	if err != nil {
		return orderdom.Order{}, NotificationOutcome{}, err
	}

	outcome := u.notify(ctx, &saved)
	return saved, outcome, nil
}

// notify emails the customer for notifiable statuses and records the send
// on the order. Recording failures are logged only.
func (u *OrderUsecase) notify(ctx context.Context, o *orderdom.Order) NotificationOutcome {
	if !orderdom.NotifiableStatus(o.Status) || u.notifier == nil {
		return NotificationOutcome{}
	}

	outcome := NotificationOutcome{Attempted: true}

	if err := u.notifier.SendOrderStatus(ctx, *o); err != nil {
		log.Printf("[order_usecase] status email failed id=%s status=%s err=%v", o.ID, o.Status, err)
		outcome.Error = err.Error()
		return outcome
	}

	sentAt := u.now()
	outcome.Sent = true
	outcome.SentAt = sentAt.UTC()

	prev := o.UpdatedAt
	o.MarkNotified(o.Status, sentAt)
	o.UpdatedAt = sentAt.UTC()

	saved, err := u.orders.Save(ctx, *o, prev)
	if err != nil {
		log.Printf("[order_usecase] recording notification failed id=%s err=%v", o.ID, err)
		return outcome
	}
	*o = saved
	return outcome
}

// ========================================
// Admin maintenance
// ========================================

func (u *OrderUsecase) SetTracking(ctx context.Context, id, trackingNumber string, expectedUpdatedAt time.Time) (orderdom.Order, error) {
	o, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.SetTracking(trackingNumber, u.now())
	return u.orders.Save(ctx, o, expectedUpdatedAt)
}

func (u *OrderUsecase) SetNotes(ctx context.Context, id, notes string, expectedUpdatedAt time.Time) (orderdom.Order, error) {
	o, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.SetNotes(notes, u.now())
	return u.orders.Save(ctx, o, expectedUpdatedAt)
}

func (u *OrderUsecase) Delete(ctx context.Context, id string) error {
	return u.orders.Delete(ctx, id)
}

// ========================================
// Queries
// ========================================

func (u *OrderUsecase) Get(ctx context.Context, id string) (orderdom.Order, error) {
	return u.orders.GetByID(ctx, id)
}

func (u *OrderUsecase) List(ctx context.Context) ([]orderdom.Order, error) {
	return u.orders.List(ctx)
}

func (u *OrderUsecase) ListByCustomer(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// ========================================
// Helpers
// ========================================

func itemsFromCart(items []cartdom.Item) []orderdom.ItemSnapshot {
	out := make([]orderdom.ItemSnapshot, 0, len(items))
	for _, it := range items {
		out = append(out, orderdom.ItemSnapshot{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Name:        it.Product.Name,
			VariantName: it.Variant.Name,
			Price:       it.Product.Price,
			Qty:         it.Qty,
		})
	}
	return out
}

func addressFromCart(a cartdom.Address) orderdom.Address {
	return orderdom.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}
