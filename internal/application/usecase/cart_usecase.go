// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"log"
	"time"

	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

// Identity is the resolved caller: an authenticated customer, an admin, or
// a guest session carrying a locally minted placeholder id.
type Identity struct {
	ID    string
	Name  string
	Email string
	Phone string
	Admin bool
}

// Guest reports whether the identity is an unauthenticated placeholder.
func (i Identity) Guest() bool {
	return custdom.IsGuestID(i.ID)
}

// ========================================
// Usecase
// ========================================

// CartUsecase is the storefront orchestrator. Every cart mutation runs the
// pure reducer, persists the result to the local snapshot store, and
// mirrors it remotely (write-behind) for signed-in customers. Checkout and
// return requests delegate to the order/return usecases after enforcing
// the identity preconditions.
type CartUsecase struct {
	snapshots cartdom.SnapshotStore
	mirror    *MirrorQueue
	orders    *OrderUsecase
	returns   *ReturnUsecase

	now func() time.Time
}

func NewCartUsecase(
	snapshots cartdom.SnapshotStore,
	mirror *MirrorQueue,
	orders *OrderUsecase,
	returns *ReturnUsecase,
) *CartUsecase {
	return &CartUsecase{
		snapshots: snapshots,
		mirror:    mirror,
		orders:    orders,
		returns:   returns,
		now:       time.Now,
	}
}

// ========================================
// Cart state
// ========================================

func (u *CartUsecase) Get(ctx context.Context, customerID string) (cartdom.State, error) {
	st, _, err := u.snapshots.Load(ctx, customerID)
	return st, err
}

func (u *CartUsecase) ItemCount(ctx context.Context, customerID string) (int, error) {
	st, err := u.Get(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return st.ItemCount(), nil
}

// AddItem appends a line, merging quantities when the same
// (product, variant) is already present.
func (u *CartUsecase) AddItem(ctx context.Context, customerID string, it cartdom.Item) (cartdom.State, error) {
	if err := it.Validate(); err != nil {
		return cartdom.State{}, err
	}
	return u.dispatch(ctx, customerID, cartdom.AddItem{Item: it})
}

func (u *CartUsecase) RemoveItem(ctx context.Context, customerID, productID, variantID string) (cartdom.State, error) {
	return u.dispatch(ctx, customerID, cartdom.RemoveItem{ProductID: productID, VariantID: variantID})
}

// UpdateQuantity sets a line quantity, bounded by the stock known at
// selection time. The reducer itself does not clamp; rejection happens
// here.
func (u *CartUsecase) UpdateQuantity(ctx context.Context, customerID, productID, variantID string, qty int) (cartdom.State, error) {
	if qty < 1 {
		return cartdom.State{}, ErrInvalidQuantity
	}

	st, _, err := u.snapshots.Load(ctx, customerID)
	if err != nil {
		return cartdom.State{}, err
	}

	line, ok := st.Find(productID, variantID)
	if !ok {
		return cartdom.State{}, ErrItemNotFound
	}
	if qty > line.Variant.Stock {
		return cartdom.State{}, ErrInsufficientStock
	}

	next := cartdom.Reduce(st, cartdom.UpdateQuantity{ProductID: productID, VariantID: variantID, Qty: qty})
	u.commit(ctx, customerID, next)
	return next, nil
}

func (u *CartUsecase) SetShippingAddress(ctx context.Context, customerID string, a cartdom.Address) (cartdom.State, error) {
	return u.dispatch(ctx, customerID, cartdom.SetShippingAddress{Address: a})
}

func (u *CartUsecase) SetBillingAddress(ctx context.Context, customerID string, a cartdom.Address) (cartdom.State, error) {
	return u.dispatch(ctx, customerID, cartdom.SetBillingAddress{Address: a})
}

func (u *CartUsecase) Clear(ctx context.Context, customerID string) (cartdom.State, error) {
	return u.dispatch(ctx, customerID, cartdom.ClearCart{})
}

// dispatch runs one reducer action against the loaded snapshot and commits
// the result.
func (u *CartUsecase) dispatch(ctx context.Context, customerID string, a cartdom.Action) (cartdom.State, error) {
	st, _, err := u.snapshots.Load(ctx, customerID)
	if err != nil {
		return cartdom.State{}, err
	}

	next := cartdom.Reduce(st, a)
	u.commit(ctx, customerID, next)
	return next, nil
}

// commit persists the snapshot locally (best effort, logged) and enqueues
// the remote mirror write for non-guest customers.
func (u *CartUsecase) commit(ctx context.Context, customerID string, st cartdom.State) {
	if err := u.snapshots.Save(ctx, customerID, st); err != nil {
		log.Printf("[cart_usecase] snapshot save failed customerId=%s err=%v", customerID, err)
	}

	if u.mirror == nil || custdom.IsGuestID(customerID) {
		return
	}
	if !u.mirror.Enqueue(customerID, st) {
		log.Printf("[cart_usecase] mirror queue full, dropping write customerId=%s", customerID)
	}
}

// ========================================
// Checkout
// ========================================

// PlaceOrder checks out the caller's cart. Preconditions: a signed-in,
// non-admin, non-guest identity and a non-empty cart with a shipping
// address. The cart is cleared only after the order is durably stored; a
// failed checkout leaves it untouched.
func (u *CartUsecase) PlaceOrder(ctx context.Context, ident *Identity, paymentMethod string) (orderdom.Order, error) {
	if ident == nil {
		return orderdom.Order{}, ErrNoIdentity
	}
	if ident.Admin {
		return orderdom.Order{}, ErrAdminCheckout
	}
	if ident.Guest() {
		return orderdom.Order{}, ErrGuestCheckout
	}

	st, _, err := u.snapshots.Load(ctx, ident.ID)
	if err != nil {
		return orderdom.Order{}, err
	}
	if len(st.Items) == 0 {
		return orderdom.Order{}, ErrEmptyCart
	}

	o, err := u.orders.Place(ctx, PlaceOrderInput{
		Cart: st,
		Customer: custdom.Customer{
			ID:    ident.ID,
			Name:  ident.Name,
			Email: ident.Email,
			Phone: ident.Phone,
		},
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return orderdom.Order{}, err
	}

	// Order is durable; only now does the cart go away.
	u.commit(ctx, ident.ID, cartdom.Reduce(st, cartdom.ClearCart{}))

	return o, nil
}

// ========================================
// Returns
// ========================================

// RequestReturn opens a return for the signed-in caller. Admin callers get
// the stricter justification rule.
func (u *CartUsecase) RequestReturn(ctx context.Context, ident *Identity, orderID, reason string, items []retdom.Item) (retdom.ReturnRequest, error) {
	if ident == nil {
		return retdom.ReturnRequest{}, ErrNoIdentity
	}

	return u.returns.Request(ctx, RequestReturnInput{
		OrderID:        orderID,
		Items:          items,
		Reason:         reason,
		AdminSubmitted: ident.Admin,
	})
}
