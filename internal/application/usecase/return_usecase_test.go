// internal/application/usecase/return_usecase_test.go
package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewhaven/internal/adapters/out/memory"
	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

type returnFixture struct {
	*orderFixture
	returns *memory.ReturnRepository
	uc      *ReturnUsecase
}

func newReturnFixture() *returnFixture {
	base := newOrderFixture()
	f := &returnFixture{
		orderFixture: base,
		returns:      memory.NewReturnRepository(),
	}
	f.uc = NewReturnUsecase(f.returns, base.orders, base.alloc, base.notifier, "")
	f.uc.now = base.uc.now
	return f
}

// placeOrder places one order through the order usecase.
func (f *returnFixture) placeOrder(t *testing.T) orderdom.Order {
	t.Helper()
	o, err := f.orderFixture.uc.Place(context.Background(), PlaceOrderInput{
		Cart: checkoutCart(5000, 2), Customer: buyer(), PaymentMethod: "card",
	})
	require.NoError(t, err)
	return o
}

const longReason = "the grinder arrived with a cracked hopper and will not power on"

func TestRequestOpensReturnAndFlagsOrder(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	r, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "wrong roast"})
	require.NoError(t, err)

	assert.Equal(t, "BREW-RET-01", r.ID)
	assert.Equal(t, retdom.StatusRequested, r.Status)
	assert.Equal(t, r.CreatedAt.Add(retdom.PickupWindow), r.ScheduledDate)

	// Items default to the whole order.
	require.Len(t, r.Items, 1)
	assert.Equal(t, "p1", r.Items[0].ProductID)
	assert.Equal(t, 2, r.Items[0].Qty)

	// The order flipped and carries the return id.
	flagged, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusReturnRequested, flagged.Status)
	assert.Equal(t, r.ID, flagged.ReturnRequestID)
}

func TestRequestRejectsItemNotInOrder(t *testing.T) {
	f := newReturnFixture()
	o := f.placeOrder(t)

	// A line the order never contained, with an inflated price tag.
	_, err := f.uc.Request(context.Background(), RequestReturnInput{
		OrderID: o.ID,
		Reason:  "wrong roast",
		Items: []retdom.Item{{
			ProductID: "p-espresso-machine", VariantID: "v9",
			Name: "Espresso Machine", Price: 1000000, Qty: 5,
		}},
	})
	assert.ErrorIs(t, err, ErrReturnItemNotInOrder)
}

func TestRequestPricesItemsFromOrderSnapshot(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)
	require.Equal(t, int64(20000), o.Total)

	// The caller claims a price the order never recorded.
	r, err := f.uc.Request(ctx, RequestReturnInput{
		OrderID: o.ID,
		Reason:  "wrong roast",
		Items: []retdom.Item{{
			ProductID: "p1", VariantID: "v1", Name: "Gold Roast", Price: 1000000, Qty: 1,
		}},
	})
	require.NoError(t, err)

	// Name and price come from the order line, not the request.
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Colombia", r.Items[0].Name)
	assert.Equal(t, int64(5000), r.Items[0].Price)
	assert.Equal(t, 1, r.Items[0].Qty)

	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusApproved, retdom.StatusRequested)
	require.NoError(t, err)
	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusInProgress, retdom.StatusApproved)
	require.NoError(t, err)
	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusCompleted, retdom.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), r.RefundAmount)
}

func TestRequestBoundsQuantityToOrderedQuantity(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	// Ordered qty is 2; asking for 5 back must fail.
	_, err := f.uc.Request(ctx, RequestReturnInput{
		OrderID: o.ID, Reason: "wrong roast",
		Items: []retdom.Item{{ProductID: "p1", VariantID: "v1", Qty: 5}},
	})
	assert.ErrorIs(t, err, ErrReturnQuantity)

	// Duplicate request lines count against the same ordered line.
	_, err = f.uc.Request(ctx, RequestReturnInput{
		OrderID: o.ID, Reason: "wrong roast",
		Items: []retdom.Item{
			{ProductID: "p1", VariantID: "v1", Qty: 2},
			{ProductID: "p1", VariantID: "v1", Qty: 1},
		},
	})
	assert.ErrorIs(t, err, ErrReturnQuantity)

	_, err = f.uc.Request(ctx, RequestReturnInput{
		OrderID: o.ID, Reason: "wrong roast",
		Items: []retdom.Item{{ProductID: "p1", VariantID: "v1", Qty: 2}},
	})
	assert.NoError(t, err)
}

func TestRequestUnknownOrder(t *testing.T) {
	f := newReturnFixture()

	_, err := f.uc.Request(context.Background(), RequestReturnInput{OrderID: "BREW-99", Reason: "x"})
	assert.ErrorIs(t, err, orderdom.ErrNotFound)
}

func TestRequestRejectsShortAdminReason(t *testing.T) {
	f := newReturnFixture()
	o := f.placeOrder(t)

	_, err := f.uc.Request(context.Background(), RequestReturnInput{
		OrderID: o.ID, Reason: "too short", AdminSubmitted: true,
	})
	assert.ErrorIs(t, err, retdom.ErrReasonTooShort)

	_, err = f.uc.Request(context.Background(), RequestReturnInput{
		OrderID: o.ID, Reason: longReason, AdminSubmitted: true,
	})
	assert.NoError(t, err)
}

func TestRequestRejectsCancelledOrder(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	_, _, err := f.orderFixture.uc.UpdateStatus(ctx, o.ID, orderdom.StatusCancelled, o.UpdatedAt)
	require.NoError(t, err)

	_, err = f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "changed my mind"})
	assert.ErrorIs(t, err, orderdom.ErrIllegalTransition)
}

func TestRequestSurvivesStoreOutage(t *testing.T) {
	f := newReturnFixture()
	f.returns.FailCreate = true
	o := f.placeOrder(t)

	r, err := f.uc.Request(context.Background(), RequestReturnInput{OrderID: o.ID, Reason: "stale beans"})
	require.NoError(t, err)

	// Unpersisted but served; DocID marks the degradation.
	assert.Empty(t, r.DocID)
	assert.Equal(t, retdom.StatusRequested, r.Status)
}

func TestRequestFallsBackToWallClockID(t *testing.T) {
	f := newReturnFixture()
	o := f.placeOrder(t)
	f.alloc.FailNext = true

	r, err := f.uc.Request(context.Background(), RequestReturnInput{OrderID: o.ID, Reason: "stale beans"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.ID, "BREW-RET-F-"), "got id %q", r.ID)
}

func TestCompleteComputesRefundAndReturnsOrder(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	r, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "wrong roast"})
	require.NoError(t, err)

	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusApproved, retdom.StatusRequested)
	require.NoError(t, err)
	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusInProgress, retdom.StatusApproved)
	require.NoError(t, err)
	r, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusCompleted, retdom.StatusInProgress)
	require.NoError(t, err)

	// Refund = sum(price * qty) over the returned items.
	assert.Equal(t, int64(10000), r.RefundAmount)
	assert.Equal(t, "Completed", r.RefundStatus)

	done, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusReturned, done.Status)
}

func TestUpdateStatusStaleExpectationConflicts(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	r, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "wrong roast"})
	require.NoError(t, err)

	_, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusApproved, retdom.StatusRequested)
	require.NoError(t, err)

	// Second operator still sees Requested.
	_, _, err = f.uc.UpdateStatus(ctx, r.ID, retdom.StatusRejected, retdom.StatusRequested)
	assert.ErrorIs(t, err, retdom.ErrConflict)
}

func TestBulkUpdateStatusAggregatesFailures(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()

	o1 := f.placeOrder(t)
	o2 := f.placeOrder(t)

	r1, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o1.ID, Reason: "wrong roast"})
	require.NoError(t, err)
	r2, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o2.ID, Reason: "stale beans"})
	require.NoError(t, err)

	// r2 is already approved, so Requested -> Approved fails for it.
	_, _, err = f.uc.UpdateStatus(ctx, r2.ID, retdom.StatusApproved, retdom.StatusRequested)
	require.NoError(t, err)

	report := f.uc.BulkUpdateStatus(ctx, []string{r1.ID, r2.ID, "BREW-RET-99"}, retdom.StatusApproved)

	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failures, 2)

	failedIDs := []string{report.Failures[0].ID, report.Failures[1].ID}
	assert.Contains(t, failedIDs, r2.ID)
	assert.Contains(t, failedIDs, "BREW-RET-99")
}

func TestBulkGenerateLabels(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	r, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "wrong roast"})
	require.NoError(t, err)

	report := f.uc.BulkGenerateLabels(ctx, []string{r.ID, "BREW-RET-99"})
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failures, 1)

	labeled, err := f.returns.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, labeled.LabelGenerated)
	assert.Contains(t, labeled.LabelURL, r.ID)
}

func TestBulkProcessRefunds(t *testing.T) {
	f := newReturnFixture()
	ctx := context.Background()
	o := f.placeOrder(t)

	r, err := f.uc.Request(ctx, RequestReturnInput{OrderID: o.ID, Reason: "wrong roast"})
	require.NoError(t, err)

	report := f.uc.BulkProcessRefunds(ctx, []string{r.ID})
	assert.Equal(t, 1, report.Succeeded)

	refunded, err := f.returns.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), refunded.RefundAmount)
	assert.Equal(t, "Completed", refunded.RefundStatus)

	// Idempotent on a second pass.
	report = f.uc.BulkProcessRefunds(ctx, []string{r.ID})
	assert.Equal(t, 1, report.Succeeded)
	assert.Empty(t, report.Failures)
}
