// internal/domain/order/entity_test.go
package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testCustomer() Customer {
	return Customer{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"}
}

func testItems() []ItemSnapshot {
	return []ItemSnapshot{
		{ProductID: "p1", VariantID: "v1", Name: "Colombia", VariantName: "250g", Price: 5000, Qty: 2},
	}
}

func TestShippingFee(t *testing.T) {
	assert.Equal(t, FlatShippingFee, ShippingFee(0))
	assert.Equal(t, FlatShippingFee, ShippingFee(FreeShippingThreshold-1))
	assert.Equal(t, int64(0), ShippingFee(FreeShippingThreshold))
	assert.Equal(t, int64(0), ShippingFee(FreeShippingThreshold+1))
}

func TestNewComputesTotals(t *testing.T) {
	o, err := New("BREW-01", testCustomer(), testItems(), Address{Street: "1 Bean St"}, Address{}, "card", testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), o.Subtotal)
	assert.Equal(t, FlatShippingFee, o.Shipping)
	assert.Equal(t, int64(20000), o.Total)
	assert.Equal(t, StatusProcessing, o.Status)
	assert.Equal(t, testNow, o.CreatedAt)
	assert.Equal(t, testNow, o.UpdatedAt)

	// Line price is computed, not trusted from input.
	assert.Equal(t, int64(10000), o.Items[0].LinePrice)
}

func TestNewFreeShippingAtThreshold(t *testing.T) {
	items := []ItemSnapshot{
		{ProductID: "p1", VariantID: "v1", Name: "Subscription", VariantName: "12mo", Price: FreeShippingThreshold, Qty: 1},
	}
	o, err := New("BREW-02", testCustomer(), items, Address{}, Address{}, "card", testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(0), o.Shipping)
	assert.Equal(t, FreeShippingThreshold, o.Total)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", testCustomer(), testItems(), Address{}, Address{}, "card", testNow)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("BREW-01", Customer{Name: "Ada Brewer"}, testItems(), Address{}, Address{}, "card", testNow)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	_, err = New("BREW-01", testCustomer(), nil, Address{}, Address{}, "card", testNow)
	assert.ErrorIs(t, err, ErrInvalidItems)

	bad := testItems()
	bad[0].Qty = 0
	_, err = New("BREW-01", testCustomer(), bad, Address{}, Address{}, "card", testNow)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusProcessing, StatusReturnRequested},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusReturnRequested},
		{StatusDelivered, StatusReturnRequested},
		{StatusReturnRequested, StatusReturned},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusProcessing, StatusDelivered},
		{StatusProcessing, StatusReturned},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusShipped},
		{StatusCancelled, StatusReturnRequested},
		{StatusReturned, StatusReturnRequested},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestChangeStatus(t *testing.T) {
	o, err := New("BREW-01", testCustomer(), testItems(), Address{}, Address{}, "card", testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	require.NoError(t, o.ChangeStatus(StatusShipped, later))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, later, o.UpdatedAt)

	err = o.ChangeStatus(StatusCancelled, later)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, StatusShipped, o.Status)
}

func TestAttachReturnRequest(t *testing.T) {
	o, err := New("BREW-01", testCustomer(), testItems(), Address{}, Address{}, "card", testNow)
	require.NoError(t, err)

	require.NoError(t, o.AttachReturnRequest("BREW-RET-01", testNow.Add(time.Hour)))
	assert.Equal(t, StatusReturnRequested, o.Status)
	assert.Equal(t, "BREW-RET-01", o.ReturnRequestID)

	// A cancelled order cannot open a return.
	o2, err := New("BREW-02", testCustomer(), testItems(), Address{}, Address{}, "card", testNow)
	require.NoError(t, err)
	require.NoError(t, o2.ChangeStatus(StatusCancelled, testNow))
	assert.ErrorIs(t, o2.AttachReturnRequest("BREW-RET-02", testNow), ErrIllegalTransition)
}

func TestNotifiableStatus(t *testing.T) {
	assert.True(t, NotifiableStatus(StatusShipped))
	assert.True(t, NotifiableStatus(StatusDelivered))
	assert.True(t, NotifiableStatus(StatusCancelled))
	assert.False(t, NotifiableStatus(StatusProcessing))
	assert.False(t, NotifiableStatus(StatusReturnRequested))
	assert.False(t, NotifiableStatus(StatusReturned))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Return Requested ")
	assert.NoError(t, err)
	assert.Equal(t, StatusReturnRequested, s)

	_, err = ParseStatus("Refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
