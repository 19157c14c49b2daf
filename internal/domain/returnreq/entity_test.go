// internal/domain/returnreq/entity_test.go
package returnreq

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow       = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	testOrderDate = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
)

func testRequest(t *testing.T) ReturnRequest {
	t.Helper()
	r, err := New("BREW-RET-01", "BREW-01", testOrderDate, "Ada Brewer", "ada@example.com",
		[]Item{
			{ProductID: "p1", VariantID: "v1", Name: "Colombia", VariantName: "250g", Price: 5000, Qty: 2},
			{ProductID: "p2", VariantID: "v1", Name: "Kenya", VariantName: "500g", Price: 9000, Qty: 1},
		},
		"arrived damaged", testNow)
	require.NoError(t, err)
	return r
}

func TestNewSchedulesPickup(t *testing.T) {
	r := testRequest(t)

	assert.Equal(t, StatusRequested, r.Status)
	assert.Equal(t, testNow.Add(PickupWindow), r.ScheduledDate)
	assert.Equal(t, testNow, r.CreatedAt)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "BREW-01", testOrderDate, "Ada Brewer", "ada@example.com",
		[]Item{{ProductID: "p1", VariantID: "v1", Qty: 1}}, "reason", testNow)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("BREW-RET-01", "", testOrderDate, "Ada Brewer", "ada@example.com",
		[]Item{{ProductID: "p1", VariantID: "v1", Qty: 1}}, "reason", testNow)
	assert.ErrorIs(t, err, ErrInvalidOrderID)

	_, err = New("BREW-RET-01", "BREW-01", testOrderDate, "Ada Brewer", "ada@example.com",
		nil, "reason", testNow)
	assert.ErrorIs(t, err, ErrInvalidItems)
}

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusRequested, StatusApproved},
		{StatusRequested, StatusRejected},
		{StatusApproved, StatusInProgress},
		{StatusApproved, StatusRejected},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusRejected},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusRequested, StatusInProgress},
		{StatusRequested, StatusCompleted},
		{StatusApproved, StatusCompleted},
		{StatusCompleted, StatusRejected},
		{StatusRejected, StatusApproved},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionCompletedComputesRefund(t *testing.T) {
	r := testRequest(t)

	require.NoError(t, r.Transition(StatusApproved, testNow))
	require.NoError(t, r.Transition(StatusInProgress, testNow))
	assert.Equal(t, "", r.RefundStatus)

	done := testNow.Add(72 * time.Hour)
	require.NoError(t, r.Transition(StatusCompleted, done))

	// Sum of price * qty over returned items.
	assert.Equal(t, int64(19000), r.RefundAmount)
	assert.Equal(t, "Completed", r.RefundStatus)
	require.NotNil(t, r.RefundDate)
	assert.Equal(t, done, *r.RefundDate)
}

func TestTransitionCompletedKeepsExistingRefund(t *testing.T) {
	r := testRequest(t)
	require.NoError(t, r.Transition(StatusApproved, testNow))
	require.NoError(t, r.Transition(StatusInProgress, testNow))

	// Refund already processed in bulk before completion.
	r.ProcessRefund(testNow)
	assert.Equal(t, int64(19000), r.RefundAmount)

	r.RefundAmount = 5000 // manual adjustment stands
	require.NoError(t, r.Transition(StatusCompleted, testNow))
	assert.Equal(t, int64(5000), r.RefundAmount)
}

func TestProcessRefundIsIdempotent(t *testing.T) {
	r := testRequest(t)

	r.ProcessRefund(testNow)
	first := *r.RefundDate

	r.ProcessRefund(testNow.Add(time.Hour))
	assert.Equal(t, first, *r.RefundDate)
	assert.Equal(t, int64(19000), r.RefundAmount)
}

func TestGenerateLabel(t *testing.T) {
	r := testRequest(t)
	r.GenerateLabel(" https://labels.example/BREW-RET-01.pdf ")

	assert.True(t, r.LabelGenerated)
	assert.Equal(t, "https://labels.example/BREW-RET-01.pdf", r.LabelURL)
}

func TestValidateAdminReason(t *testing.T) {
	assert.ErrorIs(t, ValidateAdminReason("too short"), ErrReasonTooShort)
	assert.ErrorIs(t, ValidateAdminReason(strings.Repeat(" ", 40)), ErrReasonTooShort)
	assert.NoError(t, ValidateAdminReason("customer reported grinder damage on arrival"))

	// Rune length, not byte length.
	assert.NoError(t, ValidateAdminReason(strings.Repeat("あ", MinAdminReasonLen)))
}
