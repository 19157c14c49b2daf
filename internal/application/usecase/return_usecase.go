// internal/application/usecase/return_usecase.go
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
	"brewhaven/internal/domain/sequence"
)

// ========================================
// Usecase
// ========================================

// ReturnUsecase opens return requests against existing orders and drives
// them through the return status machine, including the admin bulk
// operations. Return persistence is deliberately best effort: a store
// outage degrades to an in-memory request rather than blocking the
// customer.
type ReturnUsecase struct {
	returns  retdom.Repository
	orders   orderdom.Repository
	seq      sequence.Allocator
	notifier ReturnNotifier

	labelBaseURL string

	now func() time.Time
}

func NewReturnUsecase(
	returns retdom.Repository,
	orders orderdom.Repository,
	seq sequence.Allocator,
	notifier ReturnNotifier,
	labelBaseURL string,
) *ReturnUsecase {
	return &ReturnUsecase{
		returns:      returns,
		orders:       orders,
		seq:          seq,
		notifier:     notifier,
		labelBaseURL: labelBaseURL,
		now:          time.Now,
	}
}

// ========================================
// Request
// ========================================

type RequestReturnInput struct {
	OrderID string
	// Items defaults to every line of the order when empty.
	Items  []retdom.Item
	Reason string
	// AdminSubmitted turns on the stricter justification rule.
	AdminSubmitted bool
}

// Request opens a return against an existing order. The order must allow a
// transition to Return Requested; the order-side flip and the confirmation
// email are best effort, the return itself is handed back even when the
// store write failed (DocID stays empty in that case).
func (u *ReturnUsecase) Request(ctx context.Context, in RequestReturnInput) (retdom.ReturnRequest, error) {
	o, err := u.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return retdom.ReturnRequest{}, err
	}
	if !orderdom.CanTransition(o.Status, orderdom.StatusReturnRequested) {
		return retdom.ReturnRequest{}, orderdom.ErrIllegalTransition
	}

	if in.AdminSubmitted {
		if err := retdom.ValidateAdminReason(in.Reason); err != nil {
			return retdom.ReturnRequest{}, err
		}
	}

	items := in.Items
	if len(items) == 0 {
		items = itemsFromOrder(o.Items)
	} else {
		items, err = matchOrderItems(o.Items, items)
		if err != nil {
			return retdom.ReturnRequest{}, err
		}
	}

	now := u.now()
	id := u.nextReturnID(ctx, now)

	r, err := retdom.New(id, o.ID, o.Date, o.Customer.Name, o.Customer.Email, items, in.Reason, now)
	if err != nil {
		return retdom.ReturnRequest{}, err
	}

	created, err := u.returns.Create(ctx, r)
	if err != nil {
		// Degraded: keep serving the locally built request.
		log.Printf("[return_usecase] persisting return failed id=%s err=%v (continuing unpersisted)", r.ID, err)
		created = r
	}

	u.flagOrder(ctx, o, created.ID, now)
	u.notify(ctx, &created)

	return created, nil
}

// flagOrder flips the originating order into Return Requested. Logged on
// failure; the return request stands either way.
func (u *ReturnUsecase) flagOrder(ctx context.Context, o orderdom.Order, returnID string, now time.Time) {
	expected := o.UpdatedAt
	if err := o.AttachReturnRequest(returnID, now); err != nil {
		log.Printf("[return_usecase] flagging order failed orderId=%s err=%v", o.ID, err)
		return
	}
	if _, err := u.orders.Save(ctx, o, expected); err != nil {
		log.Printf("[return_usecase] saving flagged order failed orderId=%s err=%v", o.ID, err)
	}
}

func (u *ReturnUsecase) nextReturnID(ctx context.Context, now time.Time) string {
	n, err := u.seq.Next(ctx, sequence.ReturnSequence)
	if err != nil {
		log.Printf("[return_usecase] sequence allocation failed, using fallback id: %v", err)
		return sequence.FallbackReturnID(now)
	}
	return sequence.FormatReturnID(n)
}

// ========================================
// Status machine
// ========================================

// UpdateStatus applies a guarded transition, persisted conditionally on
// the status the caller read (expectedStatus). Completing a return
// computes the refund and flips the originating order to Returned.
func (u *ReturnUsecase) UpdateStatus(
	ctx context.Context,
	id string,
	to retdom.Status,
	expectedStatus retdom.Status,
) (retdom.ReturnRequest, NotificationOutcome, error) {
	r, err := u.returns.GetByID(ctx, id)
	if err != nil {
		return retdom.ReturnRequest{}, NotificationOutcome{}, err
	}

	if err := r.Transition(to, u.now()); err != nil {
		return retdom.ReturnRequest{}, NotificationOutcome{}, err
	}

	saved, err := u.returns.Save(ctx, r, expectedStatus)
	if err != nil {
		return retdom.ReturnRequest{}, NotificationOutcome{}, err
	}

	if to == retdom.StatusCompleted {
		u.markOrderReturned(ctx, saved.OrderID)
	}

	outcome := u.notify(ctx, &saved)
	return saved, outcome, nil
}

// markOrderReturned flips the order once its return completes. Logged on
// failure, never rolled back.
func (u *ReturnUsecase) markOrderReturned(ctx context.Context, orderID string) {
	o, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("[return_usecase] loading order for return completion failed orderId=%s err=%v", orderID, err)
		return
	}
	expected := o.UpdatedAt
	if err := o.ChangeStatus(orderdom.StatusReturned, u.now()); err != nil {
		log.Printf("[return_usecase] order cannot move to Returned orderId=%s status=%s err=%v", o.ID, o.Status, err)
		return
	}
	if _, err := u.orders.Save(ctx, o, expected); err != nil {
		log.Printf("[return_usecase] saving returned order failed orderId=%s err=%v", o.ID, err)
	}
}

// notify emails the customer and records the send on the request. Failures
// are reported back, never fatal.
func (u *ReturnUsecase) notify(ctx context.Context, r *retdom.ReturnRequest) NotificationOutcome {
	if u.notifier == nil {
		return NotificationOutcome{}
	}

	outcome := NotificationOutcome{Attempted: true}

	if err := u.notifier.SendReturnStatus(ctx, *r); err != nil {
		log.Printf("[return_usecase] status email failed id=%s status=%s err=%v", r.ID, r.Status, err)
		outcome.Error = err.Error()
		return outcome
	}

	sentAt := u.now()
	outcome.Sent = true
	outcome.SentAt = sentAt.UTC()

	r.MarkNotified(r.Status, sentAt)
	if saved, err := u.returns.Save(ctx, *r, r.Status); err != nil {
		log.Printf("[return_usecase] recording notification failed id=%s err=%v", r.ID, err)
	} else {
		*r = saved
	}
	return outcome
}

// ========================================
// Bulk operations
// ========================================

// BulkFailure is one failed item of a bulk operation.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkReport aggregates a bulk operation: every id either succeeded or has
// a failure entry, and partial success is normal.
type BulkReport struct {
	Succeeded int           `json:"succeeded"`
	Failures  []BulkFailure `json:"failures"`
}

func (r *BulkReport) fail(id string, err error) {
	r.Failures = append(r.Failures, BulkFailure{ID: id, Reason: err.Error()})
}

// BulkUpdateStatus moves every listed request to the target status. A
// status change that lands but whose email fails is recorded as a failure
// entry without undoing the change.
func (u *ReturnUsecase) BulkUpdateStatus(ctx context.Context, ids []string, to retdom.Status) BulkReport {
	var report BulkReport

	for _, id := range ids {
		r, err := u.returns.GetByID(ctx, id)
		if err != nil {
			report.fail(id, err)
			continue
		}

		_, outcome, err := u.UpdateStatus(ctx, id, to, r.Status)
		if err != nil {
			report.fail(id, err)
			continue
		}
		if outcome.Attempted && !outcome.Sent {
			report.fail(id, fmt.Errorf("status updated but notification failed: %s", outcome.Error))
			continue
		}
		report.Succeeded++
	}
	return report
}

// BulkGenerateLabels generates return labels for every listed request.
func (u *ReturnUsecase) BulkGenerateLabels(ctx context.Context, ids []string) BulkReport {
	var report BulkReport

	for _, id := range ids {
		r, err := u.returns.GetByID(ctx, id)
		if err != nil {
			report.fail(id, err)
			continue
		}

		r.GenerateLabel(u.labelURL(r.ID))
		if _, err := u.returns.Save(ctx, r, r.Status); err != nil {
			report.fail(id, err)
			continue
		}
		report.Succeeded++
	}
	return report
}

// BulkProcessRefunds records refunds for every listed request. Requests
// with a refund already recorded count as succeeded (the operation is
// idempotent per request).
func (u *ReturnUsecase) BulkProcessRefunds(ctx context.Context, ids []string) BulkReport {
	var report BulkReport

	for _, id := range ids {
		r, err := u.returns.GetByID(ctx, id)
		if err != nil {
			report.fail(id, err)
			continue
		}

		r.ProcessRefund(u.now())
		if _, err := u.returns.Save(ctx, r, r.Status); err != nil {
			report.fail(id, err)
			continue
		}
		report.Succeeded++
	}
	return report
}

func (u *ReturnUsecase) labelURL(id string) string {
	base := u.labelBaseURL
	if base == "" {
		base = "https://returns.brewhaven.example/labels"
	}
	return fmt.Sprintf("%s/%s.pdf", base, id)
}

// ========================================
// Queries
// ========================================

func (u *ReturnUsecase) Get(ctx context.Context, id string) (retdom.ReturnRequest, error) {
	return u.returns.GetByID(ctx, id)
}

func (u *ReturnUsecase) List(ctx context.Context) ([]retdom.ReturnRequest, error) {
	return u.returns.List(ctx)
}

func (u *ReturnUsecase) ListByOrder(ctx context.Context, orderID string) ([]retdom.ReturnRequest, error) {
	return u.returns.ListByOrder(ctx, orderID)
}

// ========================================
// Helpers
// ========================================

func itemsFromOrder(items []orderdom.ItemSnapshot) []retdom.Item {
	out := make([]retdom.Item, 0, len(items))
	for _, it := range items {
		out = append(out, retdom.Item{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Name:        it.Name,
			VariantName: it.VariantName,
			Price:       it.Price,
			Qty:         it.Qty,
		})
	}
	return out
}

// matchOrderItems resolves the requested items against the order's lines.
// Returned items are a subset of the order: every requested (product,
// variant) must match an ordered line, quantities are bounded by the
// ordered quantity (summed across duplicate request lines), and name and
// price always come from the order snapshot, never from the request. The
// refund is therefore computed from prices the store recorded at checkout.
func matchOrderItems(ordered []orderdom.ItemSnapshot, requested []retdom.Item) ([]retdom.Item, error) {
	remaining := make(map[string]orderdom.ItemSnapshot, len(ordered))
	for _, it := range ordered {
		remaining[it.ProductID+"/"+it.VariantID] = it
	}

	out := make([]retdom.Item, 0, len(requested))
	for _, req := range requested {
		line, ok := remaining[req.ProductID+"/"+req.VariantID]
		if !ok {
			return nil, ErrReturnItemNotInOrder
		}
		if req.Qty < 1 || req.Qty > line.Qty {
			return nil, ErrReturnQuantity
		}

		line.Qty -= req.Qty
		remaining[req.ProductID+"/"+req.VariantID] = line

		out = append(out, retdom.Item{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			Name:        line.Name,
			VariantName: line.VariantName,
			Price:       line.Price,
			Qty:         req.Qty,
		})
	}
	return out, nil
}
