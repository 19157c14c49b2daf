// internal/adapters/out/firestore/returnRequest_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	retdom "brewhaven/internal/domain/returnreq"
)

// ReturnRequestRepositoryFS implements returnreq.Repository using Firestore.
//
// Collection design:
// - collection: returnRequests
// - docId: return id (BREW-RET-xx)
type ReturnRequestRepositoryFS struct {
	Client *firestore.Client
}

func NewReturnRequestRepositoryFS(client *firestore.Client) *ReturnRequestRepositoryFS {
	return &ReturnRequestRepositoryFS{Client: client}
}

func (r *ReturnRequestRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("returnRequests")
}

func (r *ReturnRequestRepositoryFS) Create(ctx context.Context, req retdom.ReturnRequest) (retdom.ReturnRequest, error) {
	if r == nil || r.Client == nil {
		return retdom.ReturnRequest{}, errors.New("returnRequest_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(req.ID) == "" {
		return retdom.ReturnRequest{}, retdom.ErrInvalidID
	}

	ref := r.col().Doc(req.ID)
	if _, err := ref.Create(ctx, returnDocFromDomain(req)); err != nil {
		return retdom.ReturnRequest{}, err
	}

	req.DocID = ref.ID
	return req, nil
}

func (r *ReturnRequestRepositoryFS) GetByID(ctx context.Context, id string) (retdom.ReturnRequest, error) {
	if r == nil || r.Client == nil {
		return retdom.ReturnRequest{}, errors.New("returnRequest_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return retdom.ReturnRequest{}, retdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return retdom.ReturnRequest{}, retdom.ErrNotFound
		}
		return retdom.ReturnRequest{}, err
	}

	return docToReturn(snap)
}

func (r *ReturnRequestRepositoryFS) List(ctx context.Context) ([]retdom.ReturnRequest, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("returnRequest_repository_fs: firestore client is nil")
	}
	return r.collect(r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx))
}

func (r *ReturnRequestRepositoryFS) ListByOrder(ctx context.Context, orderID string) ([]retdom.ReturnRequest, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("returnRequest_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return []retdom.ReturnRequest{}, nil
	}

	return r.collect(r.col().Where("orderId", "==", oid).Documents(ctx))
}

// Save is conditional on the stored status: a concurrent transition by
// another admin surfaces as ErrConflict instead of a silent overwrite.
func (r *ReturnRequestRepositoryFS) Save(ctx context.Context, req retdom.ReturnRequest, expectedStatus retdom.Status) (retdom.ReturnRequest, error) {
	if r == nil || r.Client == nil {
		return retdom.ReturnRequest{}, errors.New("returnRequest_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(req.ID) == "" {
		return retdom.ReturnRequest{}, retdom.ErrInvalidID
	}

	ref := r.col().Doc(req.ID)
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return retdom.ErrNotFound
			}
			return err
		}

		stored, err := docToReturn(snap)
		if err != nil {
			return err
		}
		if stored.Status != expectedStatus {
			return retdom.ErrConflict
		}

		return tx.Set(ref, returnDocFromDomain(req))
	})
	if err != nil {
		return retdom.ReturnRequest{}, err
	}

	req.DocID = ref.ID
	return req, nil
}

func (r *ReturnRequestRepositoryFS) collect(it *firestore.DocumentIterator) ([]retdom.ReturnRequest, error) {
	defer it.Stop()

	out := []retdom.ReturnRequest{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		req, err := docToReturn(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type returnDoc struct {
	OrderID       string    `firestore:"orderId"`
	OrderDate     time.Time `firestore:"orderDate"`
	CustomerName  string    `firestore:"customerName"`
	CustomerEmail string    `firestore:"customerEmail"`

	Items  []returnItemDoc `firestore:"items"`
	Reason string          `firestore:"reason"`

	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"createdAt"`
	ScheduledDate time.Time `firestore:"scheduledDate"`

	RefundStatus string     `firestore:"refundStatus"`
	RefundAmount int64      `firestore:"refundAmount"`
	RefundDate   *time.Time `firestore:"refundDate"`

	LabelGenerated bool   `firestore:"labelGenerated"`
	LabelURL       string `firestore:"labelUrl"`

	LastNotificationStatus string     `firestore:"lastNotificationStatus"`
	LastNotificationDate   *time.Time `firestore:"lastNotificationDate"`
}

type returnItemDoc struct {
	ProductID   string `firestore:"productId"`
	VariantID   string `firestore:"variantId"`
	Name        string `firestore:"name"`
	VariantName string `firestore:"variantName"`
	Price       int64  `firestore:"price"`
	Qty         int    `firestore:"quantity"`
}

func returnDocFromDomain(r retdom.ReturnRequest) returnDoc {
	items := make([]returnItemDoc, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, returnItemDoc{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Name:        it.Name,
			VariantName: it.VariantName,
			Price:       it.Price,
			Qty:         it.Qty,
		})
	}

	return returnDoc{
		OrderID:                r.OrderID,
		OrderDate:              r.OrderDate,
		CustomerName:           r.CustomerName,
		CustomerEmail:          r.CustomerEmail,
		Items:                  items,
		Reason:                 r.Reason,
		Status:                 string(r.Status),
		CreatedAt:              r.CreatedAt,
		ScheduledDate:          r.ScheduledDate,
		RefundStatus:           r.RefundStatus,
		RefundAmount:           r.RefundAmount,
		RefundDate:             r.RefundDate,
		LabelGenerated:         r.LabelGenerated,
		LabelURL:               r.LabelURL,
		LastNotificationStatus: string(r.LastNotificationStatus),
		LastNotificationDate:   r.LastNotificationDate,
	}
}

func docToReturn(snap *firestore.DocumentSnapshot) (retdom.ReturnRequest, error) {
	if snap == nil {
		return retdom.ReturnRequest{}, errors.New("returnRequest_repository_fs: snapshot is nil")
	}

	var raw returnDoc
	if err := snap.DataTo(&raw); err != nil {
		return retdom.ReturnRequest{}, err
	}

	st, err := retdom.ParseStatus(raw.Status)
	if err != nil {
		return retdom.ReturnRequest{}, err
	}

	items := make([]retdom.Item, 0, len(raw.Items))
	for _, it := range raw.Items {
		items = append(items, retdom.Item{
			ProductID:   strings.TrimSpace(it.ProductID),
			VariantID:   strings.TrimSpace(it.VariantID),
			Name:        strings.TrimSpace(it.Name),
			VariantName: strings.TrimSpace(it.VariantName),
			Price:       it.Price,
			Qty:         it.Qty,
		})
	}

	req := retdom.ReturnRequest{
		ID:             snap.Ref.ID,
		OrderID:        strings.TrimSpace(raw.OrderID),
		OrderDate:      raw.OrderDate.UTC(),
		CustomerName:   strings.TrimSpace(raw.CustomerName),
		CustomerEmail:  strings.TrimSpace(raw.CustomerEmail),
		Items:          items,
		Reason:         raw.Reason,
		Status:         st,
		CreatedAt:      raw.CreatedAt.UTC(),
		ScheduledDate:  raw.ScheduledDate.UTC(),
		RefundStatus:   strings.TrimSpace(raw.RefundStatus),
		RefundAmount:   raw.RefundAmount,
		RefundDate:     raw.RefundDate,
		LabelGenerated: raw.LabelGenerated,
		LabelURL:       strings.TrimSpace(raw.LabelURL),
		DocID:          snap.Ref.ID,
	}

	if raw.LastNotificationStatus != "" {
		if ns, err := retdom.ParseStatus(raw.LastNotificationStatus); err == nil {
			req.LastNotificationStatus = ns
		}
	}
	req.LastNotificationDate = raw.LastNotificationDate

	return req, nil
}
