// internal/adapters/out/firestore/order_repository_fs.go
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

	orderdom "brewhaven/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id (BREW-xx) — the human-readable id is the document key
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

// Create persists a new order document. The write must succeed before the
// order is considered placed; the document reference is attached to the
// returned order.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}

	ref := r.col().Doc(o.ID)
	if _, err := ref.Create(ctx, orderDocFromDomain(o)); err != nil {
		return orderdom.Order{}, err
	}

	o.DocID = ref.ID
	return o, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}

	return docToOrder(snap)
}

func (r *OrderRepositoryFS) List(ctx context.Context) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.collect(r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx))
}

func (r *OrderRepositoryFS) ListByCustomer(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return []orderdom.Order{}, nil
	}

	q := r.col().Where("customer.id", "==", cid)
	return r.collect(q.Documents(ctx))
}

// Save is a conditional full-document write: it fails with ErrConflict when
// the stored updatedAt differs from expectedUpdatedAt, instead of silently
// overwriting a concurrent admin edit.
func (r *OrderRepositoryFS) Save(ctx context.Context, o orderdom.Order, expectedUpdatedAt time.Time) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}

	ref := r.col().Doc(o.ID)
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return orderdom.ErrNotFound
			}
			return err
		}

		stored, err := docToOrder(snap)
		if err != nil {
			return err
		}
		if !stored.UpdatedAt.Equal(expectedUpdatedAt.UTC()) {
			return orderdom.ErrConflict
		}

		return tx.Set(ref, orderDocFromDomain(o))
	})
	if err != nil {
		return orderdom.Order{}, err
	}

	o.DocID = ref.ID
	return o, nil
}

func (r *OrderRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.ErrNotFound
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *OrderRepositoryFS) collect(it *firestore.DocumentIterator) ([]orderdom.Order, error) {
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		o, err := docToOrder(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
