// internal/adapters/out/firestore/customer_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	custdom "brewhaven/internal/domain/customer"
)

// CustomerRepositoryFS implements customer.Repository using Firestore.
//
// Collection design:
// - collection: customers
// - docId: generated (NewDoc) — customers are matched by email, not by id
type CustomerRepositoryFS struct {
	Client *firestore.Client
}

func NewCustomerRepositoryFS(client *firestore.Client) *CustomerRepositoryFS {
	return &CustomerRepositoryFS{Client: client}
}

func (r *CustomerRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("customers")
}

// GetByEmail returns (nil, nil) if no record matches (nil policy).
func (r *CustomerRepositoryFS) GetByEmail(ctx context.Context, email string) (*custdom.Aggregate, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("customer_repository_fs: firestore client is nil")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	it := r.col().Where("email", "==", email).Limit(1).Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a, err := docToCustomer(doc)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CustomerRepositoryFS) Create(ctx context.Context, a custdom.Aggregate) (custdom.Aggregate, error) {
	if r == nil || r.Client == nil {
		return custdom.Aggregate{}, errors.New("customer_repository_fs: firestore client is nil")
	}

	ref := r.col().NewDoc()
	a.ID = ref.ID
	if _, err := ref.Set(ctx, customerDocFromDomain(a)); err != nil {
		return custdom.Aggregate{}, err
	}
	return a, nil
}

func (r *CustomerRepositoryFS) Save(ctx context.Context, a custdom.Aggregate) error {
	if r == nil || r.Client == nil {
		return errors.New("customer_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("customer_repository_fs: Save requires aggregate.ID")
	}

	_, err := r.col().Doc(a.ID).Set(ctx, customerDocFromDomain(a))
	return err
}

func (r *CustomerRepositoryFS) List(ctx context.Context) ([]custdom.Aggregate, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("customer_repository_fs: firestore client is nil")
	}

	it := r.col().OrderBy("joinedDate", firestore.Desc).Documents(ctx)
	defer it.Stop()

	out := []custdom.Aggregate{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		a, err := docToCustomer(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type customerDoc struct {
	Name       string    `firestore:"name"`
	Email      string    `firestore:"email"`
	Phone      string    `firestore:"phone"`
	Orders     int       `firestore:"orders"`
	Spent      int64     `firestore:"spent"`
	JoinedDate time.Time `firestore:"joinedDate"`
}

func customerDocFromDomain(a custdom.Aggregate) customerDoc {
	return customerDoc{
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		Orders:     a.Orders,
		Spent:      a.Spent,
		JoinedDate: a.JoinedDate,
	}
}

func docToCustomer(snap *firestore.DocumentSnapshot) (custdom.Aggregate, error) {
	var raw customerDoc
	if err := snap.DataTo(&raw); err != nil {
		return custdom.Aggregate{}, err
	}

	return custdom.Aggregate{
		ID:         snap.Ref.ID,
		Name:       strings.TrimSpace(raw.Name),
		Email:      strings.TrimSpace(raw.Email),
		Phone:      strings.TrimSpace(raw.Phone),
		Orders:     raw.Orders,
		Spent:      raw.Spent,
		JoinedDate: raw.JoinedDate.UTC(),
	}, nil
}
