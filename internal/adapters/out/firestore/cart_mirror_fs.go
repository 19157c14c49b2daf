// internal/adapters/out/firestore/cart_mirror_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	cartdom "brewhaven/internal/domain/cart"
)

// CartMirrorFS implements cart.MirrorWriter: a remote convenience copy of
// the cart for signed-in customers. It is never read back as a source of
// truth by this service.
//
// Collection design:
// - collection: carts
// - docId: customer id
type CartMirrorFS struct {
	Client *firestore.Client
}

func NewCartMirrorFS(client *firestore.Client) *CartMirrorFS {
	return &CartMirrorFS{Client: client}
}

func (m *CartMirrorFS) Write(ctx context.Context, customerID string, s cartdom.State) error {
	if m == nil || m.Client == nil {
		return errors.New("cart_mirror_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return errors.New("cart_mirror_fs: customerID is empty")
	}

	doc := cartMirrorDoc{
		Items:           s.Items,
		Total:           s.Total,
		ShippingAddress: s.ShippingAddress,
		BillingAddress:  s.BillingAddress,
		UpdatedAt:       time.Now().UTC(),
	}

	_, err := m.Client.Collection("carts").Doc(cid).Set(ctx, doc)
	return err
}

type cartMirrorDoc struct {
	Items           []cartdom.Item   `firestore:"items"`
	Total           int64            `firestore:"total"`
	ShippingAddress *cartdom.Address `firestore:"shippingAddress"`
	BillingAddress  *cartdom.Address `firestore:"billingAddress"`
	UpdatedAt       time.Time        `firestore:"updatedAt"`
}
