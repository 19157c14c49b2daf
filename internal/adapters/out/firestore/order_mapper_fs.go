// internal/adapters/out/firestore/order_mapper_fs.go
package firestore

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	orderdom "brewhaven/internal/domain/order"
)

// orderDoc is the Firestore DTO for orders. The domain struct is never
// stored directly; every read goes through docToOrder so callers see a
// single canonical shape regardless of document age.
type orderDoc struct {
	Customer orderCustomerDoc `firestore:"customer"`
	Items    []orderItemDoc   `firestore:"items"`

	ShippingAddress addressDoc `firestore:"shippingAddress"`
	BillingAddress  addressDoc `firestore:"billingAddress"`

	Subtotal int64 `firestore:"subtotal"`
	Shipping int64 `firestore:"shipping"`
	Total    int64 `firestore:"total"`

	Status string `firestore:"status"`

	Date      time.Time `firestore:"date"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`

	PaymentMethod  string `firestore:"paymentMethod"`
	TrackingNumber string `firestore:"trackingNumber"`
	Notes          string `firestore:"notes"`

	LastEmailNotification *emailNotificationDoc `firestore:"lastEmailNotification"`

	ReturnRequestID string `firestore:"returnRequestId"`
}

type orderCustomerDoc struct {
	ID    string `firestore:"id"`
	Name  string `firestore:"name"`
	Email string `firestore:"email"`
	Phone string `firestore:"phone"`
}

type orderItemDoc struct {
	ProductID   string `firestore:"productId"`
	VariantID   string `firestore:"variantId"`
	Name        string `firestore:"name"`
	VariantName string `firestore:"variantName"`
	Price       int64  `firestore:"price"`
	Qty         int    `firestore:"quantity"`
	LinePrice   int64  `firestore:"linePrice"`
}

type addressDoc struct {
	Street  string `firestore:"street"`
	City    string `firestore:"city"`
	State   string `firestore:"state"`
	ZipCode string `firestore:"zipCode"`
	Country string `firestore:"country"`
}

type emailNotificationDoc struct {
	Status string    `firestore:"status"`
	Date   time.Time `firestore:"date"`
}

func orderDocFromDomain(o orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Name:        it.Name,
			VariantName: it.VariantName,
			Price:       it.Price,
			Qty:         it.Qty,
			LinePrice:   it.LinePrice,
		})
	}

	doc := orderDoc{
		Customer: orderCustomerDoc{
			ID:    o.Customer.ID,
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		Items:           items,
		ShippingAddress: addressDocFromDomain(o.ShippingAddress),
		BillingAddress:  addressDocFromDomain(o.BillingAddress),
		Subtotal:        o.Subtotal,
		Shipping:        o.Shipping,
		Total:           o.Total,
		Status:          string(o.Status),
		Date:            o.Date,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		PaymentMethod:   o.PaymentMethod,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		ReturnRequestID: o.ReturnRequestID,
	}

	if o.LastEmailNotification != nil {
		doc.LastEmailNotification = &emailNotificationDoc{
			Status: string(o.LastEmailNotification.Status),
			Date:   o.LastEmailNotification.Date,
		}
	}

	return doc
}

func docToOrder(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	if snap == nil {
		return orderdom.Order{}, errors.New("order_mapper_fs: snapshot is nil")
	}

	var raw orderDoc
	if err := snap.DataTo(&raw); err != nil {
		return orderdom.Order{}, err
	}

	st, err := orderdom.ParseStatus(raw.Status)
	if err != nil {
		return orderdom.Order{}, err
	}

	items := make([]orderdom.ItemSnapshot, 0, len(raw.Items))
	for _, it := range raw.Items {
		n := orderdom.ItemSnapshot{
			ProductID:   strings.TrimSpace(it.ProductID),
			VariantID:   strings.TrimSpace(it.VariantID),
			Name:        strings.TrimSpace(it.Name),
			VariantName: strings.TrimSpace(it.VariantName),
			Price:       it.Price,
			Qty:         it.Qty,
			LinePrice:   it.LinePrice,
		}
		if n.LinePrice == 0 {
			n.LinePrice = n.Price * int64(n.Qty)
		}
		items = append(items, n)
	}

	o := orderdom.Order{
		ID: snap.Ref.ID,
		Customer: orderdom.Customer{
			ID:    strings.TrimSpace(raw.Customer.ID),
			Name:  strings.TrimSpace(raw.Customer.Name),
			Email: strings.TrimSpace(raw.Customer.Email),
			Phone: strings.TrimSpace(raw.Customer.Phone),
		},
		Items:           items,
		ShippingAddress: addressToDomain(raw.ShippingAddress),
		BillingAddress:  addressToDomain(raw.BillingAddress),
		Subtotal:        raw.Subtotal,
		Shipping:        raw.Shipping,
		Total:           raw.Total,
		Status:          st,
		Date:            raw.Date.UTC(),
		CreatedAt:       raw.CreatedAt.UTC(),
		UpdatedAt:       raw.UpdatedAt.UTC(),
		PaymentMethod:   strings.TrimSpace(raw.PaymentMethod),
		TrackingNumber:  strings.TrimSpace(raw.TrackingNumber),
		Notes:           raw.Notes,
		ReturnRequestID: strings.TrimSpace(raw.ReturnRequestID),
		DocID:           snap.Ref.ID,
	}

	if raw.LastEmailNotification != nil {
		ns, err := orderdom.ParseStatus(raw.LastEmailNotification.Status)
		if err == nil {
			o.LastEmailNotification = &orderdom.EmailNotification{
				Status: ns,
				Date:   raw.LastEmailNotification.Date.UTC(),
			}
		}
	}

	return o, nil
}

func addressDocFromDomain(a orderdom.Address) addressDoc {
	return addressDoc{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func addressToDomain(a addressDoc) orderdom.Address {
	return orderdom.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}
