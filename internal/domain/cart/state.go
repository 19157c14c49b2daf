// internal/domain/cart/state.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidItem = errors.New("cart: invalid item")
)

// Address is plain shipping/billing data attached to the cart and copied
// into orders at checkout. Presence checks are the caller's job.
type Address struct {
	Street  string `json:"street" firestore:"street"`
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	ZipCode string `json:"zipCode" firestore:"zipCode"`
	Country string `json:"country" firestore:"country"`
}

// ProductSnapshot is the product data frozen into a cart line at add time.
// Price is in minor currency units.
type ProductSnapshot struct {
	ID       string `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	Price    int64  `json:"price" firestore:"price"`
	ImageURL string `json:"imageUrl" firestore:"imageUrl"`
}

// VariantSnapshot is the selected variant frozen into a cart line.
// Stock is the known stock count at selection time; UpdateQuantity is
// bounded against it by the orchestrator.
type VariantSnapshot struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Stock int    `json:"stock" firestore:"stock"`
}

// Item is one cart line. Uniqueness is defined by (ProductID, VariantID).
type Item struct {
	ProductID string          `json:"productId" firestore:"productId"`
	VariantID string          `json:"variantId" firestore:"variantId"`
	Product   ProductSnapshot `json:"product" firestore:"product"`
	Variant   VariantSnapshot `json:"selectedVariant" firestore:"selectedVariant"`
	Qty       int             `json:"quantity" firestore:"quantity"`
}

// LinePrice returns Product.Price * Qty.
func (it Item) LinePrice() int64 {
	return it.Product.Price * int64(it.Qty)
}

// State is the full cart state. Total is derived from Items on every
// reduction and is never stored independently of them.
type State struct {
	Items           []Item   `json:"items" firestore:"items"`
	Total           int64    `json:"total" firestore:"total"`
	ShippingAddress *Address `json:"shippingAddress" firestore:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress" firestore:"billingAddress"`
}

// Empty returns the initial cart state.
func Empty() State {
	return State{Items: []Item{}}
}

// ItemCount returns the sum of line quantities.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Qty
	}
	return n
}

// Find returns the line matching (productID, variantID), if any.
func (s State) Find(productID, variantID string) (Item, bool) {
	idx := findIndex(s.Items, productID, variantID)
	if idx < 0 {
		return Item{}, false
	}
	return s.Items[idx], true
}

// Validate checks each line for the minimum shape a reducible cart needs.
func (it Item) Validate() error {
	if strings.TrimSpace(it.ProductID) == "" || strings.TrimSpace(it.VariantID) == "" {
		return ErrInvalidItem
	}
	if it.Qty < 1 {
		return ErrInvalidItem
	}
	if it.Product.Price < 0 {
		return ErrInvalidItem
	}
	return nil
}

// ----------------------------
// Actions
// ----------------------------

// Action is a cart state transition. Reduce is the only consumer.
type Action interface{ isAction() }

type AddItem struct{ Item Item }

type RemoveItem struct {
	ProductID string
	VariantID string
}

type UpdateQuantity struct {
	ProductID string
	VariantID string
	Qty       int
}

type SetShippingAddress struct{ Address Address }

type SetBillingAddress struct{ Address Address }

type ClearCart struct{}

func (AddItem) isAction()            {}
func (RemoveItem) isAction()         {}
func (UpdateQuantity) isAction()     {}
func (SetShippingAddress) isAction() {}
func (SetBillingAddress) isAction()  {}
func (ClearCart) isAction()          {}

// Reduce applies one action and returns the next state. It is pure: the
// input state is never mutated and no I/O happens here. Total is recomputed
// from the resulting items on every item mutation.
//
// Bounds-checking UpdateQuantity against stock is the orchestrator's job;
// the reducer does not clamp.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddItem:
		items := cloneItems(s.Items)
		idx := findIndex(items, act.Item.ProductID, act.Item.VariantID)
		if idx >= 0 {
			items[idx].Qty += act.Item.Qty
		} else {
			items = append(items, act.Item)
		}
		s.Items = items
		s.Total = subtotal(items)
		return s

	case RemoveItem:
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ProductID == act.ProductID && it.VariantID == act.VariantID {
				continue
			}
			items = append(items, it)
		}
		s.Items = items
		s.Total = subtotal(items)
		return s

	case UpdateQuantity:
		items := cloneItems(s.Items)
		idx := findIndex(items, act.ProductID, act.VariantID)
		if idx >= 0 {
			items[idx].Qty = act.Qty
		}
		s.Items = items
		s.Total = subtotal(items)
		return s

	case SetShippingAddress:
		addr := act.Address
		s.ShippingAddress = &addr
		return s

	case SetBillingAddress:
		addr := act.Address
		s.BillingAddress = &addr
		return s

	case ClearCart:
		return Empty()
	}

	return s
}

// ----------------------------
// Helpers
// ----------------------------

func findIndex(items []Item, productID, variantID string) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

func cloneItems(src []Item) []Item {
	cp := make([]Item, len(src))
	copy(cp, src)
	return cp
}

func subtotal(items []Item) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LinePrice()
	}
	return sum
}
