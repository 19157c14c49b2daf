// internal/adapters/out/memory/memory.go
//
// In-memory adapters for local development (no Firestore/Redis project
// configured) and tests. Semantics mirror the Firestore/Redis adapters:
// nil policies, conditional saves, serialized counter increments.
package memory

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

// ----------------------------
// Sequence allocator
// ----------------------------

// SequenceAllocator is a mutex-serialized counter map. The mutex plays the
// role of the store transaction: concurrent callers always observe
// distinct, gapless values.
type SequenceAllocator struct {
	mu     sync.Mutex
	values map[string]int64

	// FailNext makes every Next call fail (degraded-path testing).
	FailNext bool
}

func NewSequenceAllocator() *SequenceAllocator {
	return &SequenceAllocator{values: map[string]int64{}}
}

func (a *SequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.FailNext {
		return 0, errors.New("memory: sequence allocator unavailable")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("memory: counter name is empty")
	}

	a.values[name]++
	return a.values[name], nil
}

// ----------------------------
// Order repository
// ----------------------------

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]orderdom.Order

	// FailCreate makes Create fail (order placement is fatal on store errors).
	FailCreate bool
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: map[string]orderdom.Order{}}
}

func (r *OrderRepository) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate {
		return orderdom.Order{}, errors.New("memory: order store unavailable")
	}
	if _, exists := r.orders[o.ID]; exists {
		return orderdom.Order{}, errors.New("memory: order already exists")
	}

	o.DocID = o.ID
	r.orders[o.ID] = o
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[strings.TrimSpace(id)]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]orderdom.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orderdom.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []orderdom.Order{}
	for _, o := range r.orders {
		if o.Customer.ID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) Save(ctx context.Context, o orderdom.Order, expectedUpdatedAt time.Time) (orderdom.Order, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt.UTC()) {
		return orderdom.Order{}, orderdom.ErrConflict
	}

	o.DocID = o.ID
	r.orders[o.ID] = o
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.orders, strings.TrimSpace(id))
	return nil
}

// ----------------------------
// Return request repository
// ----------------------------

type ReturnRepository struct {
	mu       sync.RWMutex
	requests map[string]retdom.ReturnRequest

	// FailCreate makes Create fail (return persistence is best-effort).
	FailCreate bool
}

func NewReturnRepository() *ReturnRepository {
	return &ReturnRepository{requests: map[string]retdom.ReturnRequest{}}
}

func (r *ReturnRepository) Create(ctx context.Context, req retdom.ReturnRequest) (retdom.ReturnRequest, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate {
		return retdom.ReturnRequest{}, errors.New("memory: return store unavailable")
	}
	if _, exists := r.requests[req.ID]; exists {
		return retdom.ReturnRequest{}, errors.New("memory: return request already exists")
	}

	req.DocID = req.ID
	r.requests[req.ID] = req
	return req, nil
}

func (r *ReturnRepository) GetByID(ctx context.Context, id string) (retdom.ReturnRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[strings.TrimSpace(id)]
	if !ok {
		return retdom.ReturnRequest{}, retdom.ErrNotFound
	}
	return req, nil
}

func (r *ReturnRepository) List(ctx context.Context) ([]retdom.ReturnRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]retdom.ReturnRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, nil
}

func (r *ReturnRepository) ListByOrder(ctx context.Context, orderID string) ([]retdom.ReturnRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []retdom.ReturnRequest{}
	for _, req := range r.requests {
		if req.OrderID == orderID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *ReturnRepository) Save(ctx context.Context, req retdom.ReturnRequest, expectedStatus retdom.Status) (retdom.ReturnRequest, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[req.ID]
	if !ok {
		return retdom.ReturnRequest{}, retdom.ErrNotFound
	}
	if stored.Status != expectedStatus {
		return retdom.ReturnRequest{}, retdom.ErrConflict
	}

	req.DocID = req.ID
	r.requests[req.ID] = req
	return req, nil
}

// ----------------------------
// Customer repository
// ----------------------------

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]custdom.Aggregate
	nextID    int
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: map[string]custdom.Aggregate{}}
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*custdom.Aggregate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, a := range r.customers {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepository) Create(ctx context.Context, a custdom.Aggregate) (custdom.Aggregate, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = "cust-" + strconv.Itoa(r.nextID)
	r.customers[a.ID] = a
	return a, nil
}

func (r *CustomerRepository) Save(ctx context.Context, a custdom.Aggregate) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[a.ID]; !ok {
		return errors.New("memory: customer not found")
	}
	r.customers[a.ID] = a
	return nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]custdom.Aggregate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]custdom.Aggregate, 0, len(r.customers))
	for _, a := range r.customers {
		out = append(out, a)
	}
	return out, nil
}

// ----------------------------
// Cart snapshot store / mirror
// ----------------------------

type CartSnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]cartdom.State

	// FailSave makes Save fail (snapshot writes are best-effort).
	FailSave bool
}

func NewCartSnapshotStore() *CartSnapshotStore {
	return &CartSnapshotStore{snapshots: map[string]cartdom.State{}}
}

func (s *CartSnapshotStore) Load(ctx context.Context, customerID string) (cartdom.State, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.snapshots[customerID]
	if !ok {
		return cartdom.Empty(), false, nil
	}
	return st, true, nil
}

func (s *CartSnapshotStore) Save(ctx context.Context, customerID string, st cartdom.State) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSave {
		return errors.New("memory: snapshot store unavailable")
	}
	s.snapshots[customerID] = st
	return nil
}

// CartMirror records mirror writes; FailWrites simulates degraded
// connectivity for write-behind queue tests.
type CartMirror struct {
	mu     sync.Mutex
	writes map[string]cartdom.State

	FailWrites bool
	calls      int
}

func NewCartMirror() *CartMirror {
	return &CartMirror{writes: map[string]cartdom.State{}}
}

func (m *CartMirror) Write(ctx context.Context, customerID string, st cartdom.State) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.FailWrites {
		return errors.New("memory: mirror unavailable")
	}
	m.writes[customerID] = st
	return nil
}

// Calls returns how many Write attempts were made.
func (m *CartMirror) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Last returns the last mirrored state for the customer.
func (m *CartMirror) Last(customerID string) (cartdom.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.writes[customerID]
	return st, ok
}
