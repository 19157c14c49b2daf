// internal/adapters/in/http/store/handler/cart_handler_test.go
package storeHandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "brewhaven/internal/adapters/in/http/middleware"
	"brewhaven/internal/adapters/out/memory"
	usecase "brewhaven/internal/application/usecase"
	cartdom "brewhaven/internal/domain/cart"
	orderdom "brewhaven/internal/domain/order"
)

type fixture struct {
	cart     *CartHandler
	checkout *CheckoutHandler
	queue    *usecase.MirrorQueue
}

func newFixture() *fixture {
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()
	returns := memory.NewReturnRepository()
	alloc := memory.NewSequenceAllocator()
	snapshots := memory.NewCartSnapshotStore()

	queue := usecase.NewMirrorQueue(memory.NewCartMirror())
	queue.Start()

	orderUC := usecase.NewOrderUsecase(orders, customers, alloc, nil)
	returnUC := usecase.NewReturnUsecase(returns, orders, alloc, nil, "")
	cartUC := usecase.NewCartUsecase(snapshots, queue, orderUC, returnUC)

	return &fixture{
		cart:     NewCartHandler(cartUC),
		checkout: NewCheckoutHandler(cartUC),
		queue:    queue,
	}
}

func doJSON(t *testing.T, h http.Handler, ident *usecase.Identity, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if ident != nil {
		req = req.WithContext(mw.WithIdentity(req.Context(), ident))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func testLine() cartdom.Item {
	return cartdom.Item{
		ProductID: "p1",
		VariantID: "v1",
		Product:   cartdom.ProductSnapshot{ID: "p1", Name: "Colombia", Price: 5000},
		Variant:   cartdom.VariantSnapshot{ID: "v1", Name: "250g", Stock: 10},
		Qty:       2,
	}
}

func TestCartHandlerAddAndGet(t *testing.T) {
	f := newFixture()
	defer f.queue.Close()
	ident := &usecase.Identity{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"}

	rec := doJSON(t, f.cart, ident, http.MethodPost, "/store/cart/items", testLine())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, f.cart, ident, http.MethodGet, "/store/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var st cartdom.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Len(t, st.Items, 1)
	assert.Equal(t, int64(10000), st.Total)
}

func TestCartHandlerQuantityBeyondStock(t *testing.T) {
	f := newFixture()
	defer f.queue.Close()
	ident := &usecase.Identity{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"}

	rec := doJSON(t, f.cart, ident, http.MethodPost, "/store/cart/items", testLine())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.cart, ident, http.MethodPatch, "/store/cart/items/p1/v1",
		map[string]int{"quantity": 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandlerFlow(t *testing.T) {
	f := newFixture()
	defer f.queue.Close()
	ident := &usecase.Identity{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"}

	rec := doJSON(t, f.cart, ident, http.MethodPost, "/store/cart/items", testLine())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.cart, ident, http.MethodPut, "/store/cart/shipping-address",
		cartdom.Address{Street: "1 Bean St", City: "Portland", State: "OR", ZipCode: "97201", Country: "US"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.checkout, ident, http.MethodPost, "/store/checkout",
		map[string]string{"paymentMethod": "card"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o orderdom.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, "BREW-01", o.ID)
	assert.Equal(t, int64(20000), o.Total)
	assert.Equal(t, orderdom.StatusProcessing, o.Status)

	// Cart is empty after checkout.
	rec = doJSON(t, f.cart, ident, http.MethodGet, "/store/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st cartdom.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Empty(t, st.Items)
}

func TestCheckoutHandlerAdminForbidden(t *testing.T) {
	f := newFixture()
	defer f.queue.Close()
	adminIdent := &usecase.Identity{ID: "admin-1", Name: "Op", Email: "op@example.com", Admin: true}

	rec := doJSON(t, f.checkout, adminIdent, http.MethodPost, "/store/checkout",
		map[string]string{"paymentMethod": "card"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartHandlerNoIdentity(t *testing.T) {
	f := newFixture()
	defer f.queue.Close()

	rec := doJSON(t, f.cart, nil, http.MethodGet, "/store/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
