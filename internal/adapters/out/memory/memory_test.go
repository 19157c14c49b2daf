// internal/adapters/out/memory/memory_test.go
package memory

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "brewhaven/internal/domain/order"
	"brewhaven/internal/domain/sequence"
)

func TestSequenceAllocatorConcurrentCallersGetDistinctGaplessValues(t *testing.T) {
	alloc := NewSequenceAllocator()
	ctx := context.Background()

	const n = 100
	results := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := alloc.Next(ctx, sequence.OrderSequence)
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	got := make([]int64, 0, n)
	for v := range results {
		got = append(got, v)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestSequenceAllocatorCountersAreIndependent(t *testing.T) {
	alloc := NewSequenceAllocator()
	ctx := context.Background()

	v1, err := alloc.Next(ctx, sequence.OrderSequence)
	require.NoError(t, err)
	v2, err := alloc.Next(ctx, sequence.ReturnSequence)
	require.NoError(t, err)

	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(1), v2)
}

func TestOrderRepositoryConditionalSave(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	o, err := orderdom.New("BREW-01",
		orderdom.Customer{ID: "cust-1", Name: "Ada Brewer", Email: "ada@example.com"},
		[]orderdom.ItemSnapshot{{ProductID: "p1", VariantID: "v1", Name: "Colombia", Price: 5000, Qty: 1}},
		orderdom.Address{}, orderdom.Address{}, "card", now)
	require.NoError(t, err)

	created, err := repo.Create(ctx, o)
	require.NoError(t, err)

	// Save against the version we read succeeds.
	expected := created.UpdatedAt
	require.NoError(t, created.ChangeStatus(orderdom.StatusShipped, now.Add(time.Hour)))
	saved, err := repo.Save(ctx, created, expected)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusShipped, saved.Status)

	// A second writer still holding the old version loses.
	stale := created
	_, err = repo.Save(ctx, stale, expected)
	assert.ErrorIs(t, err, orderdom.ErrConflict)
}

func TestOrderRepositoryGetMissing(t *testing.T) {
	repo := NewOrderRepository()
	_, err := repo.GetByID(context.Background(), "BREW-99")
	assert.ErrorIs(t, err, orderdom.ErrNotFound)
}

func TestCustomerRepositoryGetByEmailNilPolicy(t *testing.T) {
	repo := NewCustomerRepository()
	a, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, a)
}
