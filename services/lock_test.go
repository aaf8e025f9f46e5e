package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderdesk/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// database handles from other tests in this package close asynchronously
var ignoreDB = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDB)

	var k keyedMutex
	unlock := k.Lock(1)

	acquired := make(chan struct{})
	go func() {
		u := k.Lock(1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	// other keys are independent
	other := k.Lock(2)
	other()

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return k.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestKeyedMutexLockManyOverlapping(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDB)

	var k keyedMutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			k.LockMany([]uint{1, 2, 3, 2})()
		}()
		go func() {
			defer wg.Done()
			k.LockMany([]uint{3, 1})()
		}()
	}
	wg.Wait()
	assert.Zero(t, k.size())
}

func TestConcurrentEditsKeepTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, 1, entity.StatusPending)

	const n = 20
	items := make([]*entity.Item, n)
	for i := range items {
		items[i] = f.item(t, "dish", decimal.NewNullDecimal(decimal.New(int64(i+1), 0)))
	}

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.orders.AddItem(ctx, o.ID, id)
			assert.NoError(t, err)
		}(it.ID)
	}
	// price edits race the adds
	for _, it := range items[:5] {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.items.Update(ctx, id, ItemInput{Name: "dish", Price: decimal.NewNullDecimal(decimal.New(100, 0))})
			assert.NoError(t, err)
		}(it.ID)
	}
	wg.Wait()

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, n)
	assert.True(t, TotalOf(got.Items).Equal(got.TotalPrice), "stored %s, items sum to %s", got.TotalPrice, TotalOf(got.Items))
	// 5 items at 100 plus 6..20
	assert.Equal(t, "695.00", got.TotalPrice.StringFixed(2))
}

func TestItemEditRecomputesOrdersThatJoinBeforeLocking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.item(t, "Soup", price("5.00"))
	first := f.order(t, 1, entity.StatusPending, soup)
	late := f.order(t, 2, entity.StatusPending)

	// the late order picks the item up after the holders were first read
	f.items.beforeLock = func() {
		_, err := f.orders.AddItem(ctx, late.ID, soup.ID)
		require.NoError(t, err)
	}
	_, err := f.items.Update(ctx, soup.ID, ItemInput{Name: "Soup", Price: price("8.00")})
	require.NoError(t, err)

	assert.Equal(t, "8.00", f.storedTotal(t, first.ID))
	assert.Equal(t, "8.00", f.storedTotal(t, late.ID))
}

func TestItemDeleteOfMissingItem(t *testing.T) {
	f := newFixture(t)
	err := f.items.Delete(context.Background(), 404)
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestSubset(t *testing.T) {
	assert.True(t, subset(nil, nil))
	assert.True(t, subset([]uint{2}, []uint{1, 2}))
	assert.False(t, subset([]uint{3}, []uint{1, 2}))
}
