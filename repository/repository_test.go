package repository_test

import (
	"testing"

	"orderdesk/entity"
	"orderdesk/pkg/dbtest"
	"orderdesk/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func seedItems(t *testing.T, db *gorm.DB, items ...*entity.Item) {
	t.Helper()
	repo := repository.NewItemRepository(db)
	for _, it := range items {
		require.NoError(t, repo.Create(db, it))
	}
}

func newOrder(t *testing.T, db *gorm.DB, table int, st entity.OrderStatus, itemIDs ...uint) *entity.Order {
	t.Helper()
	repo := repository.NewOrderRepository(db)
	o := &entity.Order{TableNumber: table, Status: st}
	require.NoError(t, repo.Create(db, o))
	require.NoError(t, repo.AddItems(db, o.ID, itemIDs))
	return o
}

func TestFindExistingOrInsert(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewItemRepository(db)

	soup, created, err := repo.FindExistingOrInsert(db, "Soup", price("5.00"))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FindExistingOrInsert(db, "Soup", price("5"))
	require.NoError(t, err)
	assert.False(t, created, "5 and 5.00 are the same price")
	assert.Equal(t, soup.ID, again.ID)

	dearer, created, err := repo.FindExistingOrInsert(db, "Soup", price("6.00"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, soup.ID, dearer.ID)

	free, created, err := repo.FindExistingOrInsert(db, "Soup", decimal.NullDecimal{})
	require.NoError(t, err)
	assert.True(t, created, "NULL price only matches NULL")

	freeAgain, created, err := repo.FindExistingOrInsert(db, "Soup", decimal.NullDecimal{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, free.ID, freeAgain.ID)

	items, err := repo.List(db)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestItemDeleteClearsMembership(t *testing.T) {
	db := dbtest.New(t)
	items := repository.NewItemRepository(db)
	orders := repository.NewOrderRepository(db)

	a := &entity.Item{Name: "A", Price: price("10.00")}
	b := &entity.Item{Name: "B", Price: price("2.50")}
	seedItems(t, db, a, b)
	o1 := newOrder(t, db, 1, entity.StatusPending, a.ID, b.ID)
	o2 := newOrder(t, db, 2, entity.StatusPending, a.ID)

	ids, err := items.OrderIDsContaining(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{o1.ID, o2.ID}, ids)

	n, err := items.Delete(db, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := orders.ItemsOf(db, o1.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID)

	ok, err := orders.Exists(db, o2.ID)
	require.NoError(t, err)
	assert.True(t, ok, "orders survive item deletion")

	n, err = items.Delete(db, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderMembership(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)

	a := &entity.Item{Name: "A", Price: price("1.00")}
	b := &entity.Item{Name: "B", Price: price("2.00")}
	c := &entity.Item{Name: "C"}
	seedItems(t, db, a, b, c)
	o := newOrder(t, db, 4, entity.StatusPending, a.ID)

	// adding an existing link is a no-op
	require.NoError(t, repo.AddItems(db, o.ID, []uint{a.ID, b.ID}))
	got, err := repo.ItemsOf(db, o.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, repo.ReplaceItems(db, o.ID, []uint{c.ID}))
	loaded, err := repo.FindByID(db, o.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "C", loaded.Items[0].Name)
	assert.False(t, loaded.Items[0].Price.Valid)

	n, err := repo.RemoveItem(db, o.ID, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.RemoveItem(db, o.ID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderDeleteKeepsItems(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)
	items := repository.NewItemRepository(db)

	a := &entity.Item{Name: "A", Price: price("1.00")}
	seedItems(t, db, a)
	o := newOrder(t, db, 1, entity.StatusPaid, a.ID)

	n, err := repo.Delete(db, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.FindByID(db, o.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = items.FindByID(db, a.ID)
	assert.NoError(t, err)

	var links int64
	require.NoError(t, db.Model(&entity.OrderItem{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestUpdateFieldsIgnoresTotal(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)
	o := newOrder(t, db, 1, entity.StatusPending)

	require.NoError(t, repo.UpdateFields(db, o.ID, map[string]any{
		"table_number": 9,
		"total_price":  decimal.RequireFromString("99.99"),
	}))
	got, err := repo.FindByID(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.TableNumber)
	assert.True(t, got.TotalPrice.IsZero())

	require.NoError(t, repo.SetTotal(db, o.ID, decimal.RequireFromString("12.50")))
	got, err = repo.FindByID(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.50", got.TotalPrice.StringFixed(2))
}

func TestSearch(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)

	o5 := newOrder(t, db, 5, entity.StatusPending)
	o15 := newOrder(t, db, 15, entity.StatusReady)
	o7 := newOrder(t, db, 7, entity.StatusReady)

	ids := func(orders []entity.Order) []uint {
		out := make([]uint, 0, len(orders))
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	got, err := repo.Search(db, "5", "")
	require.NoError(t, err)
	assert.Equal(t, []uint{o5.ID, o15.ID}, ids(got))

	// table OR status
	got, err = repo.Search(db, "5", entity.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, []uint{o5.ID, o15.ID, o7.ID}, ids(got))

	// LIKE wildcards in the query are literal
	got, err = repo.Search(db, "%", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.ListByStatus(db, entity.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, []uint{o15.ID, o7.ID}, ids(got))
}

func TestLockByIDsInsideTransaction(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewItemRepository(db)
	a := &entity.Item{Name: "A", Price: price("1.00")}
	b := &entity.Item{Name: "B", Price: price("2.00")}
	seedItems(t, db, a, b)

	err := db.Transaction(func(tx *gorm.DB) error {
		got, err := repo.LockByIDs(tx, []uint{b.ID, a.ID, 999})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		one, err := repo.LockByID(tx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", one.Name)

		_, err = repo.LockByID(tx, 999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return nil
	})
	require.NoError(t, err)
}
