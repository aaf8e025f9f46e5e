package repository

import (
	"orderdesk/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func (r *ItemRepository) List(tx *gorm.DB) ([]entity.Item, error) {
	var items []entity.Item
	err := tx.Order("id").Find(&items).Error
	return items, err
}

func (r *ItemRepository) FindByID(tx *gorm.DB, id uint) (*entity.Item, error) {
	var it entity.Item
	if err := tx.First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// FindByIDs returns the items that exist among ids, ordered by id.
func (r *ItemRepository) FindByIDs(tx *gorm.DB, ids []uint) ([]entity.Item, error) {
	var items []entity.Item
	if len(ids) == 0 {
		return items, nil
	}
	err := tx.Where("id IN ?", ids).Order("id").Find(&items).Error
	return items, err
}

// LockByIDs is FindByIDs holding row locks until tx ends, so a price edit
// and an order picking the item up cannot interleave. SQLite has no row
// locks; its single connection already serializes transactions.
func (r *ItemRepository) LockByIDs(tx *gorm.DB, ids []uint) ([]entity.Item, error) {
	return r.FindByIDs(forUpdate(tx), ids)
}

func (r *ItemRepository) LockByID(tx *gorm.DB, id uint) (*entity.Item, error) {
	return r.FindByID(forUpdate(tx), id)
}

func (r *ItemRepository) Create(tx *gorm.DB, it *entity.Item) error {
	return tx.Create(it).Error
}

func (r *ItemRepository) Update(tx *gorm.DB, it *entity.Item) error {
	return tx.Model(&entity.Item{ID: it.ID}).
		Select("name", "price", "updated_at").
		Updates(it).Error
}

// Delete removes the item and every membership row that points at it.
func (r *ItemRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	if err := tx.Where("item_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&entity.Item{}, id)
	return res.RowsAffected, res.Error
}

// OrderIDsContaining lists the orders whose item set includes itemID.
func (r *ItemRepository) OrderIDsContaining(tx *gorm.DB, itemID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&entity.OrderItem{}).
		Where("item_id = ?", itemID).
		Order("order_id").
		Pluck("order_id", &ids).Error
	return ids, err
}

// FindExistingOrInsert looks an item up by exact (name, price) and inserts it
// when there is no match. Prices compare as decimals, so 5, 5.0 and 5.00 are
// the same price; a NULL price only matches NULL. The bool reports an insert.
func (r *ItemRepository) FindExistingOrInsert(tx *gorm.DB, name string, price decimal.NullDecimal) (*entity.Item, bool, error) {
	var candidates []entity.Item
	if err := forUpdate(tx).Where("name = ?", name).Order("id").Find(&candidates).Error; err != nil {
		return nil, false, err
	}
	for i := range candidates {
		if samePrice(candidates[i].Price, price) {
			return &candidates[i], false, nil
		}
	}

	it := entity.Item{Name: name, Price: price}
	if err := tx.Create(&it).Error; err != nil {
		return nil, false, err
	}
	return &it, true, nil
}

func samePrice(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
