package repository

import (
	"strings"

	"orderdesk/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Omit(clause.Associations).Create(o).Error
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(tx *gorm.DB, id uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.Preload("Items", orderByID).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Exists(tx *gorm.DB, id uint) (bool, error) {
	var cnt int64
	if err := tx.Model(&entity.Order{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *OrderRepository) List(tx *gorm.DB) ([]entity.Order, error) {
	var out []entity.Order
	err := tx.Preload("Items", orderByID).Order("id").Find(&out).Error
	return out, err
}

// Search returns orders whose table number, as text, contains tableSubstr.
// When status is non-empty the filter becomes
// "table contains tableSubstr OR status contains status".
func (r *OrderRepository) Search(tx *gorm.DB, tableSubstr string, status entity.OrderStatus) ([]entity.Order, error) {
	q := tx.Preload("Items", orderByID).
		Where("CAST(table_number AS TEXT) LIKE ? ESCAPE '\\'", contains(tableSubstr))
	if status != "" {
		q = q.Or("status LIKE ? ESCAPE '\\'", contains(string(status)))
	}
	var out []entity.Order
	err := q.Order("id").Find(&out).Error
	return out, err
}

func (r *OrderRepository) ListByStatus(tx *gorm.DB, status entity.OrderStatus) ([]entity.Order, error) {
	var out []entity.Order
	err := tx.Preload("Items", orderByID).
		Where("status = ?", status).
		Order("id").Find(&out).Error
	return out, err
}

// UpdateFields writes the given columns; total_price is never accepted here.
func (r *OrderRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]any) error {
	delete(fields, "total_price")
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&entity.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OrderRepository) SetTotal(tx *gorm.DB, id uint, total decimal.Decimal) error {
	return tx.Model(&entity.Order{}).Where("id = ?", id).Update("total_price", total).Error
}

// Delete removes the order and its membership rows. Items stay.
func (r *OrderRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	if err := r.ClearItems(tx, id); err != nil {
		return 0, err
	}
	res := tx.Delete(&entity.Order{}, id)
	return res.RowsAffected, res.Error
}

// ---------------- Membership ----------------

func (r *OrderRepository) ItemsOf(tx *gorm.DB, orderID uint) ([]entity.Item, error) {
	var items []entity.Item
	err := tx.Model(&entity.Item{}).
		Joins("JOIN order_items ON order_items.item_id = items.id").
		Where("order_items.order_id = ?", orderID).
		Order("items.id").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) ClearItems(tx *gorm.DB, orderID uint) error {
	return tx.Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error
}

// AddItems links itemIDs to the order. Existing links are left alone.
func (r *OrderRepository) AddItems(tx *gorm.DB, orderID uint, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	rows := make([]entity.OrderItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		rows = append(rows, entity.OrderItem{OrderID: orderID, ItemID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ReplaceItems clears the set and adds itemIDs; no diffing.
func (r *OrderRepository) ReplaceItems(tx *gorm.DB, orderID uint, itemIDs []uint) error {
	if err := r.ClearItems(tx, orderID); err != nil {
		return err
	}
	return r.AddItems(tx, orderID, itemIDs)
}

func (r *OrderRepository) RemoveItem(tx *gorm.DB, orderID, itemID uint) (int64, error) {
	res := tx.Where("order_id = ? AND item_id = ?", orderID, itemID).Delete(&entity.OrderItem{})
	return res.RowsAffected, res.Error
}

// ---------------- Helpers ----------------

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("items.id") }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func contains(s string) string { return "%" + likeEscaper.Replace(s) + "%" }
