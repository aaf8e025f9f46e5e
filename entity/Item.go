package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a menu entry shared across orders.
type Item struct {
	ID    uint                `gorm:"primaryKey" json:"id"`
	Name  string              `gorm:"size:100;not null;index" json:"name"`
	Price decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"` // NULL counts as 0 in totals

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// back-reference only, never serialized
	Orders []Order `gorm:"many2many:order_items;" json:"-"`
}
