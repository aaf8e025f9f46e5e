package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber int         `gorm:"not null;index" json:"tableNumber"`
	Status      OrderStatus `gorm:"size:10;not null;default:pending;index" json:"status"`

	// derived from Items, written only by the order service
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalPrice"`

	Items []Item `gorm:"many2many:order_items;" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
