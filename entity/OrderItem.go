package entity

// OrderItem is the join row between an order and a menu item.
type OrderItem struct {
	OrderID uint `gorm:"primaryKey" json:"orderId"`
	ItemID  uint `gorm:"primaryKey;index" json:"itemId"`
}
