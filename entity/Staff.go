package entity

import (
	"time"
)

// Staff is a waiter or manager allowed to use the write API when auth is on.
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `gorm:"not null;default:waiter" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
