package models

import (
	"time"
)

// StatusChange is one entry in an order's status audit trail. A row is
// appended in the same transaction as every successful transition and is
// immutable afterwards.
type StatusChange struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    string      `gorm:"not null;index" json:"order_id"`
	Order      Order       `gorm:"foreignKey:OrderID" json:"-"` // don't include full order in JSON
	FromStatus OrderStatus `gorm:"not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"not null" json:"to_status"`
	ActorID    uint        `gorm:"not null;index" json:"actor_id"` // foreign key to users table
	Actor      User        `gorm:"foreignKey:ActorID" json:"actor"`
	Note       string      `gorm:"type:text" json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName specifies the table name for the StatusChange model
func (StatusChange) TableName() string {
	return "status_changes"
}
