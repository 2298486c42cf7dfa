package models

import (
	"time"
)

// DeliveryAddress is a customer delivery address referenced by orders.
// The order workflow only ever reads it; lifecycle is owned by the
// storefront profile screens.
type DeliveryAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	City        string    `json:"city"`
	PhoneNumber string    `json:"phone_number"`
	MapLink     string    `json:"map_link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DeliveryAddress model
func (DeliveryAddress) TableName() string {
	return "delivery_addresses"
}
