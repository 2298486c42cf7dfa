package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultDeliveryFee is applied when an order was stored without an
// explicit delivery fee (a zero fee means "not set")
const DefaultDeliveryFee = 5.00

// Order represents a placed purchase in the system. TotalAmount and
// DeliveryFee are snapshots fixed at checkout: TotalAmount is never
// recomputed from the line items afterwards, and Status only moves along
// the transitions defined in status.go.
type Order struct {
	ID                string           `gorm:"primaryKey" json:"id"` // opaque id, assigned at creation
	CustomerID        uint             `gorm:"not null;index" json:"customer_id"`
	Customer          User             `gorm:"foreignKey:CustomerID" json:"customer"`
	Status            OrderStatus      `gorm:"not null;default:'pending';index" json:"status"`
	TotalAmount       float64          `gorm:"not null" json:"total_amount"`
	DeliveryFee       float64          `json:"delivery_fee"`
	DeliveryAddressID *uint            `gorm:"index" json:"delivery_address_id,omitempty"`
	DeliveryAddress   *DeliveryAddress `gorm:"foreignKey:DeliveryAddressID" json:"delivery_address,omitempty"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item owned by exactly one order. ProductName, Price
// and ImageS3Key are snapshots of the product at order time and deliberately
// do not track later catalog changes. Items are created atomically with
// their order at checkout and are immutable afterwards.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"not null;index" json:"order_id"`
	ProductID   string  `gorm:"not null" json:"product_id"`
	ProductName string  `gorm:"not null" json:"product_name"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	ImageS3Key  *string `json:"image_s3_key,omitempty"`
	ImageURL    *string `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the image snapshot
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
