package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order statuses. A PENDING order is the user's cart.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
	OrderStatusRule = "in=PENDING|PROCESSING|SHIPPED|DELIVERED|CANCELLED"
)

type Order struct {
	Base
	OrderNumber     *string           `gorm:"size:40;uniqueIndex" json:"orderNumber"`
	UserID          uint              `gorm:"not null;index" json:"userId"`
	Status          string            `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Subtotal        float64           `gorm:"not null;default:0" json:"subtotal"`
	Tax             float64           `gorm:"not null;default:0" json:"tax"`
	Shipping        float64           `gorm:"not null;default:0" json:"shipping"`
	Total           float64           `gorm:"not null;default:0" json:"total"`
	ShippingAddress datatypes.JSONMap `json:"shippingAddress"`
	BillingAddress  datatypes.JSONMap `json:"billingAddress"`
	PlacedAt        *time.Time        `json:"placedAt"`

	User       *UserRef    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`
}

type OrderItem struct {
	Base
	OrderID   uint    `gorm:"not null;uniqueIndex:idx_order_items_order_artwork" json:"orderId"`
	ArtworkID uint    `gorm:"not null;uniqueIndex:idx_order_items_order_artwork;index" json:"artworkId"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`

	Artwork *Artwork `gorm:"foreignKey:ArtworkID" json:"artwork,omitempty"`
}
