package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog row. Stock holds the units still available for new
// reservations; ReservedStock tracks the cumulative amount moved out of Stock
// by active cart items, so stock - reserved_stock is what a new add may draw.
type Product struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name          string     `gorm:"column:name;not null"`
	PriceCents    int64      `gorm:"column:price_cents;not null"`
	Description   *string    `gorm:"column:description"`
	Stock         int        `gorm:"column:stock;not null;default:0"`
	ReservedStock int        `gorm:"column:reserved_stock;not null;default:0"`
	CartItems     []CartItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// AvailableStock is the quantity a new reservation may draw from.
func (p Product) AvailableStock() int {
	return p.Stock - p.ReservedStock
}
