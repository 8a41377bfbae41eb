package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem captures the snapshot of one rented item within an order.
// InventoryItemID becomes nil if the catalogue entry is later removed.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	InventoryItemID *uuid.UUID      `gorm:"column:inventory_item_id;type:uuid"`
	Position        int             `gorm:"column:position;not null;default:0"`
	ItemName        string          `gorm:"column:item_name;not null"`
	Rate            decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	LineTotal       decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
