package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a rentable catalogue entry. TotalQuantity is the stock
// currently available on the shelf; reservations decrement it.
type InventoryItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	NameLocalized string          `gorm:"column:name_localized;not null;default:''"`
	Category      string          `gorm:"column:category;not null"`
	Unit          string          `gorm:"column:unit;not null;default:'piece'"`
	TotalQuantity int             `gorm:"column:total_quantity;not null;default:0"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
