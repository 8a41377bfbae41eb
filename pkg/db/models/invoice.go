package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// Invoice bills a completed order. At most one invoice exists per order.
type Invoice struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceNumber string              `gorm:"column:invoice_number;not null;uniqueIndex"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	IssuedDate    time.Time           `gorm:"column:issued_date;type:date;not null"`
	DueDate       time.Time           `gorm:"column:due_date;type:date;not null"`
	Status        enums.InvoiceStatus `gorm:"column:status;type:invoice_status;not null;default:'unpaid'"`
	PaidAmount    decimal.Decimal     `gorm:"column:paid_amount;type:numeric(12,2);not null;default:0"`
	CreatedBy     uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Order *Order `gorm:"foreignKey:OrderID;references:ID"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
