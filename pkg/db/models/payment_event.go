package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// PaymentEvent records an immutable money movement against an invoice.
// Adjustments may be negative when a recorded amount is corrected downwards.
type PaymentEvent struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID  uuid.UUID              `gorm:"column:invoice_id;type:uuid;not null"`
	OrderID    uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	Type       enums.PaymentEventType `gorm:"column:type;type:payment_event_type;not null"`
	Amount     decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	Method     *string                `gorm:"column:method"`
	Note       *string                `gorm:"column:note"`
	RecordedBy uuid.UUID              `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (e *PaymentEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
