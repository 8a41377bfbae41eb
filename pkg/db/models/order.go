package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// Order is a rental booking. Its items are frozen snapshots of the catalogue
// at creation time.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber  string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Phone        string            `gorm:"column:phone;not null"`
	Address      string            `gorm:"column:address;not null"`
	EventDate    time.Time         `gorm:"column:event_date;type:date;not null"`
	ReturnDate   time.Time         `gorm:"column:return_date;type:date;not null"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaidAmount   decimal.Decimal   `gorm:"column:paid_amount;type:numeric(12,2);not null;default:0"`
	Status       enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'upcoming'"`
	Notes        *string           `gorm:"column:notes"`
	CreatedBy    uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	CompletedAt  *time.Time        `gorm:"column:completed_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items   []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Creator *User       `gorm:"foreignKey:CreatedBy;references:ID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
