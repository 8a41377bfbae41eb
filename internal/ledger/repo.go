package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
)

// Repository manages persistence for payment events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.PaymentEvent) error
	ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]models.PaymentEvent, error)
	SumByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SumByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.PaymentEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ?", invoiceID).
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
