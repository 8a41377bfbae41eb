package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
)

// BillingTotals sums invoiced order totals and what has been collected on them.
type BillingTotals struct {
	Billed   decimal.Decimal
	Received decimal.Decimal
	Invoices int64
}

type billingRepository interface {
	BillingTotals(ctx context.Context) (BillingTotals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns the aggregate queries backing the dashboard.
func NewRepository(db *gorm.DB) billingRepository {
	return &repository{db: db}
}

func (r *repository) BillingTotals(ctx context.Context) (BillingTotals, error) {
	var row struct {
		Billed   decimal.Decimal
		Received decimal.Decimal
		Invoices int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Select("COALESCE(SUM(orders.total_amount), 0) AS billed, COALESCE(SUM(invoices.paid_amount), 0) AS received, COUNT(invoices.id) AS invoices").
		Scan(&row).Error
	if err != nil {
		return BillingTotals{}, err
	}
	return BillingTotals{
		Billed:   row.Billed.Round(2),
		Received: row.Received.Round(2),
		Invoices: row.Invoices,
	}, nil
}
