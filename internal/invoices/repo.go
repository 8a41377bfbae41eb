package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
)

// Repository manages invoices and the order columns they keep in sync.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Invoice, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, from, to decimal.Decimal, status enums.InvoiceStatus) (bool, error)
	UpdateDueDate(ctx context.Context, id uuid.UUID, due time.Time) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderPaid(ctx context.Context, orderID uuid.UUID, paid decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoices repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit("Order").Create(invoice).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate holds the invoice row lock until the surrounding
// transaction ends. Payment writers serialise on it.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) find(db *gorm.DB, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.withOrder(db).Where("id = ?", id).Take(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Invoice, error) {
	query := r.withOrder(r.db.WithContext(ctx)).Model(&models.Invoice{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	var invoices []models.Invoice
	err := query.
		Scopes(params.Scope).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdatePayment moves paid_amount from one value to another. It reports false
// when the stored amount is no longer from.
func (r *repository) UpdatePayment(ctx context.Context, id uuid.UUID, from, to decimal.Decimal, status enums.InvoiceStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND paid_amount = ?", id, from).
		Updates(map[string]any{"paid_amount": to, "status": status})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateDueDate(ctx context.Context, id uuid.UUID, due time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("due_date", due).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderPaid(ctx context.Context, orderID uuid.UUID, paid decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("paid_amount", paid).Error
}

func (r *repository) withOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Order").
		Preload("Order.Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Order.Creator")
}
