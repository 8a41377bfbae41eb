package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// Repository manages persistence for inventory_items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountOpenOrderLines(ctx context.Context, id uuid.UUID) (int64, error)
	DecrementIfAvailable(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	Increment(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	Totals(ctx context.Context) (items int64, units int64, err error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if c := strings.TrimSpace(filters.Category); c != "" {
		query = query.Where("category = ?", c)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(name_localized) LIKE ?", like, like)
	}

	var items []models.InventoryItem
	if err := query.Order("category ASC").Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountOpenOrderLines(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.inventory_item_id = ? AND orders.status <> ?", id, enums.OrderStatusCompleted).
		Count(&count).Error
	return count, err
}

// DecrementIfAvailable takes qty units in a single conditional UPDATE so
// concurrent bookings can never drive the quantity negative.
func (r *repository) DecrementIfAvailable(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET total_quantity = total_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND total_quantity >= ?
	`, qty, id, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Increment(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET total_quantity = total_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Totals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Items int64
		Units int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("COUNT(*) AS items, COALESCE(SUM(total_quantity), 0) AS units").
		Scan(&row).Error
	return row.Items, row.Units, err
}
