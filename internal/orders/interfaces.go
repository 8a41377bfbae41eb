package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error)
	ListForExport(ctx context.Context, filters ExportFilters) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, completedAt *time.Time) (bool, error)
	ActivateDue(ctx context.Context, today time.Time) (int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

// ExportFilters selects orders for reporting. Zero values mean unbounded.
type ExportFilters struct {
	Status   *enums.OrderStatus
	FromDate time.Time
	ToDate   time.Time
}

// StockLedger is the slice of the inventory ledger the order lifecycle needs.
type StockLedger interface {
	ReserveLines(ctx context.Context, tx *gorm.DB, lines []inventory.ReservationRequest) error
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
