package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
)

const recentOrdersLimit = 5

// Stats is the payload of GET /dashboard/stats.
type Stats struct {
	UpcomingOrders  int64             `json:"upcomingOrders"`
	PendingOrders   int64             `json:"pendingOrders"`
	CompletedOrders int64             `json:"completedOrders"`
	TotalItems      int64             `json:"totalItems"`
	TotalUnits      int64             `json:"totalUnits"`
	Invoices        int64             `json:"invoices"`
	TotalBilled     decimal.Decimal   `json:"totalBilled"`
	TotalReceived   decimal.Decimal   `json:"totalReceived"`
	Outstanding     decimal.Decimal   `json:"outstanding"`
	RecentOrders    []orders.OrderDTO `json:"recentOrders"`
}

// Service assembles the dashboard summary.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type orderReader interface {
	CountByStatus(ctx context.Context) (orders.StatusCounts, error)
	ListOrders(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error)
}

type inventoryTotals interface {
	Totals(ctx context.Context) (items int64, units int64, err error)
}

type service struct {
	orders    orderReader
	inventory inventoryTotals
	billing   billingRepository
}

// ServiceParams wires the readers the dashboard aggregates over.
type ServiceParams struct {
	Orders    orderReader
	Inventory inventoryTotals
	Billing   billingRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	return &service{
		orders:    params.Orders,
		inventory: params.Inventory,
		billing:   params.Billing,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	items, units, err := s.inventory.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inventory totals")
	}

	billing, err := s.billing.BillingTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "billing totals")
	}

	recent, err := s.orders.ListOrders(ctx, pagination.Params{Limit: recentOrdersLimit}, orders.ListFilters{})
	if err != nil {
		return nil, err
	}

	return &Stats{
		UpcomingOrders:  counts[enums.OrderStatusUpcoming],
		PendingOrders:   counts[enums.OrderStatusPending],
		CompletedOrders: counts[enums.OrderStatusCompleted],
		TotalItems:      items,
		TotalUnits:      units,
		Invoices:        billing.Invoices,
		TotalBilled:     billing.Billed,
		TotalReceived:   billing.Received,
		Outstanding:     billing.Billed.Sub(billing.Received),
		RecentOrders:    recent.Items,
	}, nil
}
