package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/internal/identifiers"
	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

// totalTolerance is the largest accepted gap between a client supplied total
// and the computed one.
var totalTolerance = decimal.RequireFromString("0.01")

// Service defines the rental order lifecycle.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	ActivateDue(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

// StatusObserver is notified after committed lifecycle changes.
type StatusObserver interface {
	OrderCreated()
	OrderStatusChanged(status string)
	StockRejected()
}

// ServiceParams wires the order service.
type ServiceParams struct {
	Repo      Repository
	Inventory inventory.Repository
	Ledger    StockLedger
	Tx        txRunner
	Logger    *logger.Logger
	Metrics   StatusObserver
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	ledger    StockLedger
	tx        txRunner
	logg      *logger.Logger
	metrics   StatusObserver
	loc       *time.Location
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc := params.Location
	if loc == nil {
		loc = timeutil.IST
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopObserver{}
	}
	return &service{
		repo:      params.Repo,
		inventory: params.Inventory,
		ledger:    params.Ledger,
		tx:        params.Tx,
		logg:      params.Logger,
		metrics:   metrics,
		loc:       loc,
		now:       now,
	}, nil
}

type validatedOrder struct {
	customerName string
	phone        string
	address      string
	eventDate    time.Time
	returnDate   time.Time
	notes        *string
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	req := input.Request
	fields := pkgerrors.FieldErrors{}

	header := validatedOrder{
		customerName: strings.TrimSpace(req.CustomerName),
		phone:        strings.TrimSpace(req.Phone),
		address:      strings.TrimSpace(req.Address),
		notes:        trimmedOrNil(req.Notes),
	}
	if header.customerName == "" {
		fields["customerName"] = "Customer name is required"
	}
	if header.phone == "" {
		fields["phone"] = "Phone is required"
	}
	if header.address == "" {
		fields["address"] = "Address is required"
	}
	header.eventDate, header.returnDate = s.parseDates(req.EventDate, req.ReturnDate, fields)

	if len(req.Items) == 0 {
		fields["items"] = "At least one item is required"
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for i, line := range req.Items {
		key := fmt.Sprintf("items[%d]", i)
		if line.ItemID == uuid.Nil {
			fields[key+".itemId"] = "Item is required"
		} else if _, dup := seen[line.ItemID]; dup {
			fields[key+".itemId"] = "Item is listed more than once"
		} else {
			seen[line.ItemID] = struct{}{}
			ids = append(ids, line.ItemID)
		}
		if line.Quantity < 1 {
			fields[key+".quantity"] = "Quantity must be at least 1"
		}
		if line.Rate != nil && line.Rate.IsNegative() {
			fields[key+".rate"] = "Rate cannot be negative"
		}
	}
	if err := fieldError(fields); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalog, err := s.inventory.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory items")
		}
		byID := make(map[uuid.UUID]models.InventoryItem, len(catalog))
		for _, item := range catalog {
			byID[item.ID] = item
		}

		order := &models.Order{
			CustomerName: header.customerName,
			Phone:        header.phone,
			Address:      header.address,
			EventDate:    header.eventDate,
			ReturnDate:   header.returnDate,
			Status:       enums.OrderStatusUpcoming,
			Notes:        header.notes,
			CreatedBy:    input.CreatedBy,
		}
		total := decimal.Zero
		reservations := make([]inventory.ReservationRequest, 0, len(req.Items))
		for i, line := range req.Items {
			item, ok := byID[line.ItemID]
			if !ok {
				fields[fmt.Sprintf("items[%d].itemId", i)] = "Item not found"
				continue
			}
			rate := item.Price
			if line.Rate != nil {
				rate = *line.Rate
			}
			rate = rate.Round(2)
			lineTotal := rate.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			total = total.Add(lineTotal)

			itemID := item.ID
			order.Items = append(order.Items, models.OrderItem{
				InventoryItemID: &itemID,
				Position:        i,
				ItemName:        item.Name,
				Rate:            rate,
				Quantity:        line.Quantity,
				LineTotal:       lineTotal,
			})
			reservations = append(reservations, inventory.ReservationRequest{ItemID: item.ID, Qty: line.Quantity})
		}
		if len(fields) > 0 {
			return fieldError(fields)
		}

		if req.TotalAmount != nil && req.TotalAmount.Sub(total).Abs().GreaterThan(totalTolerance) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Total amount does not match items").
				WithDetails(pkgerrors.FieldErrors{"totalAmount": fmt.Sprintf("expected %s", total.StringFixed(2))})
		}
		order.TotalAmount = total

		paid := decimal.Zero
		if req.PaidAmount != nil {
			paid = req.PaidAmount.Round(2)
		}
		if paid.IsNegative() || paid.GreaterThan(total) {
			return pkgerrors.Validation("paidAmount", "Paid amount must be between 0 and the order total")
		}
		order.PaidAmount = paid

		if err := s.ledger.ReserveLines(ctx, tx, reservations); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				s.metrics.StockRejected()
			}
			return err
		}

		repo := s.repo.WithTx(tx)
		_, err = identifiers.Allocate(ctx, tx, identifiers.Orders, func(number string) error {
			order.OrderNumber = number
			return repo.Create(ctx, order)
		})
		if err != nil {
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		created, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "order created "+created.OrderNumber)
	dto := FromModel(*created)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.Validation("status", "invalid order status")
	}
	if err := params.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	list := pagination.Build(rows, params, orderKey, FromModel)
	return &list, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "completed orders cannot be edited").
				WithDetails(map[string]any{"status": order.Status})
		}

		fields := pkgerrors.FieldErrors{}
		updates := map[string]any{}
		setText := func(value *string, column, field, label string) {
			if value == nil {
				return
			}
			trimmed := strings.TrimSpace(*value)
			if trimmed == "" {
				fields[field] = label + " is required"
				return
			}
			updates[column] = trimmed
		}
		setText(req.CustomerName, "customer_name", "customerName", "Customer name")
		setText(req.Phone, "phone", "phone", "Phone")
		setText(req.Address, "address", "address", "Address")
		if req.Notes != nil {
			updates["notes"] = trimmedOrNil(req.Notes)
		}

		eventDate, returnDate := order.EventDate, order.ReturnDate
		if req.EventDate != nil {
			d, err := timeutil.ParseDate(*req.EventDate, s.loc)
			if err != nil {
				fields["eventDate"] = "Event date must be YYYY-MM-DD"
			} else {
				eventDate = d
				updates["event_date"] = d
			}
		}
		if req.ReturnDate != nil {
			d, err := timeutil.ParseDate(*req.ReturnDate, s.loc)
			if err != nil {
				fields["returnDate"] = "Return date must be YYYY-MM-DD"
			} else {
				returnDate = d
				updates["return_date"] = d
			}
		}
		if _, bad := fields["eventDate"]; !bad && returnDate.Before(eventDate) {
			fields["returnDate"] = "Return date cannot be before event date"
		}
		if err := fieldError(fields); err != nil {
			return err
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated, err = s.load(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*updated)
	return &dto, nil
}

// UpdateStatus moves an order forward. Repeating the current status is a
// no-op. Completing an order returns every line's stock to the shelf.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Validation("status", "Status must be one of upcoming, pending, completed")
	}

	var (
		result  *models.Order
		changed bool
		from    enums.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		from = order.Status
		if order.Status == status {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", order.Status, status).
				WithDetails(map[string]any{"from": order.Status, "to": status})
		}

		var completedAt *time.Time
		if status == enums.OrderStatusCompleted {
			ts := s.now().UTC()
			completedAt = &ts
		}
		ok, err := repo.TransitionStatus(ctx, order.ID, order.Status, status, completedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		if status == enums.OrderStatusCompleted {
			for _, line := range order.Items {
				if line.InventoryItemID == nil {
					s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "skipping release for removed item "+line.ItemName)
					continue
				}
				err := s.ledger.Release(ctx, tx, *line.InventoryItemID, line.Quantity)
				if err != nil && pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "skipping release for missing item "+line.ItemName)
					continue
				}
				if err != nil {
					return err
				}
			}
		}

		changed = true
		result, err = s.load(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.OrderStatusChanged(status.String())
		s.logg.Info(s.logg.WithOrderID(ctx, id.String()), fmt.Sprintf("order status %s -> %s", from, status))
	}
	dto := FromModel(*result)
	return &dto, nil
}

// ActivateDue moves upcoming orders whose event date has arrived to pending.
func (s *service) ActivateDue(ctx context.Context) (int64, error) {
	today := timeutil.DateOf(s.now(), s.loc)
	n, err := s.repo.ActivateDue(ctx, today)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate due orders")
	}
	for i := int64(0); i < n; i++ {
		s.metrics.OrderStatusChanged(enums.OrderStatusPending.String())
	}
	return n, nil
}

func (s *service) CountByStatus(ctx context.Context) (StatusCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return counts, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) parseDates(rawEvent, rawReturn string, fields pkgerrors.FieldErrors) (time.Time, time.Time) {
	var eventDate, returnDate time.Time
	var err error
	if strings.TrimSpace(rawEvent) == "" {
		fields["eventDate"] = "Event date is required"
	} else if eventDate, err = timeutil.ParseDate(rawEvent, s.loc); err != nil {
		fields["eventDate"] = "Event date must be YYYY-MM-DD"
	}
	if strings.TrimSpace(rawReturn) == "" {
		fields["returnDate"] = "Return date is required"
	} else if returnDate, err = timeutil.ParseDate(rawReturn, s.loc); err != nil {
		fields["returnDate"] = "Return date must be YYYY-MM-DD"
	}
	if !eventDate.IsZero() && !returnDate.IsZero() && returnDate.Before(eventDate) {
		fields["returnDate"] = "Return date cannot be before event date"
	}
	return eventDate, returnDate
}

// fieldError turns collected field messages into one validation error whose
// message is the first problem in a stable order.
func fieldError(fields pkgerrors.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	for _, key := range []string{"customerName", "phone", "address", "eventDate", "returnDate", "items"} {
		if msg, ok := fields[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(fields)
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type noopObserver struct{}

func (noopObserver) OrderCreated()             {}
func (noopObserver) OrderStatusChanged(string) {}
func (noopObserver) StockRejected()            {}
