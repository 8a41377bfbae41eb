package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
)

const defaultUnit = "piece"

// Service exposes catalogue management.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the inventory catalogue service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromModel(item))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*item)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name", "Item name is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, pkgerrors.Validation("category", "Category is required")
	}
	if req.TotalQuantity == nil || *req.TotalQuantity < 0 {
		return nil, pkgerrors.Validation("totalQuantity", "Quantity must be zero or more")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.Validation("price", "Price cannot be negative")
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	item := &models.InventoryItem{
		Name:          name,
		NameLocalized: strings.TrimSpace(req.NameLocalized),
		Category:      category,
		Unit:          unit,
		TotalQuantity: *req.TotalQuantity,
		Price:         req.Price.Round(2),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	dto := FromModel(*item)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.Validation("name", "Item name is required")
		}
		updates["name"] = name
	}
	if req.NameLocalized != nil {
		updates["name_localized"] = strings.TrimSpace(*req.NameLocalized)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, pkgerrors.Validation("category", "Category is required")
		}
		updates["category"] = category
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		updates["unit"] = unit
	}
	if req.TotalQuantity != nil {
		if *req.TotalQuantity < 0 {
			return nil, pkgerrors.Validation("totalQuantity", "Quantity must be zero or more")
		}
		updates["total_quantity"] = *req.TotalQuantity
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.Validation("price", "Price cannot be negative")
		}
		updates["price"] = req.Price.Round(2)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}
	return s.Get(ctx, id)
}

// Delete removes a catalogue entry unless an open order still rents it.
// Completed orders keep their snapshot with a detached item reference.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	open, err := s.repo.CountOpenOrderLines(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open orders")
	}
	if open > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "item is booked on open orders").
			WithDetails(map[string]any{"openLines": open})
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}
