package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
)

// Ledger moves stock in and out of the shelf inside a caller owned
// transaction. Quantities never drop below zero.
type Ledger interface {
	Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
	ReserveLines(ctx context.Context, tx *gorm.DB, lines []ReservationRequest) error
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
}

type ledger struct {
	repo Repository
}

// NewLedger builds the stock ledger over the inventory repository.
func NewLedger(repo Repository) (Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &ledger{repo: repo}, nil
}

func (l *ledger) Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error {
	shortfall, err := l.reserve(ctx, l.repo.WithTx(tx), itemID, qty)
	if err != nil {
		return err
	}
	if shortfall != nil {
		return insufficientStock([]Shortfall{*shortfall})
	}
	return nil
}

// ReserveLines reserves every line or reports all lines that could not be
// satisfied. Callers roll back the transaction on error.
func (l *ledger) ReserveLines(ctx context.Context, tx *gorm.DB, lines []ReservationRequest) error {
	repo := l.repo.WithTx(tx)
	var shortfalls []Shortfall
	for _, line := range lines {
		shortfall, err := l.reserve(ctx, repo, line.ItemID, line.Qty)
		if err != nil {
			return err
		}
		if shortfall != nil {
			shortfalls = append(shortfalls, *shortfall)
		}
	}
	if len(shortfalls) > 0 {
		return insufficientStock(shortfalls)
	}
	return nil
}

func (l *ledger) reserve(ctx context.Context, repo Repository, itemID uuid.UUID, qty int) (*Shortfall, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	ok, err := repo.DecrementIfAvailable(ctx, itemID, qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve inventory")
	}
	if ok {
		return nil, nil
	}

	item, err := repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
				WithDetails(map[string]any{"itemId": itemID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return &Shortfall{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Requested: qty,
		Available: item.TotalQuantity,
	}, nil
}

func (l *ledger) Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	ok, err := l.repo.WithTx(tx).Increment(ctx, itemID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release inventory")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
			WithDetails(map[string]any{"itemId": itemID})
	}
	return nil
}

func insufficientStock(shortfalls []Shortfall) error {
	msg := "insufficient stock"
	if len(shortfalls) == 1 && shortfalls[0].ItemName != "" {
		s := shortfalls[0]
		msg = fmt.Sprintf("insufficient stock for %s: requested %d, available %d", s.ItemName, s.Requested, s.Available)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]any{"shortfalls": shortfalls})
}
