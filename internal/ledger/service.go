package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// Service records the append-only history of money received per invoice.
type Service interface {
	RecordEvent(ctx context.Context, tx *gorm.DB, input RecordPaymentEventInput) (*models.PaymentEvent, error)
	ListEvents(ctx context.Context, invoiceID uuid.UUID) ([]models.PaymentEvent, error)
}

type service struct {
	repo Repository
}

// RecordPaymentEventInput captures the immutable data a payment event requires.
type RecordPaymentEventInput struct {
	InvoiceID  uuid.UUID
	OrderID    uuid.UUID
	RecordedBy uuid.UUID
	Type       enums.PaymentEventType
	Amount     decimal.Decimal
	Method     *enums.PaymentMethod
	Note       *string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordEvent(ctx context.Context, tx *gorm.DB, input RecordPaymentEventInput) (*models.PaymentEvent, error) {
	if input.InvoiceID == uuid.Nil {
		return nil, fmt.Errorf("invoice id is required")
	}
	if input.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	if input.RecordedBy == uuid.Nil {
		return nil, fmt.Errorf("recorded by is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid payment event type %q", input.Type)
	}
	if input.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be non-zero")
	}
	if input.Type == enums.PaymentEventTypePayment && input.Amount.IsNegative() {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if input.Method != nil && !input.Method.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", *input.Method)
	}

	event := &models.PaymentEvent{
		InvoiceID:  input.InvoiceID,
		OrderID:    input.OrderID,
		RecordedBy: input.RecordedBy,
		Type:       input.Type,
		Amount:     input.Amount.Round(2),
		Note:       trimmed(input.Note),
	}
	if input.Method != nil {
		method := input.Method.String()
		event.Method = &method
	}

	if err := s.repo.WithTx(tx).Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) ListEvents(ctx context.Context, invoiceID uuid.UUID) ([]models.PaymentEvent, error) {
	if invoiceID == uuid.Nil {
		return nil, fmt.Errorf("invoice id is required")
	}
	return s.repo.ListByInvoiceID(ctx, invoiceID)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
