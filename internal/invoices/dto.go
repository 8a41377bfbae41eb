package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

// CreateInvoiceRequest is the body of POST /invoices.
type CreateInvoiceRequest struct {
	OrderID uuid.UUID `json:"order"`
	DueDate *string   `json:"dueDate"`
	Status  *string   `json:"status" validate:"omitempty,oneof=unpaid partial paid"`
}

// UpdateInvoiceRequest is the body of PUT /invoices/{id}. PaidAmount is the
// absolute amount received so far, not an increment.
type UpdateInvoiceRequest struct {
	Status     *string          `json:"status" validate:"omitempty,oneof=unpaid partial paid"`
	PaidAmount *decimal.Decimal `json:"paidAmount"`
	DueDate    *string          `json:"dueDate"`
	Note       *string          `json:"note" validate:"omitempty,max=500"`
}

// RecordPaymentRequest is the body of POST /invoices/{id}/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method *string         `json:"method" validate:"omitempty,max=40"`
	Note   *string         `json:"note" validate:"omitempty,max=500"`
}

// ListFilters narrows the invoice listing.
type ListFilters struct {
	Status *enums.InvoiceStatus
}

// InvoiceDTO is the API representation of an invoice with its order.
type InvoiceDTO struct {
	ID            uuid.UUID           `json:"id"`
	InvoiceNumber string              `json:"invoiceNumber"`
	OrderID       uuid.UUID           `json:"orderId"`
	Order         *orders.OrderDTO    `json:"order,omitempty"`
	IssuedDate    string              `json:"issuedDate"`
	DueDate       string              `json:"dueDate"`
	Status        enums.InvoiceStatus `json:"status"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PaidAmount    decimal.Decimal     `json:"paidAmount"`
	Balance       decimal.Decimal     `json:"balance"`
	CreatedBy     uuid.UUID           `json:"createdBy"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// PaymentDTO is one entry of an invoice's payment history.
type PaymentDTO struct {
	ID         uuid.UUID              `json:"id"`
	Type       enums.PaymentEventType `json:"type"`
	Amount     decimal.Decimal        `json:"amount"`
	Method     *string                `json:"method,omitempty"`
	Note       *string                `json:"note,omitempty"`
	RecordedBy uuid.UUID              `json:"recordedBy"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// InvoiceList is a page of invoices.
type InvoiceList = pagination.Page[InvoiceDTO]

func invoiceKey(m models.Invoice) pagination.Key {
	return pagination.Key{CreatedAt: m.CreatedAt, ID: m.ID}
}

// FromModel maps an invoice (order preloaded when available) to its DTO.
func FromModel(m models.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		OrderID:       m.OrderID,
		IssuedDate:    timeutil.FormatDate(m.IssuedDate),
		DueDate:       timeutil.FormatDate(m.DueDate),
		Status:        m.Status,
		PaidAmount:    m.PaidAmount,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Order != nil {
		order := orders.FromModel(*m.Order)
		dto.Order = &order
		dto.TotalAmount = m.Order.TotalAmount
		dto.Balance = m.Order.TotalAmount.Sub(m.PaidAmount)
	}
	return dto
}

func paymentFromModel(m models.PaymentEvent) PaymentDTO {
	return PaymentDTO{
		ID:         m.ID,
		Type:       m.Type,
		Amount:     m.Amount,
		Method:     m.Method,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt,
	}
}
