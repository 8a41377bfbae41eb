package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

// CreateOrderItemRequest is one requested line. Rate falls back to the
// catalogue price when omitted.
type CreateOrderItemRequest struct {
	ItemID   uuid.UUID        `json:"itemId"`
	Quantity int              `json:"quantity"`
	Rate     *decimal.Decimal `json:"rate"`
}

// CreateOrderRequest is the body of POST /orders. Dates are YYYY-MM-DD.
type CreateOrderRequest struct {
	CustomerName string                   `json:"customerName" validate:"max=120"`
	Phone        string                   `json:"phone" validate:"omitempty,max=20,phone"`
	Address      string                   `json:"address" validate:"max=500"`
	EventDate    string                   `json:"eventDate"`
	ReturnDate   string                   `json:"returnDate"`
	Items        []CreateOrderItemRequest `json:"items"`
	TotalAmount  *decimal.Decimal         `json:"totalAmount"`
	PaidAmount   *decimal.Decimal         `json:"paidAmount"`
	Notes        *string                  `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateOrderRequest edits customer details of an open order.
type UpdateOrderRequest struct {
	CustomerName *string `json:"customerName" validate:"omitempty,max=120"`
	Phone        *string `json:"phone" validate:"omitempty,max=20,phone"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	EventDate    *string `json:"eventDate"`
	ReturnDate   *string `json:"returnDate"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateStatusRequest is the body of PUT /orders/{id}/status. The status is
// matched case-insensitively.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

// ListFilters narrows the order listing.
type ListFilters struct {
	Status *enums.OrderStatus
	Search string
}

// CreateOrderInput couples the request with the acting user.
type CreateOrderInput struct {
	Request   CreateOrderRequest
	CreatedBy uuid.UUID
}

// OrderItemDTO is a frozen order line.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    *uuid.UUID      `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Rate      decimal.Decimal `json:"rate"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CreatorDTO carries display fields of the user who booked the order.
type CreatorDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// OrderDTO is the API representation of an order.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	OrderNumber  string            `json:"orderNumber"`
	CustomerName string            `json:"customerName"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	EventDate    string            `json:"eventDate"`
	ReturnDate   string            `json:"returnDate"`
	Items        []OrderItemDTO    `json:"items"`
	TotalAmount  decimal.Decimal   `json:"totalAmount"`
	PaidAmount   decimal.Decimal   `json:"paidAmount"`
	Balance      decimal.Decimal   `json:"balance"`
	Status       enums.OrderStatus `json:"status"`
	Notes        *string           `json:"notes,omitempty"`
	CreatedBy    CreatorDTO        `json:"createdBy"`
	CompletedAt  *time.Time        `json:"completedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// OrderList is a page of orders.
type OrderList = pagination.Page[OrderDTO]

func orderKey(m models.Order) pagination.Key {
	return pagination.Key{CreatedAt: m.CreatedAt, ID: m.ID}
}

// StatusCounts maps each status to its number of orders.
type StatusCounts map[enums.OrderStatus]int64

// FromModel maps a persisted order (items preloaded) to its DTO.
func FromModel(m models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ItemID:    item.InventoryItemID,
			ItemName:  item.ItemName,
			Rate:      item.Rate,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	creator := CreatorDTO{ID: m.CreatedBy}
	if m.Creator != nil {
		creator.Name = m.Creator.Name
	}
	return OrderDTO{
		ID:           m.ID,
		OrderNumber:  m.OrderNumber,
		CustomerName: m.CustomerName,
		Phone:        m.Phone,
		Address:      m.Address,
		EventDate:    timeutil.FormatDate(m.EventDate),
		ReturnDate:   timeutil.FormatDate(m.ReturnDate),
		Items:        items,
		TotalAmount:  m.TotalAmount,
		PaidAmount:   m.PaidAmount,
		Balance:      m.TotalAmount.Sub(m.PaidAmount),
		Status:       m.Status,
		Notes:        m.Notes,
		CreatedBy:    creator,
		CompletedAt:  m.CompletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
