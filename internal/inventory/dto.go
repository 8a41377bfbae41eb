package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
)

// CreateItemRequest is the body accepted when adding a catalogue item.
type CreateItemRequest struct {
	Name          string          `json:"name" validate:"required,max=120"`
	NameLocalized string          `json:"nameGujarati" validate:"max=120"`
	Category      string          `json:"category" validate:"required,max=60"`
	Unit          string          `json:"unit" validate:"max=30"`
	TotalQuantity *int            `json:"totalQuantity" validate:"required,min=0"`
	Price         decimal.Decimal `json:"price"`
}

// UpdateItemRequest changes only the supplied fields.
type UpdateItemRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=120"`
	NameLocalized *string          `json:"nameGujarati" validate:"omitempty,max=120"`
	Category      *string          `json:"category" validate:"omitempty,min=1,max=60"`
	Unit          *string          `json:"unit" validate:"omitempty,max=30"`
	TotalQuantity *int             `json:"totalQuantity" validate:"omitempty,min=0"`
	Price         *decimal.Decimal `json:"price"`
}

// ListFilters narrows the catalogue listing.
type ListFilters struct {
	Category string
	Search   string
}

// ItemDTO is the API representation of an inventory item.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	NameLocalized string          `json:"nameGujarati"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	TotalQuantity int             `json:"totalQuantity"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func FromModel(m models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:            m.ID,
		Name:          m.Name,
		NameLocalized: m.NameLocalized,
		Category:      m.Category,
		Unit:          m.Unit,
		TotalQuantity: m.TotalQuantity,
		Price:         m.Price,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ReservationRequest asks for qty units of one item.
type ReservationRequest struct {
	ItemID uuid.UUID
	Qty    int
}

// Shortfall describes a line that could not be reserved.
type Shortfall struct {
	ItemID    uuid.UUID `json:"itemId"`
	ItemName  string    `json:"itemName,omitempty"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}
