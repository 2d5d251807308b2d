package dto

import (
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	UnitOfMeasure string  `json:"uom"`
	Description   *string `json:"description,omitempty"`
}

// UpdateItemRequest entrada para actualizar un ítem. El SKU no se puede cambiar.
type UpdateItemRequest struct {
	Name          *string `json:"name"`
	UnitOfMeasure *string `json:"uom"`
	Description   *string `json:"description"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            int64     `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	UnitOfMeasure string    `json:"uom"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewItemResponse mapea la entidad a su salida.
func NewItemResponse(i *entity.Item) *ItemResponse {
	if i == nil {
		return nil
	}
	return &ItemResponse{
		ID:            i.ID,
		SKU:           i.SKU,
		Name:          i.Name,
		UnitOfMeasure: i.UnitOfMeasure,
		Description:   i.Description,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
