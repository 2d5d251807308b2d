package dto

import (
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega. El código no se puede cambiar.
type UpdateWarehouseRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWarehouseResponse mapea la entidad a su salida.
func NewWarehouseResponse(w *entity.Warehouse) *WarehouseResponse {
	if w == nil {
		return nil
	}
	return &WarehouseResponse{
		ID:          w.ID,
		Code:        w.Code,
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
