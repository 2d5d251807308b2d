package dto

import (
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// No incluye created_by: el actor sale siempre del token.
type RegisterMovementRequest struct {
	ItemID          int64           `json:"item_id"`
	WarehouseSrcID  *int64          `json:"warehouse_src_id,omitempty"`
	WarehouseDestID *int64          `json:"warehouse_dest_id,omitempty"`
	Qty             decimal.Decimal `json:"qty"`
	MovementType    string          `json:"movement_type"`
	Reference       *string         `json:"reference,omitempty"`
}

// MovementResponse registro del ledger con ítem y bodegas embebidos.
type MovementResponse struct {
	ID              int64              `json:"id"`
	ItemID          int64              `json:"item_id"`
	WarehouseSrcID  *int64             `json:"warehouse_src_id"`
	WarehouseDestID *int64             `json:"warehouse_dest_id"`
	Qty             decimal.Decimal    `json:"qty"`
	MovementType    string             `json:"movement_type"`
	Reference       *string            `json:"reference"`
	CreatedBy       *int64             `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	Item            *ItemResponse      `json:"item,omitempty"`
	WarehouseSrc    *WarehouseResponse `json:"warehouse_src,omitempty"`
	WarehouseDest   *WarehouseResponse `json:"warehouse_dest,omitempty"`
}

// NewMovementResponse mapea el registro a su salida.
func NewMovementResponse(m *entity.MovementRecord) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:              m.ID,
		ItemID:          m.ItemID,
		WarehouseSrcID:  m.WarehouseSrcID,
		WarehouseDestID: m.WarehouseDestID,
		Qty:             m.Qty,
		MovementType:    string(m.Type),
		Reference:       m.Reference,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		Item:            NewItemResponse(m.Item),
		WarehouseSrc:    NewWarehouseResponse(m.WarehouseSrc),
		WarehouseDest:   NewWarehouseResponse(m.WarehouseDest),
	}
}

// MovementListQuery filtros de GET /api/inventory/movements.
type MovementListQuery struct {
	ItemID      *int64
	WarehouseID *int64
	Type        string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// StockResponse saldo de un ítem en una bodega.
type StockResponse struct {
	ID          int64              `json:"id"`
	ItemID      int64              `json:"item_id"`
	WarehouseID int64              `json:"warehouse_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Item        *ItemResponse      `json:"item,omitempty"`
	Warehouse   *WarehouseResponse `json:"warehouse,omitempty"`
}

// NewStockResponse mapea el saldo a su salida.
func NewStockResponse(b *entity.StockBalance) *StockResponse {
	if b == nil {
		return nil
	}
	return &StockResponse{
		ID:          b.ID,
		ItemID:      b.ItemID,
		WarehouseID: b.WarehouseID,
		Quantity:    b.Quantity,
		UpdatedAt:   b.UpdatedAt,
		Item:        NewItemResponse(b.Item),
		Warehouse:   NewWarehouseResponse(b.Warehouse),
	}
}

// DiscrepancyDTO par cuyo saldo no coincide con el ledger.
type DiscrepancyDTO struct {
	ItemID      int64           `json:"item_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Balance     decimal.Decimal `json:"balance"`
	Ledger      decimal.Decimal `json:"ledger"`
	Difference  decimal.Decimal `json:"difference"` // balance - ledger
}

// ReconciliationReport resultado de conciliar saldos contra el ledger.
type ReconciliationReport struct {
	CheckedAt     time.Time        `json:"checked_at"`
	PairsChecked  int              `json:"pairs_checked"`
	Consistent    bool             `json:"consistent"`
	Discrepancies []DiscrepancyDTO `json:"discrepancies"`
}
