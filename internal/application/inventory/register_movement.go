package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

// ApplyFromRequest adapta el request HTTP al motor Apply(ctx, MovementRequest, actorID).
// Usar desde handlers HTTP: actorID viene del token validado, nunca del body.
func (e *MovementEngine) ApplyFromRequest(ctx context.Context, actorID *int64, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	req := invrules.MovementRequest{
		ItemID:          in.ItemID,
		WarehouseSrcID:  in.WarehouseSrcID,
		WarehouseDestID: in.WarehouseDestID,
		Qty:             in.Qty,
		Type:            in.MovementType,
		Reference:       in.Reference,
	}
	record, err := e.Apply(ctx, req, actorID)
	if err != nil {
		return nil, err
	}
	return dto.NewMovementResponse(record), nil
}
