package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const (
	defaultMovementLimit = 100
	maxMovementLimit     = 1000
)

// LedgerUseCase consultas de solo lectura sobre el ledger de movimientos.
type LedgerUseCase struct {
	ledgerRepo repository.LedgerRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledgerRepo repository.LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// GetMovement obtiene un movimiento por ID con ítem y bodegas embebidos.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	m, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewMovementResponse(m), nil
}

// ListMovements lista movimientos (más recientes primero) según los filtros.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, q dto.MovementListQuery) (dto.ListResponse[dto.MovementResponse], error) {
	filter := repository.MovementFilter{
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		From:        q.From,
		To:          q.To,
		Limit:       q.Limit,
	}
	if q.Type != "" {
		mt, ok := entity.ParseMovementType(q.Type)
		if !ok {
			return dto.ListResponse[dto.MovementResponse]{}, domain.ErrInvalidMovementType
		}
		filter.Type = &mt
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultMovementLimit
	}
	if filter.Limit > maxMovementLimit {
		filter.Limit = maxMovementLimit
	}

	list, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.MovementResponse]{}, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *dto.NewMovementResponse(m))
	}
	return dto.NewListResponse(items), nil
}
