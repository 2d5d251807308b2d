package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtra lecturas del ledger; campos nil/cero no filtran.
// WarehouseID coincide tanto con origen como con destino.
type MovementFilter struct {
	ItemID      *int64
	WarehouseID *int64
	Type        *entity.MovementType
	From        *time.Time
	To          *time.Time
	Limit       int
}

// LedgerRepository define el puerto del ledger de movimientos: solo inserción y lectura.
// No existe Update ni Delete; las correcciones se registran como nuevos movimientos (ADJ).
type LedgerRepository interface {
	// Append persiste el registro y le asigna ID y CreatedAt.
	Append(ctx context.Context, record *entity.MovementRecord) error
	// GetByID devuelve el registro con ítem y bodegas embebidos, o nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.MovementRecord, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementRecord, error)
	// SumEffects agrega los efectos con signo del ledger completo por (ítem, bodega).
	SumEffects(ctx context.Context) (map[entity.BalanceKey]decimal.Decimal, error)
}
