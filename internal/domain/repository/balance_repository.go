package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceFilter filtra listados de saldos; campos nil no filtran.
type BalanceFilter struct {
	ItemID      *int64
	WarehouseID *int64
}

// BalanceRepository define el puerto para los saldos por (ítem, bodega).
// Los métodos de escritura y bloqueo solo tienen sentido dentro de una transacción (TxRunner).
type BalanceRepository interface {
	// Get devuelve el saldo o nil si el par nunca tuvo movimientos.
	Get(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error)
	// GetOrCreate devuelve la fila bloqueada, insertándola en cantidad 0 si no existe.
	GetOrCreate(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error)
	// ApplyDelta suma delta a la cantidad. No valida no-negatividad: eso es del motor.
	ApplyDelta(ctx context.Context, balanceID int64, delta decimal.Decimal) error
	// List devuelve saldos con Item y Warehouse embebidos.
	List(ctx context.Context, filter BalanceFilter) ([]*entity.StockBalance, error)
}
