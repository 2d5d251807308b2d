package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// TxFunc recibe repositorios atados a una única transacción.
type TxFunc func(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	catalog repository.Catalog,
) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn TxFunc) error
	// RunSnapshot ejecuta fn en una transacción de solo lectura con una vista consistente
	// (saldos y ledger leídos del mismo instante).
	RunSnapshot(ctx context.Context, fn TxFunc) error
}

// StockReportGenerator genera el PDF con los saldos vigentes.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, generatedAt time.Time, balances []*entity.StockBalance) ([]byte, error)
}
