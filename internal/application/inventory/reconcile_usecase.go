package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// ReconcileUseCase compara los saldos materializados con la suma de efectos del ledger.
// El ledger es la fuente de verdad; cualquier diferencia es un error grave y se registra.
type ReconcileUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, log zerolog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, log: log}
}

// Run lee saldos y ledger en la misma vista (RunSnapshot) y devuelve las divergencias.
func (uc *ReconcileUseCase) Run(ctx context.Context) (*dto.ReconciliationReport, error) {
	var (
		balances []*entity.StockBalance
		diffs    []invrules.Discrepancy
		pairs    int
	)
	err := uc.txRunner.RunSnapshot(ctx, func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.Catalog,
	) error {
		var err error
		balances, err = balanceRepo.List(ctx, repository.BalanceFilter{})
		if err != nil {
			return err
		}
		effects, err := ledgerRepo.SumEffects(ctx)
		if err != nil {
			return err
		}
		diffs = invrules.Reconcile(balances, effects)
		pairs = countPairs(balances, effects)
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &dto.ReconciliationReport{
		CheckedAt:     time.Now().UTC(),
		PairsChecked:  pairs,
		Consistent:    len(diffs) == 0,
		Discrepancies: make([]dto.DiscrepancyDTO, 0, len(diffs)),
	}
	for _, d := range diffs {
		report.Discrepancies = append(report.Discrepancies, dto.DiscrepancyDTO{
			ItemID:      d.Key.ItemID,
			WarehouseID: d.Key.WarehouseID,
			Balance:     d.Balance,
			Ledger:      d.Ledger,
			Difference:  d.Difference,
		})
		uc.log.Error().
			Int64("item_id", d.Key.ItemID).
			Int64("warehouse_id", d.Key.WarehouseID).
			Str("balance", d.Balance.String()).
			Str("ledger", d.Ledger.String()).
			Msg("saldo no concilia con el ledger")
	}
	return report, nil
}

func countPairs[V any](balances []*entity.StockBalance, effects map[entity.BalanceKey]V) int {
	seen := make(map[entity.BalanceKey]struct{}, len(balances)+len(effects))
	for _, b := range balances {
		seen[b.Key()] = struct{}{}
	}
	for k := range effects {
		seen[k] = struct{}{}
	}
	return len(seen)
}
