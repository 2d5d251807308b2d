package inventory

import (
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Discrepancy describe un par cuyo saldo no coincide con la suma de efectos del ledger.
type Discrepancy struct {
	Key        entity.BalanceKey
	Balance    decimal.Decimal
	Ledger     decimal.Decimal
	Difference decimal.Decimal // Balance - Ledger
}

// LedgerEffects suma los efectos con signo de los registros por par (ítem, bodega).
func LedgerEffects(records []*entity.MovementRecord) map[entity.BalanceKey]decimal.Decimal {
	out := make(map[entity.BalanceKey]decimal.Decimal)
	for _, r := range records {
		for k, v := range r.Effects() {
			out[k] = out[k].Add(v)
		}
	}
	return out
}

// Reconcile compara los saldos contra la proyección del ledger.
// Un par sin fila de saldo cuenta como 0. Resultado ordenado por par.
func Reconcile(balances []*entity.StockBalance, effects map[entity.BalanceKey]decimal.Decimal) []Discrepancy {
	seen := make(map[entity.BalanceKey]decimal.Decimal, len(balances)+len(effects))
	for _, b := range balances {
		seen[b.Key()] = b.Quantity
	}
	for k := range effects {
		if _, ok := seen[k]; !ok {
			seen[k] = decimal.Zero
		}
	}

	var out []Discrepancy
	for k, bal := range seen {
		led := effects[k]
		if bal.Equal(led) {
			continue
		}
		out = append(out, Discrepancy{
			Key:        k,
			Balance:    bal,
			Ledger:     led,
			Difference: bal.Sub(led),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}
