package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

func TestLedgerEffects_SumaConSigno(t *testing.T) {
	records := []*entity.MovementRecord{
		{ItemID: 1, WarehouseDestID: id(1), Qty: qty("100"), Type: entity.MovementTypeIN},
		{ItemID: 1, WarehouseSrcID: id(1), WarehouseDestID: id(2), Qty: qty("40"), Type: entity.MovementTypeTRANSFER},
		{ItemID: 1, WarehouseDestID: id(1), Qty: qty("-10"), Type: entity.MovementTypeADJ},
		{ItemID: 1, WarehouseSrcID: id(2), Qty: qty("15"), Type: entity.MovementTypeOUT},
	}
	eff := inventory.LedgerEffects(records)

	assert.True(t, eff[entity.BalanceKey{ItemID: 1, WarehouseID: 1}].Equal(qty("50")))
	assert.True(t, eff[entity.BalanceKey{ItemID: 1, WarehouseID: 2}].Equal(qty("25")))
}

func TestReconcile_SinDiferencias(t *testing.T) {
	balances := []*entity.StockBalance{
		{ItemID: 1, WarehouseID: 1, Quantity: qty("50")},
		{ItemID: 1, WarehouseID: 2, Quantity: qty("40.000")},
	}
	effects := map[entity.BalanceKey]decimal.Decimal{
		{ItemID: 1, WarehouseID: 1}: qty("50"),
		{ItemID: 1, WarehouseID: 2}: qty("40"),
	}
	assert.Empty(t, inventory.Reconcile(balances, effects), "40.000 y 40 son la misma cantidad")
}

func TestReconcile_DetectaDivergencias(t *testing.T) {
	balances := []*entity.StockBalance{
		{ItemID: 2, WarehouseID: 1, Quantity: qty("7")},
		{ItemID: 1, WarehouseID: 3, Quantity: qty("0")},
	}
	effects := map[entity.BalanceKey]decimal.Decimal{
		{ItemID: 2, WarehouseID: 1}: qty("5"),
		{ItemID: 1, WarehouseID: 4}: qty("3"), // par sin fila de saldo
	}
	out := inventory.Reconcile(balances, effects)
	require.Len(t, out, 2)

	assert.Equal(t, entity.BalanceKey{ItemID: 1, WarehouseID: 4}, out[0].Key, "ordenado por par")
	assert.True(t, out[0].Balance.IsZero())
	assert.True(t, out[0].Difference.Equal(qty("-3")))

	assert.Equal(t, entity.BalanceKey{ItemID: 2, WarehouseID: 1}, out[1].Key)
	assert.True(t, out[1].Difference.Equal(qty("2")))
}
