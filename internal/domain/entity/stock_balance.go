package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la cantidad actual de un ítem en una bodega (proyección derivada del ledger).
// Única por (ItemID, WarehouseID); se crea en 0 con el primer movimiento que toca el par.
type StockBalance struct {
	ID          int64
	ItemID      int64
	WarehouseID int64
	Quantity    decimal.Decimal
	UpdatedAt   time.Time

	// Item y Warehouse se llenan solo en lecturas con join; nil dentro del motor.
	Item      *Item
	Warehouse *Warehouse
}

// BalanceKey identifica un par (ítem, bodega).
type BalanceKey struct {
	ItemID      int64
	WarehouseID int64
}

// Less define el orden canónico de bloqueo: primero ItemID, luego WarehouseID.
func (k BalanceKey) Less(other BalanceKey) bool {
	if k.ItemID != other.ItemID {
		return k.ItemID < other.ItemID
	}
	return k.WarehouseID < other.WarehouseID
}

// Key devuelve el par que identifica el saldo.
func (b *StockBalance) Key() BalanceKey {
	return BalanceKey{ItemID: b.ItemID, WarehouseID: b.WarehouseID}
}
