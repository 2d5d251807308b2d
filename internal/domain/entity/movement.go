package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType clasifica el efecto de un registro del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN       MovementType = "IN"       // entrada a bodega destino
	MovementTypeOUT      MovementType = "OUT"      // salida de bodega origen
	MovementTypeTRANSFER MovementType = "TRANSFER" // traslado origen -> destino
	MovementTypeADJ      MovementType = "ADJ"      // ajuste con signo sobre bodega destino
)

// ParseMovementType reporta si s es exactamente uno de los tipos conocidos.
// No normaliza: "in" o " IN " son tipos inválidos.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(s)
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeTRANSFER, MovementTypeADJ:
		return t, true
	}
	return t, false
}

// MovementRecord es un registro inmutable del ledger. Forma según tipo:
//   - IN:       src nil, dest requerido
//   - OUT:      src requerido, dest nil
//   - TRANSFER: src y dest requeridos y distintos
//   - ADJ:      src nil, dest requerido, Qty con signo
type MovementRecord struct {
	ID              int64
	ItemID          int64
	WarehouseSrcID  *int64
	WarehouseDestID *int64
	Qty             decimal.Decimal
	Type            MovementType
	Reference       *string
	CreatedBy       *int64
	CreatedAt       time.Time

	// Embebidos por valor al leer (join explícito); nil en el registro recién construido.
	Item          *Item
	WarehouseSrc  *Warehouse
	WarehouseDest *Warehouse
}

// Effects devuelve el efecto con signo del registro sobre cada par (ítem, bodega):
// negativo en el origen, positivo en el destino.
func (m *MovementRecord) Effects() map[BalanceKey]decimal.Decimal {
	out := make(map[BalanceKey]decimal.Decimal, 2)
	if m.WarehouseSrcID != nil {
		k := BalanceKey{ItemID: m.ItemID, WarehouseID: *m.WarehouseSrcID}
		out[k] = out[k].Sub(m.Qty)
	}
	if m.WarehouseDestID != nil {
		k := BalanceKey{ItemID: m.ItemID, WarehouseID: *m.WarehouseDestID}
		out[k] = out[k].Add(m.Qty)
	}
	return out
}
