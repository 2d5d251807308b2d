// Package inventory contiene las reglas puras del motor de movimientos (servicios de dominio):
// validación por tipo, cálculo de deltas sobre saldos y conciliación ledger vs saldos.
// No depende de persistencia; el caso de uso aplica el plan dentro de una transacción.
package inventory

import (
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QtyScale es la cantidad máxima de decimales de una cantidad; maxQty su cota (exclusiva) en
// valor absoluto. Coinciden con las columnas NUMERIC(20,6), así ningún driver redondea.
const QtyScale = 6

var maxQty = decimal.New(1, 20-QtyScale)

// MovementRequest es la solicitud validada que recibe el motor.
// El actor no viaja aquí: lo aporta el contexto autenticado del llamador.
type MovementRequest struct {
	ItemID          int64
	WarehouseSrcID  *int64
	WarehouseDestID *int64
	Qty             decimal.Decimal
	Type            string
	Reference       *string
}

// Delta es un cambio planificado sobre el saldo de un par (ítem, bodega).
type Delta struct {
	Key    entity.BalanceKey
	Amount decimal.Decimal
	// Source marca el saldo de origen (OUT, TRANSFER): debe existir y cubrir la salida.
	Source bool
}

// Plan es el resultado de validar una solicitud: el registro a insertar y los deltas
// ordenados en el orden canónico de bloqueo.
type Plan struct {
	Record entity.MovementRecord
	Deltas []Delta
}

// WarehouseIDs devuelve las bodegas que el plan referencia (origen primero si existe).
func (p *Plan) WarehouseIDs() []int64 {
	ids := make([]int64, 0, 2)
	if p.Record.WarehouseSrcID != nil {
		ids = append(ids, *p.Record.WarehouseSrcID)
	}
	if p.Record.WarehouseDestID != nil {
		ids = append(ids, *p.Record.WarehouseDestID)
	}
	return ids
}

// PlanMovement valida la solicitud contra las reglas de su tipo y calcula los deltas.
//
//	IN:       dest += qty           (qty > 0)
//	OUT:      src  -= qty           (qty > 0, src debe cubrir qty)
//	TRANSFER: src  -= qty; dest += qty (qty > 0, src != dest)
//	ADJ:      dest += qty           (qty con signo, distinto de 0)
//
// En todos los tipos qty admite a lo sumo QtyScale decimales y |qty| < 10^14.
// Las referencias de bodega que no corresponden al tipo se descartan.
func PlanMovement(req MovementRequest) (*Plan, error) {
	mt, ok := entity.ParseMovementType(req.Type)
	if !ok {
		return nil, domain.ErrInvalidMovementType
	}
	if err := validateQty(mt, req.Qty); err != nil {
		return nil, err
	}

	rec := entity.MovementRecord{
		ItemID:    req.ItemID,
		Qty:       req.Qty,
		Type:      mt,
		Reference: req.Reference,
	}
	var deltas []Delta

	switch mt {
	case entity.MovementTypeIN, entity.MovementTypeADJ:
		if req.WarehouseDestID == nil {
			return nil, domain.ErrMissingWarehouseReference
		}
		rec.WarehouseDestID = copyID(req.WarehouseDestID)
		deltas = append(deltas, Delta{
			Key:    entity.BalanceKey{ItemID: req.ItemID, WarehouseID: *req.WarehouseDestID},
			Amount: req.Qty,
		})
	case entity.MovementTypeOUT:
		if req.WarehouseSrcID == nil {
			return nil, domain.ErrMissingWarehouseReference
		}
		rec.WarehouseSrcID = copyID(req.WarehouseSrcID)
		deltas = append(deltas, Delta{
			Key:    entity.BalanceKey{ItemID: req.ItemID, WarehouseID: *req.WarehouseSrcID},
			Amount: req.Qty.Neg(),
			Source: true,
		})
	case entity.MovementTypeTRANSFER:
		if req.WarehouseSrcID == nil || req.WarehouseDestID == nil {
			return nil, domain.ErrMissingWarehouseReference
		}
		if *req.WarehouseSrcID == *req.WarehouseDestID {
			return nil, domain.ErrInvalidTransfer
		}
		rec.WarehouseSrcID = copyID(req.WarehouseSrcID)
		rec.WarehouseDestID = copyID(req.WarehouseDestID)
		deltas = append(deltas,
			Delta{
				Key:    entity.BalanceKey{ItemID: req.ItemID, WarehouseID: *req.WarehouseSrcID},
				Amount: req.Qty.Neg(),
				Source: true,
			},
			Delta{
				Key:    entity.BalanceKey{ItemID: req.ItemID, WarehouseID: *req.WarehouseDestID},
				Amount: req.Qty,
			},
		)
	}

	// Orden fijo de bloqueo para que dos TRANSFER cruzados no se bloqueen mutuamente.
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Key.Less(deltas[j].Key) })

	return &Plan{Record: rec, Deltas: deltas}, nil
}

func validateQty(mt entity.MovementType, qty decimal.Decimal) error {
	if !qty.Equal(qty.Truncate(QtyScale)) || qty.Abs().GreaterThanOrEqual(maxQty) {
		return domain.ErrInvalidQuantity
	}
	if mt == entity.MovementTypeADJ {
		if qty.IsZero() {
			return domain.ErrInvalidQuantity
		}
		return nil
	}
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// CheckDelta verifica que aplicar d sobre current no deje el saldo negativo.
// current nil significa que la fila no existe. Los orígenes exigen fila existente;
// los ajustes negativos solo se rechazan si allowNegativeAdj es false.
func CheckDelta(d Delta, current *entity.StockBalance, allowNegativeAdj bool) error {
	if d.Source {
		if current == nil || current.Quantity.LessThan(d.Amount.Neg()) {
			return domain.ErrInsufficientStock
		}
		return nil
	}
	if !d.Amount.IsNegative() || allowNegativeAdj {
		return nil
	}
	qty := decimal.Zero
	if current != nil {
		qty = current.Quantity
	}
	if qty.Add(d.Amount).IsNegative() {
		return domain.ErrInsufficientStock
	}
	return nil
}

func copyID(id *int64) *int64 {
	v := *id
	return &v
}
