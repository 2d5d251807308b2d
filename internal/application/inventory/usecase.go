package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// MovementEngine aplica movimientos de inventario (IN, OUT, TRANSFER, ADJ) de forma transaccional:
// bloquea las filas de saldo (SELECT FOR UPDATE) en orden canónico, muta uno o dos saldos
// y agrega el registro al ledger; todo en un único Commit, o Rollback ante cualquier fallo.
type MovementEngine struct {
	txRunner         TxRunner
	log              zerolog.Logger
	allowNegativeAdj bool
}

// Option configura el motor.
type Option func(*MovementEngine)

// WithNegativeAdjustments permite que un ADJ negativo deje el saldo bajo cero.
// Por defecto está deshabilitado y el ajuste se rechaza con domain.ErrInsufficientStock.
func WithNegativeAdjustments(allow bool) Option {
	return func(e *MovementEngine) { e.allowNegativeAdj = allow }
}

// WithLogger asigna el logger del motor.
func WithLogger(l zerolog.Logger) Option {
	return func(e *MovementEngine) { e.log = l }
}

// NewMovementEngine construye el motor.
func NewMovementEngine(txRunner TxRunner, opts ...Option) *MovementEngine {
	e := &MovementEngine{txRunner: txRunner, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply valida la solicitud, aplica los deltas sobre los saldos y persiste el movimiento.
// actorID lo aporta el contexto autenticado (nunca el cuerpo de la petición); puede ser nil.
// Devuelve el registro confirmado con ítem y bodegas embebidos.
//
// Orden de validación: tipo, existencia del ítem, cantidad, bodegas requeridas,
// origen != destino, existencia de bodegas y por último stock.
func (e *MovementEngine) Apply(ctx context.Context, req invrules.MovementRequest, actorID *int64) (*entity.MovementRecord, error) {
	mt, ok := entity.ParseMovementType(req.Type)
	if !ok {
		return nil, domain.ErrInvalidMovementType
	}

	var committed *entity.MovementRecord
	err := e.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		catalog repository.Catalog,
	) error {
		if err := checkItem(ctx, catalog, req.ItemID); err != nil {
			return err
		}
		plan, err := invrules.PlanMovement(req)
		if err != nil {
			return err
		}
		if actorID != nil {
			actor := *actorID
			plan.Record.CreatedBy = &actor
		}
		if err := checkWarehouses(ctx, catalog, plan); err != nil {
			return err
		}

		// Bloquea cada fila en orden (ItemID, WarehouseID) y verifica antes de mutar
		locked := make([]*entity.StockBalance, len(plan.Deltas))
		for i, d := range plan.Deltas {
			var (
				bal *entity.StockBalance
				err error
			)
			if d.Source {
				bal, err = balanceRepo.GetForUpdate(ctx, d.Key.ItemID, d.Key.WarehouseID)
			} else {
				bal, err = balanceRepo.GetOrCreate(ctx, d.Key.ItemID, d.Key.WarehouseID)
			}
			if err != nil {
				return err
			}
			if err := invrules.CheckDelta(d, bal, e.allowNegativeAdj); err != nil {
				return err
			}
			locked[i] = bal
		}

		for i, d := range plan.Deltas {
			if err := balanceRepo.ApplyDelta(ctx, locked[i].ID, d.Amount); err != nil {
				return err
			}
		}

		record := plan.Record
		if err := ledgerRepo.Append(ctx, &record); err != nil {
			return err
		}
		// Relee con join explícito para devolver ítem y bodegas embebidos
		out, err := ledgerRepo.GetByID(ctx, record.ID)
		if err != nil {
			return err
		}
		if out == nil {
			return fmt.Errorf("movimiento %d no visible tras insertar", record.ID)
		}
		committed = out
		return nil
	})
	if err != nil {
		if domain.IsMovementError(err) {
			e.log.Debug().Err(err).Str("type", string(mt)).Int64("item_id", req.ItemID).Msg("movimiento rechazado")
			return nil, err
		}
		e.log.Error().Err(err).Str("type", string(mt)).Int64("item_id", req.ItemID).Msg("fallo al aplicar movimiento")
		if errors.Is(err, domain.ErrStorageFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	e.log.Debug().
		Int64("movement_id", committed.ID).
		Str("type", string(committed.Type)).
		Int64("item_id", committed.ItemID).
		Str("qty", committed.Qty.String()).
		Msg("movimiento aplicado")
	return committed, nil
}

// checkItem verifica que el ítem exista.
func checkItem(ctx context.Context, catalog repository.Catalog, itemID int64) error {
	ok, err := catalog.ItemExists(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrItemNotFound
	}
	return nil
}

// checkWarehouses verifica que las bodegas referenciadas por el plan existan.
func checkWarehouses(ctx context.Context, catalog repository.Catalog, plan *invrules.Plan) error {
	for _, whID := range plan.WarehouseIDs() {
		ok, err := catalog.WarehouseExists(ctx, whID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrWarehouseNotFound
		}
	}
	return nil
}
