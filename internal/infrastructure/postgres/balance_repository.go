package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un ítem en una bodega; nil si el par no tiene fila.
func (r *BalanceRepo) Get(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	query := `
		SELECT id, item_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE item_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, query, itemID, warehouseID)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	query := `
		SELECT id, item_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.getOne(ctx, query, itemID, warehouseID)
}

// GetOrCreate inserta la fila en 0 si no existe y la devuelve bloqueada.
func (r *BalanceRepo) GetOrCreate(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, itemID, warehouseID); err != nil {
		if fkErr := foreignKeyError(err); fkErr != nil {
			return nil, fkErr
		}
		return nil, fmt.Errorf("insert stock balance: %w", err)
	}
	b, err := r.GetForUpdate(ctx, itemID, warehouseID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("stock balance (%d, %d) no visible tras insertar", itemID, warehouseID)
	}
	return b, nil
}

func (r *BalanceRepo) getOne(ctx context.Context, query string, itemID, warehouseID int64) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(
		&b.ID, &b.ItemID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// ApplyDelta suma delta a la cantidad de la fila.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, balanceID int64, delta decimal.Decimal) error {
	query := `UPDATE stock_balances SET quantity = quantity + $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, balanceID, delta)
	if err != nil {
		return fmt.Errorf("update stock balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve saldos con ítem y bodega embebidos, ordenados por (ítem, bodega).
func (r *BalanceRepo) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	query := `
		SELECT b.id, b.item_id, b.warehouse_id, b.quantity, b.updated_at,
		       i.sku, i.name, i.unit_of_measure, i.description, i.created_at, i.updated_at,
		       w.code, w.name, w.location, w.description, w.created_at, w.updated_at
		FROM stock_balances b
		JOIN items i ON i.id = b.item_id
		JOIN warehouses w ON w.id = b.warehouse_id
		WHERE ($1::bigint IS NULL OR b.item_id = $1)
		  AND ($2::bigint IS NULL OR b.warehouse_id = $2)
		ORDER BY b.item_id, b.warehouse_id`
	rows, err := r.q.Query(ctx, query, filter.ItemID, filter.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockBalance
	for rows.Next() {
		var (
			b entity.StockBalance
			i entity.Item
			w entity.Warehouse
		)
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
			&i.SKU, &i.Name, &i.UnitOfMeasure, &i.Description, &i.CreatedAt, &i.UpdatedAt,
			&w.Code, &w.Name, &w.Location, &w.Description, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		i.ID, w.ID = b.ItemID, b.WarehouseID
		b.Item, b.Warehouse = &i, &w
		list = append(list, &b)
	}
	return list, rows.Err()
}
