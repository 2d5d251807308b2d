package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// movementSelect lee el movimiento con ítem y bodegas por join explícito.
const movementSelect = `
	SELECT m.id, m.item_id, m.warehouse_src_id, m.warehouse_dest_id, m.qty, m.movement_type,
	       m.reference, m.created_by, m.created_at,
	       i.sku, i.name, i.unit_of_measure, i.description, i.created_at, i.updated_at,
	       ws.code, ws.name, ws.location, ws.description, ws.created_at, ws.updated_at,
	       wd.code, wd.name, wd.location, wd.description, wd.created_at, wd.updated_at
	FROM inventory_movements m
	JOIN items i ON i.id = m.item_id
	LEFT JOIN warehouses ws ON ws.id = m.warehouse_src_id
	LEFT JOIN warehouses wd ON wd.id = m.warehouse_dest_id`

// LedgerRepo implementación del ledger de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: los registros son inmutables.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta el movimiento; asigna ID y CreatedAt desde la BD.
func (r *LedgerRepo) Append(ctx context.Context, m *entity.MovementRecord) error {
	query := `
		INSERT INTO inventory_movements
			(item_id, warehouse_src_id, warehouse_dest_id, qty, movement_type, reference, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.ItemID, m.WarehouseSrcID, m.WarehouseDestID, m.Qty, string(m.Type), m.Reference, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if fkErr := foreignKeyError(err); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*entity.MovementRecord, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory movement: %w", err)
	}
	return m, nil
}

// List lista movimientos del más reciente al más antiguo.
// WarehouseID coincide con origen o destino; To es exclusivo.
func (r *LedgerRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementRecord, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ItemID != nil {
		conds = append(conds, "m.item_id = "+arg(*f.ItemID))
	}
	if f.WarehouseID != nil {
		p := arg(*f.WarehouseID)
		conds = append(conds, "(m.warehouse_src_id = "+p+" OR m.warehouse_dest_id = "+p+")")
	}
	if f.Type != nil {
		conds = append(conds, "m.movement_type = "+arg(string(*f.Type)))
	}
	if f.From != nil {
		conds = append(conds, "m.created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "m.created_at < "+arg(*f.To))
	}

	query := movementSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY m.created_at DESC, m.id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumEffects suma por (ítem, bodega): -qty en el origen, +qty en el destino.
func (r *LedgerRepo) SumEffects(ctx context.Context) (map[entity.BalanceKey]decimal.Decimal, error) {
	query := `
		SELECT item_id, warehouse_id, SUM(delta)
		FROM (
			SELECT item_id, warehouse_src_id AS warehouse_id, -qty AS delta
			FROM inventory_movements WHERE warehouse_src_id IS NOT NULL
			UNION ALL
			SELECT item_id, warehouse_dest_id, qty
			FROM inventory_movements WHERE warehouse_dest_id IS NOT NULL
		) e
		GROUP BY item_id, warehouse_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sum ledger effects: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.BalanceKey]decimal.Decimal)
	for rows.Next() {
		var (
			k   entity.BalanceKey
			sum decimal.Decimal
		)
		if err := rows.Scan(&k.ItemID, &k.WarehouseID, &sum); err != nil {
			return nil, fmt.Errorf("scan ledger effect: %w", err)
		}
		out[k] = sum
	}
	return out, rows.Err()
}

// nullableWarehouse recibe las columnas de una bodega de un LEFT JOIN.
type nullableWarehouse struct {
	Code, Name            *string
	Location, Description *string
	CreatedAt, UpdatedAt  *time.Time
}

func (n nullableWarehouse) toEntity(id *int64) *entity.Warehouse {
	if id == nil || n.Code == nil {
		return nil
	}
	w := &entity.Warehouse{ID: *id, Code: *n.Code, Location: n.Location, Description: n.Description}
	if n.Name != nil {
		w.Name = *n.Name
	}
	if n.CreatedAt != nil {
		w.CreatedAt = *n.CreatedAt
	}
	if n.UpdatedAt != nil {
		w.UpdatedAt = *n.UpdatedAt
	}
	return w
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var (
		m      entity.MovementRecord
		i      entity.Item
		mtype  string
		ws, wd nullableWarehouse
	)
	err := row.Scan(
		&m.ID, &m.ItemID, &m.WarehouseSrcID, &m.WarehouseDestID, &m.Qty, &mtype,
		&m.Reference, &m.CreatedBy, &m.CreatedAt,
		&i.SKU, &i.Name, &i.UnitOfMeasure, &i.Description, &i.CreatedAt, &i.UpdatedAt,
		&ws.Code, &ws.Name, &ws.Location, &ws.Description, &ws.CreatedAt, &ws.UpdatedAt,
		&wd.Code, &wd.Name, &wd.Location, &wd.Description, &wd.CreatedAt, &wd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(mtype)
	i.ID = m.ItemID
	m.Item = &i
	m.WarehouseSrc = ws.toEntity(m.WarehouseSrcID)
	m.WarehouseDest = wd.toEntity(m.WarehouseDestID)
	return &m, nil
}
