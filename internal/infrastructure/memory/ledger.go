package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceRepository = (*BalanceRepo)(nil)
	_ repository.LedgerRepository  = (*LedgerRepo)(nil)
)

// BalanceRepo saldos por (ítem, bodega). Fuera de una tx solo se usa para lecturas.
type BalanceRepo struct {
	store *Store
	st    *state
}

// NewBalanceRepository construye el adaptador de lectura de saldos.
func NewBalanceRepository(store *Store) *BalanceRepo {
	return &BalanceRepo{store: store}
}

func (r *BalanceRepo) with(fn func(st *state) error) error {
	if r.st != nil {
		return fn(r.st)
	}
	return r.store.autocommit(fn)
}

// Get devuelve una copia del saldo o nil.
func (r *BalanceRepo) Get(_ context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.with(func(st *state) error {
		if id, ok := st.byPair[entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID}]; ok {
			b := *st.balances[id]
			out = &b
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: el mutex del Store ya serializa las transacciones.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	return r.Get(ctx, itemID, warehouseID)
}

// GetOrCreate devuelve el saldo, creándolo en 0 si no existe.
func (r *BalanceRepo) GetOrCreate(_ context.Context, itemID, warehouseID int64) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.with(func(st *state) error {
		key := entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID}
		id, ok := st.byPair[key]
		if !ok {
			st.seqBalance++
			id = st.seqBalance
			st.balances[id] = &entity.StockBalance{
				ID:          id,
				ItemID:      itemID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				UpdatedAt:   time.Now().UTC(),
			}
			st.byPair[key] = id
			st.touch(id, nil)
		}
		b := *st.balances[id]
		out = &b
		return nil
	})
	return out, err
}

// ApplyDelta suma delta a la cantidad del saldo.
func (r *BalanceRepo) ApplyDelta(_ context.Context, balanceID int64, delta decimal.Decimal) error {
	return r.with(func(st *state) error {
		b, ok := st.balances[balanceID]
		if !ok {
			return domain.ErrNotFound
		}
		st.touch(balanceID, b)
		b.Quantity = b.Quantity.Add(delta)
		b.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// List devuelve los saldos filtrados con ítem y bodega embebidos, ordenados por par.
func (r *BalanceRepo) List(_ context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	err := r.with(func(st *state) error {
		for _, b := range st.balances {
			if filter.ItemID != nil && b.ItemID != *filter.ItemID {
				continue
			}
			if filter.WarehouseID != nil && b.WarehouseID != *filter.WarehouseID {
				continue
			}
			c := *b
			c.Item = copyItem(st.items[b.ItemID])
			c.Warehouse = copyWarehouse(st.warehouses[b.WarehouseID])
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, err
}

// LedgerRepo ledger de movimientos: solo inserción y lectura.
type LedgerRepo struct {
	store *Store
	st    *state
}

// NewLedgerRepository construye el adaptador de lectura del ledger.
func NewLedgerRepository(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

func (r *LedgerRepo) with(fn func(st *state) error) error {
	if r.st != nil {
		return fn(r.st)
	}
	return r.store.autocommit(fn)
}

// Append agrega el registro y le asigna ID y CreatedAt.
func (r *LedgerRepo) Append(_ context.Context, record *entity.MovementRecord) error {
	return r.with(func(st *state) error {
		st.seqMovement++
		record.ID = st.seqMovement
		record.CreatedAt = time.Now().UTC()
		st.movements = append(st.movements, copyRecord(record))
		return nil
	})
}

// GetByID devuelve el registro con ítem y bodegas embebidos, o nil.
func (r *LedgerRepo) GetByID(_ context.Context, id int64) (*entity.MovementRecord, error) {
	var out *entity.MovementRecord
	err := r.with(func(st *state) error {
		// IDs consecutivos desde 1: posición = id-1
		if id < 1 || id > int64(len(st.movements)) {
			return nil
		}
		out = st.joined(st.movements[id-1])
		return nil
	})
	return out, err
}

// List recorre el ledger del más reciente al más antiguo aplicando los filtros.
func (r *LedgerRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	err := r.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if !matches(m, filter) {
				continue
			}
			out = append(out, st.joined(m))
			if filter.Limit > 0 && len(out) >= filter.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// SumEffects agrega los efectos con signo del ledger completo.
func (r *LedgerRepo) SumEffects(_ context.Context) (map[entity.BalanceKey]decimal.Decimal, error) {
	var out map[entity.BalanceKey]decimal.Decimal
	err := r.with(func(st *state) error {
		out = invrules.LedgerEffects(st.movements)
		return nil
	})
	return out, err
}

func matches(m *entity.MovementRecord, f repository.MovementFilter) bool {
	if f.ItemID != nil && m.ItemID != *f.ItemID {
		return false
	}
	if f.WarehouseID != nil && !sameID(m.WarehouseSrcID, *f.WarehouseID) && !sameID(m.WarehouseDestID, *f.WarehouseID) {
		return false
	}
	if f.Type != nil && m.Type != *f.Type {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

func sameID(p *int64, id int64) bool {
	return p != nil && *p == id
}

func (s *state) joined(m *entity.MovementRecord) *entity.MovementRecord {
	c := copyRecord(m)
	c.Item = copyItem(s.items[m.ItemID])
	if m.WarehouseSrcID != nil {
		c.WarehouseSrc = copyWarehouse(s.warehouses[*m.WarehouseSrcID])
	}
	if m.WarehouseDestID != nil {
		c.WarehouseDest = copyWarehouse(s.warehouses[*m.WarehouseDestID])
	}
	return c
}

func copyRecord(m *entity.MovementRecord) *entity.MovementRecord {
	c := *m
	c.WarehouseSrcID = copyID(m.WarehouseSrcID)
	c.WarehouseDestID = copyID(m.WarehouseDestID)
	c.Reference = copyStr(m.Reference)
	c.CreatedBy = copyID(m.CreatedBy)
	c.Item, c.WarehouseSrc, c.WarehouseDest = nil, nil, nil
	return &c
}
