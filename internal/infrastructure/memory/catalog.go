package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.Catalog             = (*CatalogRepo)(nil)
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// CatalogRepo consultas de existencia. Atado a una tx (st) o al Store (autocommit).
type CatalogRepo struct {
	store *Store
	st    *state
}

// NewCatalogRepository construye el adaptador sobre el estado confirmado.
func NewCatalogRepository(store *Store) *CatalogRepo {
	return &CatalogRepo{store: store}
}

func (r *CatalogRepo) with(fn func(st *state) error) error {
	if r.st != nil {
		return fn(r.st)
	}
	return r.store.autocommit(fn)
}

// ItemExists indica si existe el ítem.
func (r *CatalogRepo) ItemExists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.with(func(st *state) error {
		_, ok = st.items[id]
		return nil
	})
	return ok, err
}

// WarehouseExists indica si existe la bodega.
func (r *CatalogRepo) WarehouseExists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.with(func(st *state) error {
		_, ok = st.warehouses[id]
		return nil
	})
	return ok, err
}

// ItemRepo catálogo de ítems en memoria.
type ItemRepo struct {
	store *Store
}

// NewItemRepository construye el adaptador de ítems.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

// Create persiste un ítem y le asigna ID.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.store.autocommit(func(st *state) error {
		if _, dup := st.skus[item.SKU]; dup {
			return domain.ErrDuplicate
		}
		st.seqItem++
		item.ID = st.seqItem
		st.items[item.ID] = copyItem(item)
		st.skus[item.SKU] = item.ID
		return nil
	})
}

// GetByID obtiene un ítem o nil.
func (r *ItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	err := r.store.autocommit(func(st *state) error {
		out = copyItem(st.items[id])
		return nil
	})
	return out, err
}

// GetBySKU obtiene un ítem por SKU o nil.
func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	var out *entity.Item
	err := r.store.autocommit(func(st *state) error {
		if id, ok := st.skus[sku]; ok {
			out = copyItem(st.items[id])
		}
		return nil
	})
	return out, err
}

// Update actualiza campos no clave.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.store.autocommit(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = item.Name
		cur.UnitOfMeasure = item.UnitOfMeasure
		cur.Description = copyStr(item.Description)
		cur.UpdatedAt = item.UpdatedAt
		return nil
	})
}

// List lista ítems por ID ascendente.
func (r *ItemRepo) List(_ context.Context, limit int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.store.autocommit(func(st *state) error {
		for _, i := range st.items {
			out = append(out, copyItem(i))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// WarehouseRepo catálogo de bodegas en memoria.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

// Create persiste una bodega y le asigna ID.
func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.store.autocommit(func(st *state) error {
		if _, dup := st.codes[w.Code]; dup {
			return domain.ErrDuplicate
		}
		st.seqWarehouse++
		w.ID = st.seqWarehouse
		st.warehouses[w.ID] = copyWarehouse(w)
		st.codes[w.Code] = w.ID
		return nil
	})
}

// GetByID obtiene una bodega o nil.
func (r *WarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.store.autocommit(func(st *state) error {
		out = copyWarehouse(st.warehouses[id])
		return nil
	})
	return out, err
}

// GetByCode obtiene una bodega por código o nil.
func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.store.autocommit(func(st *state) error {
		if id, ok := st.codes[code]; ok {
			out = copyWarehouse(st.warehouses[id])
		}
		return nil
	})
	return out, err
}

// Update actualiza campos no clave.
func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.store.autocommit(func(st *state) error {
		cur, ok := st.warehouses[w.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = w.Name
		cur.Location = copyStr(w.Location)
		cur.Description = copyStr(w.Description)
		cur.UpdatedAt = w.UpdatedAt
		return nil
	})
}

// List lista bodegas por ID ascendente.
func (r *WarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.store.autocommit(func(st *state) error {
		for _, w := range st.warehouses {
			out = append(out, copyWarehouse(w))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
