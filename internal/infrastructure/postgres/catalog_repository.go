package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.Catalog = (*CatalogRepo)(nil)

// CatalogRepo consultas de existencia de ítems y bodegas (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ItemExists indica si existe el ítem.
func (r *CatalogRepo) ItemExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("item exists: %w", err)
	}
	return ok, nil
}

// WarehouseExists indica si existe la bodega.
func (r *CatalogRepo) WarehouseExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("warehouse exists: %w", err)
	}
	return ok, nil
}
