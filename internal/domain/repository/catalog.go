package repository

import "context"

// Catalog define las consultas de existencia que el motor usa para validar llaves foráneas.
type Catalog interface {
	ItemExists(ctx context.Context, id int64) (bool, error)
	WarehouseExists(ctx context.Context, id int64) (bool, error)
}
