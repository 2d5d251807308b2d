package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	// Create asigna ID y timestamps; SKU repetido devuelve domain.ErrDuplicate.
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// Update modifica solo campos no clave (nombre, unidad, descripción).
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit int) ([]*entity.Item, error)
}
