package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const maxItemList = 500

// ItemUseCase casos de uso del catálogo de ítems. Stock y movimientos se manejan en el motor.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un nuevo ítem. SKU repetido devuelve domain.ErrDuplicate.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := normalizeCode(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	uom := strings.TrimSpace(in.UnitOfMeasure)
	if uom == "" {
		uom = entity.UnitOfMeasureDefault
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	item := &entity.Item{
		SKU:           sku,
		Name:          name,
		UnitOfMeasure: uom,
		Description:   trimPtr(in.Description),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.NewItemResponse(item), nil
}

// GetByID obtiene un ítem por ID; domain.ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewItemResponse(item), nil
}

// Update actualiza nombre, unidad y descripción. El SKU es inmutable.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.UnitOfMeasure != nil {
		uom := strings.TrimSpace(*in.UnitOfMeasure)
		if uom == "" {
			return nil, domain.ErrInvalidInput
		}
		item.UnitOfMeasure = uom
	}
	if in.Description != nil {
		item.Description = trimPtr(in.Description)
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return dto.NewItemResponse(item), nil
}

// List lista ítems ordenados por ID.
func (uc *ItemUseCase) List(ctx context.Context, limit int) (dto.ListResponse[dto.ItemResponse], error) {
	if limit <= 0 || limit > maxItemList {
		limit = maxItemList
	}
	list, err := uc.repo.List(ctx, limit)
	if err != nil {
		return dto.ListResponse[dto.ItemResponse]{}, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *dto.NewItemResponse(i))
	}
	return dto.NewListResponse(items), nil
}
