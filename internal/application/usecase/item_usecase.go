package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// ItemUseCase CRUD de artículos del catálogo. Los listados sin filtro se sirven de
// la caché; cualquier escritura (incluida la edición administrativa de stock)
// invalida la colección de artículos.
type ItemUseCase struct {
	repo  repository.ItemRepository
	store *cache.Store
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, store *cache.Store) *ItemUseCase {
	return &ItemUseCase{repo: repo, store: store}
}

// List lista artículos vía caché; con filtros activos va directo a la base.
func (uc *ItemUseCase) List(ctx context.Context, filters repository.ItemFilters, force bool) (*dto.ItemListResponse, error) {
	items, err := uc.store.Items(ctx, filters, force)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(items)), Total: len(items)}
	for i := range items {
		out.Items = append(out.Items, *toItemResponse(&items[i]))
	}
	return out, nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return toItemResponse(item), nil
}

// Create da de alta un artículo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:         uuid.New().String(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Brand:      in.Brand,
		Price:      in.Price,
		Stock:      in.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyItems)
	return toItemResponse(item), nil
}

// Update edición parcial: solo los campos no nulos se aplican. Stock no nulo es la
// edición administrativa de stock; no pasa por el protocolo de decremento.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.Stock = *in.Stock
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyItems)
	return toItemResponse(item), nil
}

// Delete elimina un artículo del catálogo.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.store.Invalidate(cache.KeyItems)
	return nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           i.ID,
		CategoryID:   i.CategoryID,
		CategoryName: i.CategoryName,
		Name:         i.Name,
		Brand:        i.Brand,
		Price:        i.Price,
		Stock:        i.Stock,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
