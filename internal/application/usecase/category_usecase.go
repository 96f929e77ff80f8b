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

// CategoryUseCase CRUD de categorías. Lecturas cacheadas, escrituras invalidan.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	store *cache.Store
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, store *cache.Store) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, store: store}
}

// List lista categorías vía caché.
func (uc *CategoryUseCase) List(ctx context.Context, force bool) ([]dto.CategoryResponse, error) {
	cats, err := uc.store.Categories(ctx, force)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// Create da de alta una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat := &entity.Category{ID: uuid.New().String(), Name: in.Name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyCategories)
	return &dto.CategoryResponse{ID: cat.ID, Name: cat.Name, CreatedAt: cat.CreatedAt}, nil
}

// Update renombra una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id, name string) (*dto.CategoryResponse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	cat.Name = name
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyCategories)
	return &dto.CategoryResponse{ID: cat.ID, Name: cat.Name, CreatedAt: cat.CreatedAt}, nil
}

// Delete elimina una categoría. Los artículos asociados quedan con la referencia
// limpiada por la restricción ON DELETE de la base.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	// los artículos pueden haber perdido su categoría
	uc.store.Invalidate(cache.KeyCategories, cache.KeyItems)
	return nil
}
