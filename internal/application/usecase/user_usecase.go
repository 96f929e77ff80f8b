package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// UserUseCase administración de usuarios (el alta y el login viven en auth).
type UserUseCase struct {
	repo  repository.UserRepository
	store *cache.Store
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, store *cache.Store) *UserUseCase {
	return &UserUseCase{repo: repo, store: store}
}

// List lista usuarios vía caché; con rol activo va directo a la base.
func (uc *UserUseCase) List(ctx context.Context, role string, force bool) ([]dto.UserResponse, error) {
	users, err := uc.store.Users(ctx, role, force)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// SetStatus activa o desactiva un usuario.
func (uc *UserUseCase) SetStatus(ctx context.Context, id, status string) (*dto.UserResponse, error) {
	if status != "active" && status != "inactive" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyUsers)
	return toUserResponse(user), nil
}

// SetRole cambia el rol de un usuario.
func (uc *UserUseCase) SetRole(ctx context.Context, id, role string) (*dto.UserResponse, error) {
	if role != entity.RoleAdmin && role != entity.RoleEmployee {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeyUsers)
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
