package repository

import (
	"context"

	"github.com/tu-usuario/pos-admin/internal/domain/entity"
)

// SettingRepository puerto de persistencia para filas de configuración {key, value}.
type SettingRepository interface {
	List(ctx context.Context) ([]entity.Setting, error)
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
}
