package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// SettingsUseCase lectura/escritura de la configuración de la aplicación.
// Las lecturas pasan por la caché de colecciones; cada escritura la invalida.
type SettingsUseCase struct {
	repo  repository.SettingRepository
	store *cache.Store
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingRepository, store *cache.Store) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, store: store}
}

// List devuelve todas las filas de configuración (cacheadas).
func (uc *SettingsUseCase) List(ctx context.Context, force bool) ([]dto.SettingResponse, error) {
	settings, err := uc.store.Settings(ctx, force)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt})
	}
	return out, nil
}

// Upsert escribe una clave de configuración e invalida la colección cacheada.
func (uc *SettingsUseCase) Upsert(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" || len(value) == 0 || !json.Valid(value) {
		return domain.ErrInvalidInput
	}
	if err := uc.repo.Upsert(ctx, &entity.Setting{Key: key, Value: value, UpdatedAt: time.Now()}); err != nil {
		return err
	}
	uc.store.Invalidate(cache.KeySettings)
	return nil
}

// lookup busca una clave en la colección cacheada. Un fallo de lectura se trata
// como clave ausente: las consultas de settings siempre tienen un valor por defecto.
func (uc *SettingsUseCase) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	settings, err := uc.store.Settings(ctx, false)
	if err != nil {
		return nil, false
	}
	for _, s := range settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return nil, false
}

// StockManagementEnabled indica si las ventas deben descontar stock.
// Formato almacenado: {"enabled": bool}. Sin fila, el control está activo.
func (uc *SettingsUseCase) StockManagementEnabled(ctx context.Context) bool {
	raw, ok := uc.lookup(ctx, entity.SettingStockManagement)
	if !ok {
		return true
	}
	var v struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	return v.Enabled
}

// MinSaleAmount monto mínimo de una venta. Formato: {"amount": número}. Sin fila, 0.
func (uc *SettingsUseCase) MinSaleAmount(ctx context.Context) decimal.Decimal {
	raw, ok := uc.lookup(ctx, entity.SettingMinSaleAmount)
	if !ok {
		return decimal.Zero
	}
	var v struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return decimal.Zero
	}
	return v.Amount
}
