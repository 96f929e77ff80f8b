package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-admin/internal/domain/entity"
)

// SaleFilters filtros opcionales para listar ventas.
type SaleFilters struct {
	EmployeeID  string
	StartDate   *time.Time
	EndDate     *time.Time
	HideDeleted bool
}

// Empty indica si no hay ningún filtro activo.
func (f SaleFilters) Empty() bool {
	return f.EmployeeID == "" && f.StartDate == nil && f.EndDate == nil && !f.HideDeleted
}

// SaleRepository puerto de persistencia para ventas.
// No hay Delete físico: las ventas se marcan is_deleted (soft delete con rastro en edit_log).
type SaleRepository interface {
	List(ctx context.Context, filters SaleFilters) ([]entity.Sale, error)
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
}
