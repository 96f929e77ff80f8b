package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
	"github.com/tu-usuario/pos-admin/pkg/logger"
)

// UseCase ventas: creación (disparando el protocolo de decremento por línea),
// edición con rastro en edit_log, borrado suave y listados cacheados.
type UseCase struct {
	sales    repository.SaleRepository
	items    repository.ItemRepository
	stock    Decrementer
	settings SettingsReader
	store    *cache.Store
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	salesRepo repository.SaleRepository,
	itemsRepo repository.ItemRepository,
	decrementer Decrementer,
	settings SettingsReader,
	store *cache.Store,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Noop()
	}
	return &UseCase{
		sales:    salesRepo,
		items:    itemsRepo,
		stock:    decrementer,
		settings: settings,
		store:    store,
		log:      log,
	}
}

// List lista ventas vía caché; cualquier filtro activo va directo a la base.
func (uc *UseCase) List(ctx context.Context, filters repository.SaleFilters, force bool) (*dto.SaleListResponse, error) {
	list, err := uc.store.Sales(ctx, filters, force)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Sales: make([]dto.SaleResponse, 0, len(list)), Total: len(list)}
	for i := range list {
		out.Sales = append(out.Sales, *toSaleResponse(&list[i]))
	}
	return out, nil
}

// GetByID obtiene una venta por ID (incluye borradas, para auditoría).
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// Create registra una venta. Nombre y precio de cada línea se copian del catálogo
// al momento de vender. Con el control de stock activo, cada línea pasa por el
// protocolo de decremento; la primera línea que falle aborta la venta con ese error
// y NO se compensan las líneas ya descontadas: el cajero corrige y reenvía (el
// decremento exitoso ya quedó invalidando la caché de artículos).
func (uc *UseCase) Create(ctx context.Context, employeeID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if employeeID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	lines := make([]entity.SaleLine, 0, len(in.Lines))
	total := decimal.Zero
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, l.ItemID)
		}
		lines = append(lines, entity.SaleLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: l.Quantity,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	if min := uc.settings.MinSaleAmount(ctx); total.LessThan(min) {
		return nil, fmt.Errorf("%w: el total %s es menor al mínimo de venta %s", domain.ErrInvalidInput, total, min)
	}

	if uc.settings.StockManagementEnabled(ctx) {
		for _, l := range lines {
			if _, err := uc.stock.Decrement(ctx, l.ItemID, l.Quantity); err != nil {
				uc.log.Warn().Err(err).Str("item_id", l.ItemID).Msg("decremento de stock rechazado, venta abortada")
				return nil, err
			}
		}
	}

	sale := &entity.Sale{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Lines:      lines,
		Total:      total,
		CreatedAt:  time.Now(),
	}
	if err := uc.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeySales)
	return toSaleResponse(sale), nil
}

// Update cambia el total de una venta dejando una entrada en edit_log con el total
// previo, el nuevo, quién editó y si fue admin.
func (uc *UseCase) Update(ctx context.Context, id, actorID string, isAdmin bool, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	prev := sale.Total
	newTotal := in.Total
	if err := sale.AppendEditLog(now, entity.EditLogEntry{
		PreviousTotal: &prev,
		NewTotal:      &newTotal,
		EditedBy:      actorID,
		IsAdmin:       isAdmin,
	}); err != nil {
		return nil, fmt.Errorf("edit log: %w", err)
	}
	sale.Total = in.Total
	sale.EditedByAdmin = isAdmin

	if err := uc.sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	uc.store.Invalidate(cache.KeySales)
	return toSaleResponse(sale), nil
}

// Delete borrado suave: marca is_deleted y deja rastro en edit_log. La venta sigue
// consultable con filters.HideDeleted en false.
func (uc *UseCase) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	if err := sale.AppendEditLog(now, entity.EditLogEntry{
		Action:    "deleted",
		DeletedBy: actorID,
		IsAdmin:   isAdmin,
	}); err != nil {
		return fmt.Errorf("edit log: %w", err)
	}
	sale.IsDeleted = true
	sale.DeletedAt = &now

	if err := uc.sales.Update(ctx, sale); err != nil {
		return err
	}
	uc.store.Invalidate(cache.KeySales)
	return nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		EmployeeEmail: s.EmployeeEmail,
		Lines:         lines,
		Total:         s.Total,
		EditLog:       s.EditLog,
		EditedByAdmin: s.EditedByAdmin,
		IsDeleted:     s.IsDeleted,
		DeletedAt:     s.DeletedAt,
		CreatedAt:     s.CreatedAt,
	}
}
