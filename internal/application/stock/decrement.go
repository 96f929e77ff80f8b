package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
	"github.com/tu-usuario/pos-admin/pkg/logger"
)

// defaultTimeout deadline por operación de decremento; la base no impone el suyo.
const defaultTimeout = 10 * time.Second

// Invalidator lo que el servicio necesita de la caché: invalidar colecciones
// después de un decremento exitoso. *cache.Store lo satisface.
type Invalidator interface {
	Invalidate(keys ...cache.Key)
}

// Result resultado de un decremento exitoso.
type Result struct {
	ItemID   string
	NewStock int
}

// Service protocolo de decremento de stock en dos niveles.
//
// Nivel 1: la función remota decrease_item_stock verifica y resta en una sola
// transacción del servidor (sin ventana de carrera). Nivel 2, solo si la función
// no está desplegada (ErrRemoteUnavailable): lectura + UPDATE condicional sobre el
// valor leído (bloqueo optimista con el propio stock como versión). Ningún camino
// permite stock negativo, y una carrera perdida no se reintenta: el caller refresca
// y reenvía.
type Service struct {
	items   repository.ItemRepository
	cache   Invalidator
	log     *logger.Logger
	timeout time.Duration
}

// NewService construye el servicio de decremento.
func NewService(items repository.ItemRepository, cache Invalidator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Noop()
	}
	return &Service{items: items, cache: cache, log: log, timeout: defaultTimeout}
}

// Decrement resta qty unidades del stock del artículo. Tras un decremento exitoso
// invalida la colección de artículos para que la próxima lectura vea el stock nuevo.
func (s *Service) Decrement(ctx context.Context, itemID string, qty int) (*Result, error) {
	if itemID == "" || qty <= 0 {
		return nil, fmt.Errorf("decremento de stock: %w (item %q, cantidad %d)", domain.ErrInvalidInput, itemID, qty)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	newStock, err := s.items.AtomicDecrementStock(ctx, itemID, qty)
	switch {
	case err == nil:
		s.cache.Invalidate(cache.KeyItems)
		return &Result{ItemID: itemID, NewStock: newStock}, nil

	case errors.Is(err, domain.ErrRemoteUnavailable):
		// La función no está desplegada en esta base: único disparador del respaldo.
		s.log.Debug().Str("item_id", itemID).Msg("decrease_item_stock no disponible, usando camino optimista")
		return s.optimisticDecrement(ctx, itemID, qty)

	case errors.Is(err, domain.ErrInsufficientStock):
		// Fallo lógico del camino atómico: terminal, sin respaldo. Se relee el
		// artículo solo para armar un mensaje con nombre y cantidades.
		if info, rerr := s.items.GetStockInfo(ctx, itemID); rerr == nil {
			return nil, &InsufficientStockError{ItemName: info.Name, Requested: qty, Available: info.Stock}
		}
		return nil, err

	case errors.Is(err, domain.ErrItemNotFound):
		return nil, err

	default:
		return nil, fmt.Errorf("decremento atómico de stock: %w", err)
	}
}

// optimisticDecrement camino de respaldo: leer, verificar, escribir condicionado al
// valor leído. Si la escritura no afecta filas, otra venta ganó la carrera.
func (s *Service) optimisticDecrement(ctx context.Context, itemID string, qty int) (*Result, error) {
	info, err := s.items.GetStockInfo(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if info.Stock < qty {
		return nil, &InsufficientStockError{ItemName: info.Name, Requested: qty, Available: info.Stock}
	}

	newStock := info.Stock - qty
	rows, err := s.items.ConditionalUpdateStock(ctx, itemID, info.Stock, newStock)
	if err != nil {
		return nil, fmt.Errorf("decremento optimista de stock: %w", err)
	}
	if rows == 0 {
		// Carrera perdida. Se relee para reportar el stock actual; sin reintento.
		current := -1
		if after, rerr := s.items.GetStockInfo(ctx, itemID); rerr == nil {
			current = after.Stock
		}
		return nil, &ConcurrentModificationError{ItemName: info.Name, CurrentStock: current}
	}

	s.cache.Invalidate(cache.KeyItems)
	return &Result{ItemID: itemID, NewStock: newStock}, nil
}
