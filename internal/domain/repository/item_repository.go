package repository

import (
	"context"

	"github.com/tu-usuario/pos-admin/internal/domain/entity"
)

// ItemFilters filtros opcionales para listar artículos. Empty() debe ser true para
// que la capa de caché pueda servir el listado canónico sin ir a la red.
type ItemFilters struct {
	CategoryID string
	Search     string // substring sobre name (ILIKE)
	Brand      string // substring sobre brand (ILIKE)
	LowStock   int    // >0: solo artículos con stock < LowStock
}

// Empty indica si no hay ningún filtro activo.
func (f ItemFilters) Empty() bool {
	return f.CategoryID == "" && f.Search == "" && f.Brand == "" && f.LowStock <= 0
}

// ItemRepository puerto de persistencia/consulta para artículos.
// AtomicDecrementStock y ConditionalUpdateStock son las dos primitivas del protocolo
// de decremento de stock: la primera delega en la función remota decrease_item_stock;
// la segunda es el UPDATE condicional del camino optimista.
type ItemRepository interface {
	List(ctx context.Context, filters ItemFilters) ([]entity.Item, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error

	// GetStockInfo lee {id, name, stock} para el camino optimista.
	// Devuelve domain.ErrItemNotFound si el artículo no existe.
	GetStockInfo(ctx context.Context, id string) (*entity.StockInfo, error)

	// AtomicDecrementStock invoca la función remota decrease_item_stock(item_id, qty),
	// que verifica y resta en una sola transacción del lado del servidor.
	// Devuelve el stock resultante; domain.ErrRemoteUnavailable si la función no está
	// desplegada (SQLSTATE 42883); domain.ErrInsufficientStock si no alcanza;
	// domain.ErrItemNotFound si el artículo no existe.
	AtomicDecrementStock(ctx context.Context, id string, qty int) (newStock int, err error)

	// ConditionalUpdateStock ejecuta
	//   UPDATE items SET stock = newStock WHERE id = $1 AND stock = expectedStock
	// y devuelve cuántas filas afectó (0 = se perdió la carrera, 1 = éxito).
	ConditionalUpdateStock(ctx context.Context, id string, expectedStock, newStock int) (rowsAffected int64, err error)
}
