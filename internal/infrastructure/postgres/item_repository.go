package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// coercePrice coerción explícita de NUMERIC nullable a precio: NULL -> 0.
// La base heredada tiene filas con price nulo; nunca deben propagarse como tal.
func coercePrice(p decimal.NullDecimal) decimal.Decimal {
	if !p.Valid {
		return decimal.Zero
	}
	return p.Decimal
}

// coerceStock coerción explícita de INTEGER nullable a stock: NULL -> 0.
func coerceStock(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}

// List lista artículos con el nombre de su categoría. Los filtros se aplican en SQL;
// el listado sin filtros (canónico) es el único que la capa de caché memoriza.
func (r *ItemRepo) List(ctx context.Context, filters repository.ItemFilters) ([]entity.Item, error) {
	query := `
		SELECT i.id, i.category_id, COALESCE(c.name, ''), i.name, i.brand, i.price, i.stock, i.created_at, i.updated_at
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id`

	var conds []string
	var args []any
	if filters.CategoryID != "" {
		args = append(args, filters.CategoryID)
		conds = append(conds, fmt.Sprintf("i.category_id = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conds = append(conds, fmt.Sprintf("i.name ILIKE $%d", len(args)))
	}
	if filters.Brand != "" {
		args = append(args, "%"+filters.Brand+"%")
		conds = append(conds, fmt.Sprintf("i.brand ILIKE $%d", len(args)))
	}
	if filters.LowStock > 0 {
		args = append(args, filters.LowStock)
		conds = append(conds, fmt.Sprintf("i.stock < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY i.name"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []entity.Item
	for rows.Next() {
		var it entity.Item
		var price decimal.NullDecimal
		var stock *int
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.CategoryName, &it.Name, &it.Brand,
			&price, &stock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Price = coercePrice(price)
		it.Stock = coerceStock(stock)
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `
		SELECT i.id, i.category_id, COALESCE(c.name, ''), i.name, i.brand, i.price, i.stock, i.created_at, i.updated_at
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.id = $1`
	var it entity.Item
	var price decimal.NullDecimal
	var stock *int
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.CategoryID, &it.CategoryName,
		&it.Name, &it.Brand, &price, &stock, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	it.Price = coercePrice(price)
	it.Stock = coerceStock(stock)
	return &it, nil
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, category_id, name, brand, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CategoryID, item.Name, item.Brand, item.Price, item.Stock,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update actualiza un artículo, incluido el stock (edición administrativa).
// El caller debe invalidar la caché de artículos después de una edición de stock.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET category_id = $2, name = $3, brand = $4, price = $5, stock = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CategoryID, item.Name, item.Brand, item.Price, item.Stock, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// GetStockInfo lee {id, name, stock} para el camino optimista del decremento.
func (r *ItemRepo) GetStockInfo(ctx context.Context, id string) (*entity.StockInfo, error) {
	var info entity.StockInfo
	var stock *int
	err := r.q.QueryRow(ctx, `SELECT id, name, stock FROM items WHERE id = $1`, id).
		Scan(&info.ID, &info.Name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("get stock info: %w", err)
	}
	info.Stock = coerceStock(stock)
	return &info, nil
}

// AtomicDecrementStock invoca la función remota decrease_item_stock: verifica y resta
// en una sola transacción del lado del servidor. La traducción de SQLSTATE a errores
// de dominio se decide aquí, en el borde, nunca comparando texto:
//
//	42883 undefined_function -> ErrRemoteUnavailable (la función no está desplegada)
//	P0001 raise_exception    -> ErrInsufficientStock
//	P0002 no_data_found      -> ErrItemNotFound
func (r *ItemRepo) AtomicDecrementStock(ctx context.Context, id string, qty int) (int, error) {
	var newStock int
	err := r.q.QueryRow(ctx, `SELECT decrease_item_stock($1, $2)`, id, qty).Scan(&newStock)
	if err != nil {
		if isUndefinedFunction(err) {
			return 0, domain.ErrRemoteUnavailable
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "P0001":
				return 0, domain.ErrInsufficientStock
			case "P0002":
				return 0, domain.ErrItemNotFound
			}
		}
		return 0, fmt.Errorf("decrease_item_stock: %w", err)
	}
	return newStock, nil
}

// ConditionalUpdateStock escritura optimista: solo escribe si el stock sigue siendo
// el leído (compare-and-swap sobre la propia columna). Devuelve las filas afectadas.
func (r *ItemRepo) ConditionalUpdateStock(ctx context.Context, id string, expectedStock, newStock int) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE items SET stock = $3, updated_at = now() WHERE id = $1 AND stock = $2`,
		id, expectedStock, newStock,
	)
	if err != nil {
		return 0, fmt.Errorf("conditional update stock: %w", err)
	}
	return cmd.RowsAffected(), nil
}
