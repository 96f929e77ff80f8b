package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Las líneas vendidas y el edit_log se guardan como JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// List lista ventas con el email del empleado, de la más reciente a la más vieja.
func (r *SaleRepo) List(ctx context.Context, filters repository.SaleFilters) ([]entity.Sale, error) {
	query := `
		SELECT s.id, s.employee_id, COALESCE(u.email, ''), s.lines, s.total,
		       COALESCE(s.edit_log, '{}'::jsonb), s.edited_by_admin, s.is_deleted, s.deleted_at, s.created_at
		FROM sales s
		LEFT JOIN users u ON u.id = s.employee_id`

	var conds []string
	var args []any
	if filters.EmployeeID != "" {
		args = append(args, filters.EmployeeID)
		conds = append(conds, fmt.Sprintf("s.employee_id = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conds = append(conds, fmt.Sprintf("s.created_at >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conds = append(conds, fmt.Sprintf("s.created_at <= $%d", len(args)))
	}
	if filters.HideDeleted {
		conds = append(conds, "s.is_deleted = false")
	}
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY s.created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// GetByID obtiene una venta por ID (incluye borradas).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	row := r.q.QueryRow(ctx, `
		SELECT s.id, s.employee_id, COALESCE(u.email, ''), s.lines, s.total,
		       COALESCE(s.edit_log, '{}'::jsonb), s.edited_by_admin, s.is_deleted, s.deleted_at, s.created_at
		FROM sales s
		LEFT JOIN users u ON u.id = s.employee_id
		WHERE s.id = $1`, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create persiste una nueva venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	lines, err := json.Marshal(sale.Lines)
	if err != nil {
		return fmt.Errorf("marshal sale lines: %w", err)
	}
	editLog := sale.EditLog
	if len(editLog) == 0 {
		editLog = json.RawMessage(`{}`)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO sales (id, employee_id, lines, total, edit_log, edited_by_admin, is_deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID, sale.EmployeeID, lines, sale.Total, editLog,
		sale.EditedByAdmin, sale.IsDeleted, sale.DeletedAt, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update reescribe los campos mutables de la venta (total, líneas, edit_log, flags de borrado).
func (r *SaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	lines, err := json.Marshal(sale.Lines)
	if err != nil {
		return fmt.Errorf("marshal sale lines: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		UPDATE sales SET lines = $2, total = $3, edit_log = $4, edited_by_admin = $5, is_deleted = $6, deleted_at = $7
		WHERE id = $1`,
		sale.ID, lines, sale.Total, sale.EditLog, sale.EditedByAdmin, sale.IsDeleted, sale.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var lines []byte
	err := row.Scan(&s.ID, &s.EmployeeID, &s.EmployeeEmail, &lines, &s.Total,
		&s.EditLog, &s.EditedByAdmin, &s.IsDeleted, &s.DeletedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &s.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal sale lines: %w", err)
		}
	}
	return &s, nil
}
