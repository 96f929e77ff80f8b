package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesSummary agrega ventas no borradas por día dentro del rango [start, end].
func (r *ReportRepo) SalesSummary(ctx context.Context, start, end time.Time) ([]repository.DailySales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE is_deleted = false AND created_at >= $1 AND created_at <= $2
		GROUP BY day
		ORDER BY day`, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer rows.Close()
	var list []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Day, &d.Count, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
