package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailySales ventas agregadas de un día: cantidad de ventas y total recaudado.
type DailySales struct {
	Day     time.Time
	Count   int
	Revenue decimal.Decimal
}

// ReportRepository consultas agregadas de solo lectura para el dashboard.
// Las agregaciones corren directo en la base; no pasan por la caché de colecciones.
type ReportRepository interface {
	SalesSummary(ctx context.Context, start, end time.Time) ([]DailySales, error)
}
