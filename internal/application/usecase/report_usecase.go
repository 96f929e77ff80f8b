package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// ReportUseCase reportes agregados para el dashboard. Corren directo en la base.
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// SalesSummary ventas por día dentro del rango [start, end].
func (uc *ReportUseCase) SalesSummary(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	days, err := uc.repo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := &dto.SalesSummaryResponse{Days: make([]dto.DailySalesResponse, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, dto.DailySalesResponse{Day: d.Day, Count: d.Count, Revenue: d.Revenue})
	}
	return out, nil
}
