package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/application/usecase"
)

// ReportHandler reportes agregados para el dashboard (solo admin).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesSummary godoc
// @Summary      Resumen de ventas por día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (2006-01-02); por defecto hace 30 días"
// @Param        end_date    query  string  false  "Hasta (2006-01-02); por defecto hoy"
// @Success      200         {object}  dto.SalesSummaryResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s, ok := parseDate(c.Query("start_date")); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida"})
	} else if s != nil {
		start = *s
	}
	if e, ok := parseDate(c.Query("end_date")); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date inválida"})
	} else if e != nil {
		end = *e
	}

	out, err := h.uc.SalesSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
