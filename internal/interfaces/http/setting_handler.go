package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/application/usecase"
)

// SettingHandler lectura/escritura de la configuración de la aplicación.
type SettingHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingHandler construye el handler.
func NewSettingHandler(uc *usecase.SettingsUseCase) *SettingHandler {
	return &SettingHandler{uc: uc}
}

// List godoc
// @Summary      Listar configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        force  query  bool  false  "Fuerza ir a la base ignorando la caché"
// @Success      200    {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *SettingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryBool("force", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Escribir una clave de configuración
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Clave (p.ej. stock_management_enabled)"
// @Param        body  body  dto.UpsertSettingRequest  true  "Valor JSON"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) Upsert(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "key es requerida"})
	}
	var in dto.UpsertSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Upsert(c.UserContext(), key, in.Value); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
