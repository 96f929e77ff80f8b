package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
)

// CacheHandler operaciones administrativas sobre la caché de colecciones.
type CacheHandler struct {
	store *cache.Store
}

// NewCacheHandler construye el handler.
func NewCacheHandler(store *cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// Refresh godoc
// @Summary      Invalidar y recargar todas las colecciones cacheadas
// @Tags         cache
// @Security     Bearer
// @Param        force  query  bool  false  "Fuerza ir a la base aunque la caché esté fresca"
// @Success      204
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/cache/refresh [post]
func (h *CacheHandler) Refresh(c *fiber.Ctx) error {
	if err := h.store.RefreshAll(c.UserContext(), c.QueryBool("force", true)); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REFRESH_FAILED", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Status godoc
// @Summary      Estado de frescura por colección
// @Tags         cache
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/cache/status [get]
func (h *CacheHandler) Status(c *fiber.Ctx) error {
	out := make(map[string]string, len(cache.AllKeys()))
	for _, k := range cache.AllKeys() {
		ts := h.store.LastFetchedAt(k)
		if ts.IsZero() {
			out[string(k)] = "never"
			continue
		}
		out[string(k)] = ts.UTC().Format(time.RFC3339)
	}
	return c.JSON(out)
}
