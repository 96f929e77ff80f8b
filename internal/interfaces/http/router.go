package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-admin/internal/application/auth"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/sales"
	"github.com/tu-usuario/pos-admin/internal/application/usecase"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ItemUC     *usecase.ItemUseCase
	CategoryUC *usecase.CategoryUseCase
	SaleUC     *sales.UseCase
	UserUC     *usecase.UserUseCase
	SettingsUC *usecase.SettingsUseCase
	ReportUC   *usecase.ReportUseCase
	Store      *cache.Store
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (lectura para todos; escritura solo admin)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Sales (empleados crean y listan las propias; editar/borrar deja rastro)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/status", userHandler.SetStatus)
	users.Put("/:id/role", userHandler.SetRole)

	// Settings (lectura para todos; escritura solo admin)
	settings := protected.Group("/settings")
	settingHandler := NewSettingHandler(deps.SettingsUC)
	settings.Get("/", settingHandler.List)
	settings.Put("/:key", adminOnly, settingHandler.Upsert)

	// Reports (solo admin)
	reports := protected.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/sales-summary", reportHandler.SalesSummary)

	// Cache (solo admin)
	cacheGroup := protected.Group("/cache", adminOnly)
	cacheHandler := NewCacheHandler(deps.Store)
	cacheGroup.Post("/refresh", cacheHandler.Refresh)
	cacheGroup.Get("/status", cacheHandler.Status)
}
