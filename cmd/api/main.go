package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pos-admin/internal/application/auth"
	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/sales"
	"github.com/tu-usuario/pos-admin/internal/application/stock"
	"github.com/tu-usuario/pos-admin/internal/application/usecase"
	"github.com/tu-usuario/pos-admin/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-admin/internal/interfaces/http"
	"github.com/tu-usuario/pos-admin/pkg/config"
	"github.com/tu-usuario/pos-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("cache_policy", cfg.Cache.Policy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	store := cache.New(cache.Deps{
		Items:      itemRepo,
		Categories: categoryRepo,
		Sales:      saleRepo,
		Users:      userRepo,
		Settings:   settingRepo,
	}, cache.Options{
		Policy:        cfg.Cache.Policy,
		TTL:           cfg.Cache.TTL,
		SurfaceErrors: cfg.Cache.SurfaceErrors,
	}, log.Component("cache"))

	// precarga de colecciones; un fallo aquí no es fatal, la caché reintenta on-demand
	warmupCtx, cancelWarmup := context.WithTimeout(ctx, 15*time.Second)
	if err := store.FetchAll(warmupCtx); err != nil {
		log.Warn().Err(err).Msg("precarga de caché incompleta")
	}
	cancelWarmup()

	stockSvc := stock.NewService(itemRepo, store, log.Component("stock"))

	settingsUC := usecase.NewSettingsUseCase(settingRepo, store)
	itemUC := usecase.NewItemUseCase(itemRepo, store)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, store)
	userUC := usecase.NewUserUseCase(userRepo, store)
	reportUC := usecase.NewReportUseCase(reportRepo)
	saleUC := sales.NewUseCase(saleRepo, itemRepo, stockSvc, settingsUC, store, log.Component("sales"))
	authUC := auth.NewUseCase(userRepo, store, cfg.JWT)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     itemUC,
		CategoryUC: categoryUC,
		SaleUC:     saleUC,
		UserUC:     userUC,
		SettingsUC: settingsUC,
		ReportUC:   reportUC,
		Store:      store,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
