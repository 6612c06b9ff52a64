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
	"github.com/jhoicas/Planta-api/internal/application/alerts"
	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/catalog"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/application/picking"
	"github.com/jhoicas/Planta-api/internal/application/serial"
	"github.com/jhoicas/Planta-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Planta-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Planta-api/internal/interfaces/http"
	"github.com/jhoicas/Planta-api/pkg/config"
	"github.com/jhoicas/Planta-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	serialRepo := postgres.NewSerialRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	pickRepo := postgres.NewPickListRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de lectura de stock: opcional, REDIS_ADDR vacío lo desactiva.
	var stockCache ledger.StockCache
	if cfg.Redis.Addr != "" {
		cache, err := infraredis.New(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, caché de stock desactivado")
		} else {
			defer cache.Close()
			stockCache = cache
		}
	}

	alertMonitor := alerts.NewMonitor(alertRepo, log)
	ledgerUC := ledger.NewLedgerUseCase(
		txRunner, txRunner,
		itemRepo, locationRepo, stockRepo, txRepo,
		alertMonitor, stockCache, log,
	)
	itemUC := catalog.NewItemUseCase(itemRepo, locationRepo)
	locationUC := catalog.NewLocationUseCase(locationRepo)
	serialUC := serial.NewRegistryUseCase(serialRepo, itemRepo)
	bomUC := bom.NewEngineUseCase(bomRepo, itemRepo)
	pickingUC := picking.NewOrchestrator(txRunner, ledgerUC, bomUC, pickRepo, log)

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
		Title:    "Planta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		LocationUC: locationUC,
		LedgerUC:   ledgerUC,
		SerialUC:   serialUC,
		BOMUC:      bomUC,
		PickingUC:  pickingUC,
		AlertUC:    alertMonitor,
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

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
