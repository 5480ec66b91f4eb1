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
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/application/rebalance"
	appsync "github.com/tu-usuario/stock-sync/internal/application/sync"
	"github.com/tu-usuario/stock-sync/internal/application/usecase"
	"github.com/tu-usuario/stock-sync/internal/domain/sync"
	"github.com/tu-usuario/stock-sync/internal/infrastructure/postgres"
	"github.com/tu-usuario/stock-sync/internal/infrastructure/rediscache"
	httpRouter "github.com/tu-usuario/stock-sync/internal/interfaces/http"
	"github.com/tu-usuario/stock-sync/pkg/config"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	cache, err := rediscache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer cache.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invalidator := rediscache.NewInvalidator(cache, log)
	conflictStore := rediscache.NewConflictStore(cache, cfg.Sync.ConflictTTL)

	transferUC := inventory.NewTransferUseCase(txRunner, warehouseRepo, productRepo, invalidator, log)
	movementUC := inventory.NewMovementUseCase(txRunner, warehouseRepo, productRepo, movementRepo, invalidator, log)
	alertUC := inventory.NewAlertUseCase(invRepo, cache, cfg.Sync.AlertsTTL, log)
	stockUC := inventory.NewStockUseCase(invRepo)

	resolverUC := appsync.NewResolverUseCase(txRunner, conflictStore, invalidator, log)
	syncUC := appsync.NewUseCase(invRepo, resolverUC, conflictStore, invalidator, cfg.Sync.VarianceThreshold, log)

	registry := rebalance.NewRegistry(sync.RebalancePolicy{
		ImbalanceRatio: cfg.Sync.ImbalanceRatio,
		MinTransferQty: cfg.Sync.MinTransferQty,
		SavingRate:     decimal.NewFromFloat(cfg.Sync.SavingRate),
	})
	rebalanceUC := rebalance.NewUseCase(invRepo, registry, transferUC, invalidator, log)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, invRepo, invalidator)
	productUC := usecase.NewProductUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SyncUC:      syncUC,
		ResolverUC:  resolverUC,
		TransferUC:  transferUC,
		MovementUC:  movementUC,
		AlertUC:     alertUC,
		StockUC:     stockUC,
		RebalanceUC: rebalanceUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		JWTSecret:   cfg.JWT.Secret,
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
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
