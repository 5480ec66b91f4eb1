package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/application/rebalance"
	appsync "github.com/tu-usuario/stock-sync/internal/application/sync"
	"github.com/tu-usuario/stock-sync/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SyncUC      *appsync.UseCase
	ResolverUC  *appsync.ResolverUseCase
	TransferUC  *inventory.TransferUseCase
	MovementUC  *inventory.MovementUseCase
	AlertUC     *inventory.AlertUseCase
	StockUC     *inventory.StockUseCase
	RebalanceUC *rebalance.UseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sincronización (protegido)
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncUC, deps.ResolverUC)
	syncGroup.Post("/", syncHandler.Synchronize)
	syncGroup.Get("/conflicts", syncHandler.ListConflicts)
	syncGroup.Post("/conflicts/:id/resolve", syncHandler.ResolveConflict)

	// Inventario: traslados, movimientos, alertas, rebalanceo (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.TransferUC, deps.MovementUC, deps.AlertUC, deps.StockUC)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/alerts", inventoryHandler.LowStockAlerts)
	invGroup.Get("/products/:id", inventoryHandler.ProductStock)

	rebalanceHandler := NewRebalanceHandler(deps.RebalanceUC)
	invGroup.Post("/rebalance", rebalanceHandler.Rebalance)

	// Bodegas (protegido; desactivar solo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", RequireRole("admin"), warehouseHandler.Deactivate)

	// Productos (protegido, solo lectura)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
}
