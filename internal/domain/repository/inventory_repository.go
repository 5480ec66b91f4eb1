package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// TenantInventoryRow es una fila de inventario enriquecida con los datos de
// producto y bodega que necesitan la detección de conflictos y las alertas.
type TenantInventoryRow struct {
	Inventory     entity.WarehouseInventory
	SKU           string
	ProductName   string
	WarehouseName string
	WarehouseCode string
}

// InventoryRepository puerto de persistencia para registros WarehouseInventory.
// Las escrituras usan concurrencia optimista: comparan el LastUpdated leído
// y devuelven domain.ErrConcurrentModification si otra transacción ganó.
type InventoryRepository interface {
	// Get devuelve el registro (warehouseID, productID), o nil si no existe.
	Get(ctx context.Context, warehouseID, productID string) (*entity.WarehouseInventory, error)
	// Insert crea el registro; si otra transacción lo creó primero devuelve
	// domain.ErrConcurrentModification (violación de clave única).
	Insert(ctx context.Context, record *entity.WarehouseInventory) error
	// UpdateQuantityCAS escribe cantidades y costo solo si LastUpdated coincide
	// con expected; de lo contrario domain.ErrConcurrentModification.
	UpdateQuantityCAS(ctx context.Context, record *entity.WarehouseInventory, expected time.Time) error
	// ListByTenant devuelve el inventario de las bodegas activas del tenant.
	ListByTenant(ctx context.Context, tenantID string) ([]TenantInventoryRow, error)
	// ListByTenantProduct restringe a un solo producto.
	ListByTenantProduct(ctx context.Context, tenantID, productID string) ([]TenantInventoryRow, error)
	// ListBelowReorderPoint devuelve filas en o bajo su punto de reorden.
	ListBelowReorderPoint(ctx context.Context, tenantID string) ([]TenantInventoryRow, error)
	// DeleteByWarehouse elimina los registros de una bodega. Solo se invoca al
	// desactivar la bodega; el libro de movimientos conserva la historia.
	DeleteByWarehouse(ctx context.Context, warehouseID string) error
}
