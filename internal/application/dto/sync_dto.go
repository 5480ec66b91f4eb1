package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// ProductSyncOutcome resultado por producto de una corrida de sincronización.
type ProductSyncOutcome struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Severity     string `json:"severity,omitempty"`
	AutoResolved bool   `json:"auto_resolved"`
	Surfaced     bool   `json:"surfaced"` // escalado a decisión manual
	Error        string `json:"error,omitempty"`
}

// SyncResult agregado de una corrida de sincronización por tenant.
// Success es falso si alguna resolución automática falló; los productos
// restantes se procesan igual (semántica de fallo parcial).
type SyncResult struct {
	TenantID         string               `json:"tenant_id"`
	ProductsAnalyzed int                  `json:"products_analyzed"`
	ConflictsFound   int                  `json:"conflicts_found"`
	AutoResolved     int                  `json:"auto_resolved"`
	Surfaced         int                  `json:"surfaced"`
	Items            []ProductSyncOutcome `json:"items"`
	Success          bool                 `json:"success"`
	DurationMillis   int64                `json:"duration_ms"`
	StartedAt        time.Time            `json:"started_at"`
}

// ResolveConflictRequest body para resolver un conflicto.
type ResolveConflictRequest struct {
	Strategy       string           `json:"strategy"`
	ManualQuantity *int64           `json:"manual_quantity,omitempty"`
	ManualUnitCost *decimal.Decimal `json:"manual_unit_cost,omitempty"`
}

// ConflictListResponse respuesta de GET /api/sync/conflicts.
type ConflictListResponse struct {
	Total     int                    `json:"total"`
	Conflicts []*entity.SyncConflict `json:"conflicts"`
}

// LowStockAlert alerta de inventario en o bajo el punto de reorden.
type LowStockAlert struct {
	WarehouseID    string    `json:"warehouse_id"`
	WarehouseName  string    `json:"warehouse_name"`
	ProductID      string    `json:"product_id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	ReorderPoint   int64     `json:"reorder_point"`
	MinimumLevel   int64     `json:"minimum_level"`
	LastUpdated    time.Time `json:"last_updated"`
}
