package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severidad de un conflicto de sincronización, en función del spread (max − min).
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Estrategias de resolución de conflictos.
const (
	StrategyUseLatestTimestamp = "USE_LATEST_TIMESTAMP"
	StrategyManualOverride     = "MANUAL_OVERRIDE"
)

// ConflictingInventory es la foto de una bodega divergente al momento de la detección.
// Es un snapshot, no una referencia viva: la resolución no debe recoger escrituras posteriores.
type ConflictingInventory struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// SyncConflict es una divergencia detectada para un producto entre bodegas.
// Es efímero: se recalcula en cada corrida y vive en el almacén de conflictos
// (cache con TTL), nunca como fila de primera clase en la base.
type SyncConflict struct {
	ID                  string                 `json:"id"`
	TenantID            string                 `json:"tenant_id"`
	ProductID           string                 `json:"product_id"`
	SKU                 string                 `json:"sku"`
	ProductName         string                 `json:"product_name"`
	Inventories         []ConflictingInventory `json:"inventories"`
	Severity            string                 `json:"severity"`
	SuggestedResolution string                 `json:"suggested_resolution"`
	Resolved            bool                   `json:"resolved"`
	DetectedAt          time.Time              `json:"detected_at"`
}

// AutoResolvable indica si la severidad permite resolución automática durante un sync.
// HIGH y CRITICAL siempre se escalan a decisión manual.
func (c *SyncConflict) AutoResolvable() bool {
	return c.Severity == SeverityLow || c.Severity == SeverityMedium
}

// ConflictResolution es el comando para resolver un conflicto detectado.
type ConflictResolution struct {
	ConflictID     string           `json:"conflict_id"`
	Strategy       string           `json:"strategy"`
	ManualQuantity *int64           `json:"manual_quantity,omitempty"`
	ManualUnitCost *decimal.Decimal `json:"manual_unit_cost,omitempty"`
	ResolvedBy     string           `json:"resolved_by"`
}
