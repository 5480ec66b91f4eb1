package inventory

import "fmt"

// Derivación de claves de cache. Toda vista cacheada de inventario cuelga de
// estos esquemas para que la invalidación por patrón cubra el alcance completo
// de una mutación (tenant o par bodega/producto).

// AlertsKey vista de alertas de stock bajo por tenant.
func AlertsKey(tenantID string) string {
	return "alerts:low:" + tenantID
}

// PairKey vista puntual de inventario (tenant, bodega, producto).
func PairKey(tenantID, warehouseID, productID string) string {
	return fmt.Sprintf("inventory:%s:%s:%s", tenantID, warehouseID, productID)
}

// ConflictKey conflicto de sincronización individual.
func ConflictKey(tenantID, conflictID string) string {
	return fmt.Sprintf("conflict:%s:%s", tenantID, conflictID)
}

// ConflictPattern todos los conflictos de un tenant.
func ConflictPattern(tenantID string) string {
	return fmt.Sprintf("conflict:%s:*", tenantID)
}

// TenantInventoryPattern todas las vistas de inventario de un tenant.
func TenantInventoryPattern(tenantID string) string {
	return fmt.Sprintf("inventory:%s:*", tenantID)
}

// PairPattern vistas asociadas a un par (bodega, producto) de un tenant.
func PairPattern(tenantID, warehouseID, productID string) string {
	return fmt.Sprintf("inventory:%s:%s:%s*", tenantID, warehouseID, productID)
}
