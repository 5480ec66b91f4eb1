package inventory

import (
	"sort"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	syncdomain "github.com/tu-usuario/stock-sync/internal/domain/sync"
)

// GroupSnapshots agrupa filas de inventario por producto y descarta los
// productos presentes en una sola bodega (no pueden divergir ni rebalancearse).
// El orden por ProductID hace deterministas las corridas de sync y rebalanceo.
func GroupSnapshots(rows []repository.TenantInventoryRow) []syncdomain.ProductSnapshot {
	grouped := make(map[string]*syncdomain.ProductSnapshot)
	for _, row := range rows {
		snap, ok := grouped[row.Inventory.ProductID]
		if !ok {
			snap = &syncdomain.ProductSnapshot{
				ProductID:   row.Inventory.ProductID,
				SKU:         row.SKU,
				ProductName: row.ProductName,
			}
			grouped[row.Inventory.ProductID] = snap
		}
		snap.Inventories = append(snap.Inventories, entity.ConflictingInventory{
			WarehouseID:   row.Inventory.WarehouseID,
			WarehouseName: row.WarehouseName,
			Quantity:      row.Inventory.QuantityOnHand,
			UnitCost:      row.Inventory.UnitCost,
			LastUpdated:   row.Inventory.LastUpdated,
		})
	}

	productIDs := make([]string, 0, len(grouped))
	for id, snap := range grouped {
		if len(snap.Inventories) < 2 {
			continue
		}
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	snapshots := make([]syncdomain.ProductSnapshot, 0, len(productIDs))
	for _, id := range productIDs {
		snapshots = append(snapshots, *grouped[id])
	}
	return snapshots
}
