package sync

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// Umbrales de severidad según el spread absoluto (max − min) entre bodegas.
const (
	spreadLow    = 10
	spreadMedium = 50
	spreadHigh   = 100
)

// DefaultVarianceThreshold es la desviación relativa a la media que marca conflicto (10%).
const DefaultVarianceThreshold = 0.10

// ProductSnapshot es la foto de un producto en el conjunto de bodegas de un tenant,
// tomada al inicio de la detección (ver entity.ConflictingInventory).
type ProductSnapshot struct {
	ProductID   string
	SKU         string
	ProductName string
	Inventories []entity.ConflictingInventory
}

// SeverityForSpread clasifica el spread absoluto en un nivel de severidad.
// Es monótona: un spread mayor nunca reduce el nivel.
func SeverityForSpread(spread int64) string {
	switch {
	case spread <= spreadLow:
		return entity.SeverityLow
	case spread <= spreadMedium:
		return entity.SeverityMedium
	case spread <= spreadHigh:
		return entity.SeverityHigh
	default:
		return entity.SeverityCritical
	}
}

// Detect evalúa un producto presente en varias bodegas y devuelve el conflicto
// detectado, o nil si las cantidades no divergen. threshold es la desviación
// relativa a la media (<=0 usa DefaultVarianceThreshold). Sin efectos secundarios.
func Detect(tenantID string, snap ProductSnapshot, threshold float64, now time.Time) *entity.SyncConflict {
	if len(snap.Inventories) < 2 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultVarianceThreshold
	}

	var sum int64
	minQty, maxQty := snap.Inventories[0].Quantity, snap.Inventories[0].Quantity
	for _, inv := range snap.Inventories {
		sum += inv.Quantity
		if inv.Quantity < minQty {
			minQty = inv.Quantity
		}
		if inv.Quantity > maxQty {
			maxQty = inv.Quantity
		}
	}
	mean := float64(sum) / float64(len(snap.Inventories))
	if mean <= 0 {
		return nil
	}

	divergent := false
	for _, inv := range snap.Inventories {
		if math.Abs(float64(inv.Quantity)-mean) > threshold*mean {
			divergent = true
			break
		}
	}
	if !divergent {
		return nil
	}

	// Copia ordenada de los snapshots (determinista para tests y para la resolución).
	inventories := make([]entity.ConflictingInventory, len(snap.Inventories))
	copy(inventories, snap.Inventories)
	sort.Slice(inventories, func(i, j int) bool {
		return inventories[i].WarehouseID < inventories[j].WarehouseID
	})

	severity := SeverityForSpread(maxQty - minQty)
	return &entity.SyncConflict{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ProductID:   snap.ProductID,
		SKU:         snap.SKU,
		ProductName: snap.ProductName,
		Inventories: inventories,
		Severity:    severity,
		SuggestedResolution: fmt.Sprintf(
			"adoptar la cantidad de la bodega con actualización más reciente (spread %d, media %.1f)",
			maxQty-minQty, mean),
		DetectedAt: now,
	}
}

// LatestInventory devuelve el snapshot con el LastUpdated más reciente.
// Empate se decide por WarehouseID ascendente para mantener determinismo.
func LatestInventory(inventories []entity.ConflictingInventory) (entity.ConflictingInventory, bool) {
	if len(inventories) == 0 {
		return entity.ConflictingInventory{}, false
	}
	latest := inventories[0]
	for _, inv := range inventories[1:] {
		if inv.LastUpdated.After(latest.LastUpdated) ||
			(inv.LastUpdated.Equal(latest.LastUpdated) && inv.WarehouseID < latest.WarehouseID) {
			latest = inv
		}
	}
	return latest, true
}
