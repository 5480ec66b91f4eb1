package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// AlertUseCase calcula alertas de stock bajo con cache read-through.
// La vista cacheada es desechable: un fallo de cache degrada a consulta directa.
type AlertUseCase struct {
	invRepo  repository.InventoryRepository
	cache    Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewAlertUseCase construye el caso de uso. ttl corto: las alertas deben ser frescas.
func NewAlertUseCase(invRepo repository.InventoryRepository, cache Cache, ttl time.Duration, log *logger.Logger) *AlertUseCase {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AlertUseCase{invRepo: invRepo, cache: cache, cacheTTL: ttl, log: log}
}

// LowStockAlerts devuelve las filas de inventario en o bajo su punto de reorden.
func (uc *AlertUseCase) LowStockAlerts(ctx context.Context, tenantID string) ([]dto.LowStockAlert, error) {
	key := AlertsKey(tenantID)
	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
		var alerts []dto.LowStockAlert
		if err := json.Unmarshal(cached, &alerts); err == nil {
			return alerts, nil
		}
	}

	rows, err := uc.invRepo.ListBelowReorderPoint(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, dto.LowStockAlert{
			WarehouseID:    row.Inventory.WarehouseID,
			WarehouseName:  row.WarehouseName,
			ProductID:      row.Inventory.ProductID,
			SKU:            row.SKU,
			ProductName:    row.ProductName,
			QuantityOnHand: row.Inventory.QuantityOnHand,
			ReorderPoint:   row.Inventory.ReorderPoint,
			MinimumLevel:   row.Inventory.MinimumLevel,
			LastUpdated:    row.Inventory.LastUpdated,
		})
	}

	if data, err := json.Marshal(alerts); err == nil {
		if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
			uc.log.Debug().Err(err).Str("key", key).Msg("no se pudo cachear alertas")
		}
	}
	return alerts, nil
}
