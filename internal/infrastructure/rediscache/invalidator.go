package rediscache

import (
	"context"

	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

var _ inventory.CacheInvalidator = (*Invalidator)(nil)

// Invalidator desaloja vistas cacheadas tras una mutación confirmada.
// Los errores de desalojo se registran pero no se propagan: una clave
// rezagada expira sola por TTL y nunca autoriza mutaciones.
type Invalidator struct {
	cache inventory.Cache
	log   *logger.Logger
}

func NewInvalidator(cache inventory.Cache, log *logger.Logger) *Invalidator {
	return &Invalidator{cache: cache, log: log}
}

// InvalidateTenant desaloja todas las vistas de inventario y alertas del tenant.
func (i *Invalidator) InvalidateTenant(ctx context.Context, tenantID string) {
	i.evict(ctx, inventory.TenantInventoryPattern(tenantID))
	i.evict(ctx, inventory.AlertsKey(tenantID))
}

// InvalidatePair desaloja las vistas del par (bodega, producto) y las alertas
// del tenant, que dependen de las cantidades de ese par.
func (i *Invalidator) InvalidatePair(ctx context.Context, tenantID, warehouseID, productID string) {
	i.evict(ctx, inventory.PairPattern(tenantID, warehouseID, productID))
	i.evict(ctx, inventory.AlertsKey(tenantID))
}

func (i *Invalidator) evict(ctx context.Context, pattern string) {
	if err := i.cache.EvictByPattern(ctx, pattern); err != nil {
		i.log.Warn().Err(err).Str("pattern", pattern).Msg("No se pudo invalidar cache")
	}
}
