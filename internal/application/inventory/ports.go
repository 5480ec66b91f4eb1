package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que los cambios de cantidad y sus
// entradas del libro se confirmen como una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
	) error) error
}

// Cache contrato de la capa de cache (vista derivada y desechable; nunca se
// consulta para decidir si una mutación procede).
type Cache interface {
	// Get devuelve el valor o nil si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	EvictByPattern(ctx context.Context, pattern string) error
}

// CacheInvalidator desaloja vistas cacheadas afectadas por una mutación.
// Debe invocarse después de confirmar la mutación, nunca antes.
type CacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID string)
	InvalidatePair(ctx context.Context, tenantID, warehouseID, productID string)
}
