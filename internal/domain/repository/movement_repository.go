package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Solo inserta: las
// entradas existentes jamás se modifican. Append valida el invariante
// QuantityAfter = QuantityBefore + QuantityChange y rechaza entradas
// malformadas con domain.ErrInvalidInput.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.InventoryMovement) error
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListByReference devuelve las entradas correlacionadas de una operación
	// (p. ej. los dos lados de un traslado).
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error)
}
