package sync

import (
	"context"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// ConflictStore guarda los conflictos detectados entre la detección y la
// resolución. Es estado derivado con TTL (cache): perderlo solo obliga a
// re-detectar, nunca corrompe inventario.
type ConflictStore interface {
	Save(ctx context.Context, conflict *entity.SyncConflict) error
	// Get devuelve el conflicto, o nil si expiró o nunca existió.
	Get(ctx context.Context, tenantID, conflictID string) (*entity.SyncConflict, error)
	List(ctx context.Context, tenantID string) ([]*entity.SyncConflict, error)
}
