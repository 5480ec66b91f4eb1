package repository

import (
	"context"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// WarehouseRepository puerto de persistencia para bodegas.
// Todas las consultas están acotadas por tenant (join con distribution_centers).
type WarehouseRepository interface {
	// GetByID devuelve la bodega si existe y pertenece al tenant; nil si no.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Warehouse, error)
	// ListActiveByTenant devuelve las bodegas activas del tenant.
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*entity.Warehouse, error)
	// ListByTenant lista bodegas del tenant con paginación (activas e inactivas).
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error)
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	// Deactivate marca la bodega como inactiva (no se elimina físicamente).
	Deactivate(ctx context.Context, tenantID, id string) error
}
