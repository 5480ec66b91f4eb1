package repository

import (
	"context"

	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos (datos de referencia).
type ProductRepository interface {
	// GetByID devuelve el producto si existe y pertenece al tenant; nil si no.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
}
