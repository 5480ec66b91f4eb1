package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
// El alcance por tenant se resuelve con join a distribution_centers (FK
// unidireccional bodega → centro → tenant).
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `
	w.id, w.distribution_center_id, dc.tenant_id, w.name, w.code, w.is_active,
	w.created_at, w.updated_at`

// GetByID devuelve la bodega si existe y pertenece al tenant; nil si no.
func (r *WarehouseRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Warehouse, error) {
	query := `
		SELECT` + warehouseColumns + `
		FROM warehouses w
		JOIN distribution_centers dc ON dc.id = w.distribution_center_id
		WHERE dc.tenant_id = $1 AND w.id = $2`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&w.ID, &w.DistributionCenterID, &w.TenantID, &w.Name, &w.Code, &w.IsActive,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// ListActiveByTenant devuelve las bodegas activas del tenant.
func (r *WarehouseRepo) ListActiveByTenant(ctx context.Context, tenantID string) ([]*entity.Warehouse, error) {
	query := `
		SELECT` + warehouseColumns + `
		FROM warehouses w
		JOIN distribution_centers dc ON dc.id = w.distribution_center_id
		WHERE dc.tenant_id = $1 AND w.is_active
		ORDER BY w.id`
	return r.list(ctx, query, tenantID)
}

// ListByTenant lista bodegas del tenant con paginación.
func (r *WarehouseRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT` + warehouseColumns + `
		FROM warehouses w
		JOIN distribution_centers dc ON dc.id = w.distribution_center_id
		WHERE dc.tenant_id = $1
		ORDER BY w.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, tenantID, limit, offset)
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, distribution_center_id, name, code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		warehouse.ID, warehouse.DistributionCenterID, warehouse.Name, warehouse.Code,
		warehouse.IsActive, warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Deactivate marca la bodega como inactiva.
func (r *WarehouseRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	query := `
		UPDATE warehouses w SET is_active = false, updated_at = now()
		FROM distribution_centers dc
		WHERE w.distribution_center_id = dc.id AND dc.tenant_id = $1 AND w.id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("deactivate warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.DistributionCenterID, &w.TenantID, &w.Name, &w.Code,
			&w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
