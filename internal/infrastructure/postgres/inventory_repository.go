package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo adaptador de persistencia para warehouse_inventory.
// Implementa concurrencia optimista: last_updated funciona como versión y
// cada escritura condicional compara el valor leído.
type InventoryRepo struct {
	q Querier
}

func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.WarehouseInventory, error) {
	query := `
		SELECT id, warehouse_id, product_id, quantity_on_hand, reserved_quantity,
		       minimum_level, maximum_level, reorder_point, unit_cost,
		       last_updated, last_count_date
		FROM warehouse_inventory
		WHERE warehouse_id = $1 AND product_id = $2`
	var inv entity.WarehouseInventory
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&inv.ID, &inv.WarehouseID, &inv.ProductID, &inv.QuantityOnHand, &inv.ReservedQuantity,
		&inv.MinimumLevel, &inv.MaximumLevel, &inv.ReorderPoint, &inv.UnitCost,
		&inv.LastUpdated, &inv.LastCountDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

func (r *InventoryRepo) Insert(ctx context.Context, record *entity.WarehouseInventory) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.LastUpdated.IsZero() {
		record.LastUpdated = time.Now().UTC()
	}
	query := `
		INSERT INTO warehouse_inventory
			(id, warehouse_id, product_id, quantity_on_hand, reserved_quantity,
			 minimum_level, maximum_level, reorder_point, unit_cost, last_updated, last_count_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.WarehouseID, record.ProductID, record.QuantityOnHand, record.ReservedQuantity,
		record.MinimumLevel, record.MaximumLevel, record.ReorderPoint, record.UnitCost,
		record.LastUpdated, record.LastCountDate,
	)
	if err != nil {
		// Clave única (warehouse_id, product_id): otra transacción creó la fila primero.
		if isUniqueViolation(err) {
			return domain.ErrConcurrentModification
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) UpdateQuantityCAS(ctx context.Context, record *entity.WarehouseInventory, expected time.Time) error {
	record.LastUpdated = time.Now().UTC()
	query := `
		UPDATE warehouse_inventory
		SET quantity_on_hand = $1, reserved_quantity = $2, unit_cost = $3, last_updated = $4
		WHERE warehouse_id = $5 AND product_id = $6 AND last_updated = $7`
	cmd, err := r.q.Exec(ctx, query,
		record.QuantityOnHand, record.ReservedQuantity, record.UnitCost, record.LastUpdated,
		record.WarehouseID, record.ProductID, expected,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

const tenantInventoryColumns = `
	wi.id, wi.warehouse_id, wi.product_id, wi.quantity_on_hand, wi.reserved_quantity,
	wi.minimum_level, wi.maximum_level, wi.reorder_point, wi.unit_cost,
	wi.last_updated, wi.last_count_date,
	p.sku, p.name, w.name, w.code`

const tenantInventoryJoins = `
	FROM warehouse_inventory wi
	JOIN warehouses w            ON w.id = wi.warehouse_id
	JOIN distribution_centers dc ON dc.id = w.distribution_center_id
	JOIN products p              ON p.id = wi.product_id`

func (r *InventoryRepo) ListByTenant(ctx context.Context, tenantID string) ([]repository.TenantInventoryRow, error) {
	query := `
		SELECT` + tenantInventoryColumns + tenantInventoryJoins + `
		WHERE dc.tenant_id = $1 AND w.is_active
		ORDER BY wi.product_id, wi.warehouse_id`
	return r.listRows(ctx, query, tenantID)
}

func (r *InventoryRepo) ListByTenantProduct(ctx context.Context, tenantID, productID string) ([]repository.TenantInventoryRow, error) {
	query := `
		SELECT` + tenantInventoryColumns + tenantInventoryJoins + `
		WHERE dc.tenant_id = $1 AND wi.product_id = $2 AND w.is_active
		ORDER BY wi.warehouse_id`
	return r.listRows(ctx, query, tenantID, productID)
}

func (r *InventoryRepo) ListBelowReorderPoint(ctx context.Context, tenantID string) ([]repository.TenantInventoryRow, error) {
	query := `
		SELECT` + tenantInventoryColumns + tenantInventoryJoins + `
		WHERE dc.tenant_id = $1 AND w.is_active
		  AND wi.reorder_point > 0 AND wi.quantity_on_hand <= wi.reorder_point
		ORDER BY wi.product_id, wi.warehouse_id`
	return r.listRows(ctx, query, tenantID)
}

func (r *InventoryRepo) DeleteByWarehouse(ctx context.Context, warehouseID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM warehouse_inventory WHERE warehouse_id = $1`, warehouseID)
	if err != nil {
		return fmt.Errorf("delete inventory by warehouse: %w", err)
	}
	return nil
}

func (r *InventoryRepo) listRows(ctx context.Context, query string, args ...any) ([]repository.TenantInventoryRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []repository.TenantInventoryRow
	for rows.Next() {
		var row repository.TenantInventoryRow
		inv := &row.Inventory
		if err := rows.Scan(
			&inv.ID, &inv.WarehouseID, &inv.ProductID, &inv.QuantityOnHand, &inv.ReservedQuantity,
			&inv.MinimumLevel, &inv.MaximumLevel, &inv.ReorderPoint, &inv.UnitCost,
			&inv.LastUpdated, &inv.LastCountDate,
			&row.SKU, &row.ProductName, &row.WarehouseName, &row.WarehouseCode,
		); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
