package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo adaptador del libro de movimientos. Solo inserta; las entradas
// son inmutables una vez escritas.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Append(ctx context.Context, movement *entity.InventoryMovement) error {
	if !movement.Consistent() {
		return fmt.Errorf("%w: movimiento inconsistente (%d + %d != %d)",
			domain.ErrInvalidInput, movement.QuantityBefore, movement.QuantityChange, movement.QuantityAfter)
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO inventory_movements
			(id, warehouse_id, product_id, movement_type, quantity_before, quantity_change,
			 quantity_after, unit_cost, total_cost, reason, reference, performed_by,
			 synchronized, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.WarehouseID, movement.ProductID, movement.Type,
		movement.QuantityBefore, movement.QuantityChange, movement.QuantityAfter,
		movement.UnitCost, movement.TotalCost, movement.Reason, movement.Reference,
		movement.PerformedBy, movement.Synchronized, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

const movementColumns = `
	id, warehouse_id, product_id, movement_type, quantity_before, quantity_change,
	quantity_after, unit_cost, total_cost, reason, reference, performed_by,
	synchronized, created_at`

func (r *MovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.listFiltered(ctx, "warehouse_id", warehouseID, from, to, limit, offset)
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.listFiltered(ctx, "product_id", productID, from, to, limit, offset)
}

func (r *MovementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT` + movementColumns + `
		FROM inventory_movements
		WHERE reference = $1
		ORDER BY created_at`
	return r.list(ctx, query, reference)
}

// listFiltered arma la query con rango de fechas opcional. column es un
// identificador fijo (warehouse_id o product_id), nunca entrada del usuario.
func (r *MovementRepo) listFiltered(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT` + movementColumns + `
		FROM inventory_movements
		WHERE ` + column + ` = $1`
	args := []any{value}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(
			&m.ID, &m.WarehouseID, &m.ProductID, &m.Type,
			&m.QuantityBefore, &m.QuantityChange, &m.QuantityAfter,
			&m.UnitCost, &m.TotalCost, &m.Reason, &m.Reference, &m.PerformedBy,
			&m.Synchronized, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
