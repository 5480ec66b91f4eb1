package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	syncdomain "github.com/tu-usuario/stock-sync/internal/domain/sync"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

const (
	maxResolveAttempts = 3
	resolveBackoffBase = 50 * time.Millisecond
)

// ResolverUseCase aplica una estrategia de resolución a un conflicto detectado
// y registra el resultado. La resolución es idempotente: resolver un conflicto
// ya resuelto es un no-op que reporta éxito sin re-mutar inventario.
type ResolverUseCase struct {
	txRunner    inventory.TxRunner
	store       ConflictStore
	invalidator inventory.CacheInvalidator
	log         *logger.Logger
}

// NewResolverUseCase construye el caso de uso.
func NewResolverUseCase(
	txRunner inventory.TxRunner,
	store ConflictStore,
	invalidator inventory.CacheInvalidator,
	log *logger.Logger,
) *ResolverUseCase {
	return &ResolverUseCase{txRunner: txRunner, store: store, invalidator: invalidator, log: log}
}

// Resolve busca el conflicto, valida la estrategia y aplica los ajustes.
// Devuelve true si el conflicto quedó (o ya estaba) resuelto.
func (uc *ResolverUseCase) Resolve(ctx context.Context, tenantID string, resolution entity.ConflictResolution) (bool, error) {
	conflict, err := uc.store.Get(ctx, tenantID, resolution.ConflictID)
	if err != nil {
		return false, err
	}
	if conflict == nil {
		return false, fmt.Errorf("conflicto %s: %w", resolution.ConflictID, domain.ErrNotFound)
	}
	if conflict.Resolved {
		uc.log.Info().
			Str("conflict_id", conflict.ID).
			Msg("conflicto ya resuelto, no-op")
		return true, nil
	}

	if err := uc.Apply(ctx, conflict, resolution); err != nil {
		return false, err
	}
	return true, nil
}

// Apply aplica la resolución sobre un conflicto no resuelto, marca el conflicto
// como resuelto en el almacén e invalida las vistas cacheadas afectadas.
// Usado por Resolve y por la auto-resolución del sync.
func (uc *ResolverUseCase) Apply(ctx context.Context, conflict *entity.SyncConflict, resolution entity.ConflictResolution) error {
	targetQty, targetCost, err := resolutionTarget(conflict, resolution)
	if err != nil {
		return err
	}

	applyFn := func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository) error {
		return applyAdjustments(ctx, movRepo, invRepo, conflict, resolution.ResolvedBy, targetQty, targetCost)
	}
	var runErr error
	for attempt := 1; attempt <= maxResolveAttempts; attempt++ {
		runErr = uc.txRunner.Run(ctx, applyFn)
		if runErr == nil || !errors.Is(runErr, domain.ErrConcurrentModification) {
			break
		}
		if attempt == maxResolveAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resolveBackoffBase * time.Duration(attempt)):
		}
	}
	if runErr != nil {
		return runErr
	}

	conflict.Resolved = true
	if err := uc.store.Save(ctx, conflict); err != nil {
		// El inventario ya quedó consistente; un fallo al marcar el conflicto
		// solo puede costar un no-op extra (la resolución es idempotente a
		// nivel de cantidades).
		uc.log.Warn().Err(err).Str("conflict_id", conflict.ID).Msg("no se pudo marcar el conflicto como resuelto")
	}

	for _, inv := range conflict.Inventories {
		uc.invalidator.InvalidatePair(ctx, conflict.TenantID, inv.WarehouseID, conflict.ProductID)
	}
	uc.invalidator.InvalidateTenant(ctx, conflict.TenantID)

	uc.log.Info().
		Str("tenant_id", conflict.TenantID).
		Str("conflict_id", conflict.ID).
		Str("strategy", resolution.Strategy).
		Int64("target_quantity", targetQty).
		Msg("conflicto resuelto")
	return nil
}

// resolutionTarget decide la cantidad y costo objetivo según la estrategia.
func resolutionTarget(conflict *entity.SyncConflict, resolution entity.ConflictResolution) (int64, decimal.Decimal, error) {
	switch resolution.Strategy {
	case entity.StrategyUseLatestTimestamp:
		latest, ok := syncdomain.LatestInventory(conflict.Inventories)
		if !ok {
			return 0, decimal.Zero, domain.ErrInvalidInput
		}
		return latest.Quantity, latest.UnitCost, nil
	case entity.StrategyManualOverride:
		if resolution.ManualQuantity == nil || *resolution.ManualQuantity < 0 {
			return 0, decimal.Zero, domain.ErrInvalidInput
		}
		cost := decimal.Zero
		if resolution.ManualUnitCost != nil {
			cost = *resolution.ManualUnitCost
		}
		return *resolution.ManualQuantity, cost, nil
	default:
		return 0, decimal.Zero, fmt.Errorf("estrategia %q: %w", resolution.Strategy, domain.ErrUnsupportedStrategy)
	}
}

// applyAdjustments lleva cada bodega del conflicto a la cantidad objetivo con
// disciplina de libro: un ajuste INBOUND/OUTBOUND por bodega divergente, todos
// en la misma transacción (sin escrituras parciales).
func applyAdjustments(
	ctx context.Context,
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	conflict *entity.SyncConflict,
	resolvedBy string,
	targetQty int64,
	targetCost decimal.Decimal,
) error {
	now := time.Now()
	for _, snap := range conflict.Inventories {
		record, err := invRepo.Get(ctx, snap.WarehouseID, conflict.ProductID)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("inventario en bodega %s: %w", snap.WarehouseID, domain.ErrNotFound)
		}
		delta := targetQty - record.QuantityOnHand
		if delta == 0 {
			continue
		}

		updated := *record
		updated.QuantityOnHand = targetQty
		if targetCost.GreaterThan(decimal.Zero) {
			updated.UnitCost = targetCost
		}
		updated.LastUpdated = now
		if err := invRepo.UpdateQuantityCAS(ctx, &updated, record.LastUpdated); err != nil {
			return err
		}

		movType := entity.MovementTypeINBOUND
		if delta < 0 {
			movType = entity.MovementTypeOUTBOUND
		}
		mov := &entity.InventoryMovement{
			WarehouseID:    snap.WarehouseID,
			ProductID:      conflict.ProductID,
			Type:           movType,
			QuantityBefore: record.QuantityOnHand,
			QuantityChange: delta,
			QuantityAfter:  targetQty,
			UnitCost:       updated.UnitCost,
			TotalCost:      updated.UnitCost.Mul(decimal.NewFromInt(delta)),
			Reason:         entity.ReasonConflictResolution,
			Reference:      conflict.ID,
			PerformedBy:    resolvedBy,
			Synchronized:   true,
			CreatedAt:      now,
		}
		if err := movRepo.Append(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}
