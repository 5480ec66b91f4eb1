package sync

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	syncdomain "github.com/tu-usuario/stock-sync/internal/domain/sync"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// SystemActor identidad registrada en el libro para resoluciones automáticas.
const SystemActor = "system-sync"

// UseCase orquesta la sincronización de inventario de un tenant: carga el
// inventario de las bodegas activas, detecta divergencias por producto,
// auto-resuelve conflictos de severidad baja/media y escala el resto a
// decisión manual.
type UseCase struct {
	invRepo     repository.InventoryRepository
	resolver    *ResolverUseCase
	store       ConflictStore
	invalidator inventory.CacheInvalidator
	threshold   float64 // desviación relativa a la media que marca conflicto
	log         *logger.Logger
}

// NewUseCase construye el caso de uso. threshold <= 0 usa el valor por defecto (10%).
func NewUseCase(
	invRepo repository.InventoryRepository,
	resolver *ResolverUseCase,
	store ConflictStore,
	invalidator inventory.CacheInvalidator,
	threshold float64,
	log *logger.Logger,
) *UseCase {
	if threshold <= 0 {
		threshold = syncdomain.DefaultVarianceThreshold
	}
	return &UseCase{
		invRepo:     invRepo,
		resolver:    resolver,
		store:       store,
		invalidator: invalidator,
		threshold:   threshold,
		log:         log,
	}
}

// Synchronize ejecuta una corrida de sincronización para el tenant.
// Semántica de fallo parcial: un error en un producto se registra en su
// outcome y la corrida continúa con los demás. La cancelación del contexto se
// honra entre productos; el progreso ya confirmado queda intacto y la corrida
// es re-ejecutable.
func (uc *UseCase) Synchronize(ctx context.Context, tenantID string) (*dto.SyncResult, error) {
	started := time.Now()
	result := &dto.SyncResult{TenantID: tenantID, StartedAt: started, Success: true}

	snapshots, err := uc.loadSnapshots(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result.ProductsAnalyzed = len(snapshots)

	for _, snap := range snapshots {
		if err := ctx.Err(); err != nil {
			// Corrida cancelada: lo ya confirmado es válido y re-ejecutable.
			result.Success = false
			break
		}

		conflict := syncdomain.Detect(tenantID, snap, uc.threshold, time.Now())
		if conflict == nil {
			continue
		}
		result.ConflictsFound++
		outcome := dto.ProductSyncOutcome{
			ProductID: conflict.ProductID,
			SKU:       conflict.SKU,
			Severity:  conflict.Severity,
		}

		if conflict.AutoResolvable() {
			resolution := entity.ConflictResolution{
				ConflictID: conflict.ID,
				Strategy:   entity.StrategyUseLatestTimestamp,
				ResolvedBy: SystemActor,
			}
			if err := uc.resolver.Apply(ctx, conflict, resolution); err != nil {
				outcome.Error = err.Error()
				result.Success = false
				uc.log.Error().Err(err).
					Str("tenant_id", tenantID).
					Str("product_id", conflict.ProductID).
					Msg("auto-resolución fallida")
			} else {
				outcome.AutoResolved = true
				result.AutoResolved++
			}
		} else {
			// HIGH/CRITICAL jamás se resuelven en silencio: quedan para decisión manual.
			if err := uc.store.Save(ctx, conflict); err != nil {
				outcome.Error = err.Error()
				result.Success = false
			} else {
				outcome.Surfaced = true
				result.Surfaced++
			}
		}
		result.Items = append(result.Items, outcome)
	}

	uc.invalidator.InvalidateTenant(ctx, tenantID)
	result.DurationMillis = time.Since(started).Milliseconds()

	uc.log.Info().
		Str("tenant_id", tenantID).
		Int("analyzed", result.ProductsAnalyzed).
		Int("conflicts", result.ConflictsFound).
		Int("auto_resolved", result.AutoResolved).
		Int("surfaced", result.Surfaced).
		Bool("success", result.Success).
		Int64("duration_ms", result.DurationMillis).
		Msg("sincronización completada")
	return result, nil
}

// Conflicts ejecuta una pasada de detección de solo lectura y devuelve los
// conflictos vigentes sin resolver. Los ya almacenados conservan su identidad
// (el snapshot original sigue siendo la base de la resolución); los nuevos se
// guardan para que su id sea resoluble.
func (uc *UseCase) Conflicts(ctx context.Context, tenantID string) ([]*entity.SyncConflict, error) {
	stored, err := uc.store.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*entity.SyncConflict, len(stored))
	for _, c := range stored {
		if !c.Resolved {
			byProduct[c.ProductID] = c
		}
	}

	snapshots, err := uc.loadSnapshots(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var conflicts []*entity.SyncConflict
	for _, snap := range snapshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		detected := syncdomain.Detect(tenantID, snap, uc.threshold, time.Now())
		if detected == nil {
			continue
		}
		if existing, ok := byProduct[snap.ProductID]; ok {
			conflicts = append(conflicts, existing)
			continue
		}
		if err := uc.store.Save(ctx, detected); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, detected)
	}
	return conflicts, nil
}

// loadSnapshots carga el inventario del tenant agrupado por producto.
func (uc *UseCase) loadSnapshots(ctx context.Context, tenantID string) ([]syncdomain.ProductSnapshot, error) {
	rows, err := uc.invRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return inventory.GroupSnapshots(rows), nil
}
