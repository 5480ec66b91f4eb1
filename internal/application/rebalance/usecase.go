package rebalance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	syncdomain "github.com/tu-usuario/stock-sync/internal/domain/sync"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// UseCase analiza el desbalance de existencias por producto y propone (u
// opcionalmente ejecuta) traslados para reducirlo, según una estrategia
// conectable. Las propuestas nacen sin aprobar; la ejecución pasa siempre por
// el gestor de traslados y por tanto por el libro de movimientos.
type UseCase struct {
	invRepo     repository.InventoryRepository
	registry    *Registry
	transferUC  *inventory.TransferUseCase
	invalidator inventory.CacheInvalidator
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	invRepo repository.InventoryRepository,
	registry *Registry,
	transferUC *inventory.TransferUseCase,
	invalidator inventory.CacheInvalidator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		invRepo:     invRepo,
		registry:    registry,
		transferUC:  transferUC,
		invalidator: invalidator,
		log:         log,
	}
}

// Rebalance corre el análisis para el tenant con la estrategia indicada.
// Con Execute=true cada propuesta se aprueba y realiza vía TransferUseCase;
// un traslado fallido se registra en Errors y la corrida continúa.
func (uc *UseCase) Rebalance(ctx context.Context, tenantID, userID string, req dto.RebalanceRequest) (*dto.RebalanceResult, error) {
	started := time.Now()

	strategy, err := uc.registry.Resolve(req.Strategy)
	if err != nil {
		return nil, err
	}

	snapshots, err := uc.loadSnapshots(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &dto.RebalanceResult{
		TenantID:         tenantID,
		Strategy:         strategy.Name(),
		ProductsAnalyzed: len(snapshots),
		TotalValue:       decimal.Zero,
		TotalSavings:     decimal.Zero,
	}

	for _, snap := range snapshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		proposal := strategy.Plan(snap)
		if proposal == nil {
			continue
		}
		result.ProductsFlagged++
		result.Proposals = append(result.Proposals, proposal)
		result.TotalValue = result.TotalValue.Add(proposal.TotalValue)
		result.TotalSavings = result.TotalSavings.Add(proposal.EstimatedSavings)
	}

	if req.Execute {
		uc.executeProposals(ctx, tenantID, userID, result)
	}

	result.DurationMillis = time.Since(started).Milliseconds()
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("strategy", result.Strategy).
		Int("analyzed", result.ProductsAnalyzed).
		Int("flagged", result.ProductsFlagged).
		Int("executed", result.Executed).
		Str("total_value", result.TotalValue.String()).
		Msg("rebalanceo completado")
	return result, nil
}

// executeProposals realiza cada propuesta como traslado. El gestor de
// traslados re-valida stock y bodegas, así que una propuesta obsoleta
// (inventario movido entre el análisis y la ejecución) falla sin efectos.
func (uc *UseCase) executeProposals(ctx context.Context, tenantID, userID string, result *dto.RebalanceResult) {
	for _, proposal := range result.Proposals {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return
		}
		transferReq := dto.TransferRequest{
			FromWarehouseID: proposal.FromWarehouseID,
			ToWarehouseID:   proposal.ToWarehouseID,
			ProductID:       proposal.ProductID,
			Quantity:        proposal.Quantity,
			Reason:          entity.ReasonRebalance,
			Reference:       "RBL-" + uuid.New().String(),
		}
		if _, err := uc.transferUC.Transfer(ctx, tenantID, userID, transferReq); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		proposal.IsApproved = true
		result.Executed++
	}
	uc.invalidator.InvalidateTenant(ctx, tenantID)
}

// loadSnapshots carga el inventario del tenant agrupado por producto.
func (uc *UseCase) loadSnapshots(ctx context.Context, tenantID string) ([]syncdomain.ProductSnapshot, error) {
	rows, err := uc.invRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return inventory.GroupSnapshots(rows), nil
}
