package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	domaininv "github.com/tu-usuario/stock-sync/internal/domain/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// MovementUseCase registra entradas y salidas directas (INBOUND/OUTBOUND) con
// disciplina de libro: toda mutación de cantidad produce exactamente una
// entrada, en la misma transacción. Los traslados van por TransferUseCase.
type MovementUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	movementRepo  repository.MovementRepository
	invalidator   CacheInvalidator
	log           *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	invalidator CacheInvalidator,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		movementRepo:  movementRepo,
		invalidator:   invalidator,
		log:           log,
	}
}

// Register aplica una entrada o salida directa de stock.
// INBOUND crea el registro de inventario en la primera recepción y recalcula
// el costo promedio ponderado; OUTBOUND verifica stock suficiente.
func (uc *MovementUseCase) Register(ctx context.Context, tenantID, userID string, in dto.RegisterMovementRequest) error {
	switch in.Type {
	case entity.MovementTypeINBOUND:
		if in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeOUTBOUND:
		// sin costo: se usa el costo promedio vigente
	default:
		return domain.ErrInvalidInput
	}
	if in.WarehouseID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}

	wh, err := uc.warehouseRepo.GetByID(ctx, tenantID, in.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", in.WarehouseID, domain.ErrNotFound)
	}
	if !wh.IsActive {
		return fmt.Errorf("bodega %s: %w", in.WarehouseID, domain.ErrWarehouseInactive)
	}
	product, err := uc.productRepo.GetByID(ctx, tenantID, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}

	var run func(repository.MovementRepository, repository.InventoryRepository) error
	if in.Type == entity.MovementTypeINBOUND {
		run = func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository) error {
			return uc.doInbound(ctx, movRepo, invRepo, in, userID)
		}
	} else {
		run = func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository) error {
			return uc.doOutbound(ctx, movRepo, invRepo, in, userID)
		}
	}

	if err := runWithRetry(ctx, uc.txRunner, run); err != nil {
		return err
	}
	uc.invalidator.InvalidatePair(ctx, tenantID, in.WarehouseID, in.ProductID)
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("type", in.Type).
		Str("warehouse_id", in.WarehouseID).
		Str("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Msg("movimiento registrado")
	return nil
}

func (uc *MovementUseCase) doInbound(
	ctx context.Context,
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	in dto.RegisterMovementRequest,
	userID string,
) error {
	now := time.Now()
	unitCost := *in.UnitCost

	record, err := invRepo.Get(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	var before int64
	if record == nil {
		// Primera recepción: el registro de inventario nace aquí.
		newRecord := &entity.WarehouseInventory{
			ID:             uuid.New().String(),
			WarehouseID:    in.WarehouseID,
			ProductID:      in.ProductID,
			QuantityOnHand: in.Quantity,
			UnitCost:       unitCost,
			LastUpdated:    now,
		}
		if err := invRepo.Insert(ctx, newRecord); err != nil {
			return err
		}
	} else {
		before = record.QuantityOnHand
		updated := *record
		updated.QuantityOnHand += in.Quantity
		updated.UnitCost = domaininv.WeightedAverageCost(record.QuantityOnHand, record.UnitCost, in.Quantity, unitCost)
		updated.LastUpdated = now
		if err := invRepo.UpdateQuantityCAS(ctx, &updated, record.LastUpdated); err != nil {
			return err
		}
	}

	reason := in.Reason
	if reason == "" {
		reason = "receipt"
	}
	return movRepo.Append(ctx, &entity.InventoryMovement{
		WarehouseID:    in.WarehouseID,
		ProductID:      in.ProductID,
		Type:           entity.MovementTypeINBOUND,
		QuantityBefore: before,
		QuantityChange: in.Quantity,
		QuantityAfter:  before + in.Quantity,
		UnitCost:       unitCost,
		TotalCost:      unitCost.Mul(decimal.NewFromInt(in.Quantity)),
		Reason:         reason,
		Reference:      in.Reference,
		PerformedBy:    userID,
		CreatedAt:      now,
	})
}

func (uc *MovementUseCase) doOutbound(
	ctx context.Context,
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	in dto.RegisterMovementRequest,
	userID string,
) error {
	now := time.Now()

	record, err := invRepo.Get(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("inventario: %w", domain.ErrNotFound)
	}
	if record.QuantityOnHand < in.Quantity {
		return &domain.InsufficientInventoryError{
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Available:   record.QuantityOnHand,
			Requested:   in.Quantity,
		}
	}

	updated := *record
	updated.QuantityOnHand -= in.Quantity
	updated.LastUpdated = now
	if err := invRepo.UpdateQuantityCAS(ctx, &updated, record.LastUpdated); err != nil {
		return err
	}

	reason := in.Reason
	if reason == "" {
		reason = "issue"
	}
	unitCost := record.UnitCost
	return movRepo.Append(ctx, &entity.InventoryMovement{
		WarehouseID:    in.WarehouseID,
		ProductID:      in.ProductID,
		Type:           entity.MovementTypeOUTBOUND,
		QuantityBefore: record.QuantityOnHand,
		QuantityChange: -in.Quantity,
		QuantityAfter:  record.QuantityOnHand - in.Quantity,
		UnitCost:       unitCost,
		TotalCost:      unitCost.Mul(decimal.NewFromInt(-in.Quantity)),
		Reason:         reason,
		Reference:      in.Reference,
		PerformedBy:    userID,
		CreatedAt:      now,
	})
}

// ListByWarehouse lista el libro de una bodega (valida alcance de tenant).
func (uc *MovementUseCase) ListByWarehouse(ctx context.Context, tenantID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	return uc.movementRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

// ListByProduct lista el libro de un producto (valida alcance de tenant).
func (uc *MovementUseCase) ListByProduct(ctx context.Context, tenantID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return uc.movementRepo.ListByProduct(ctx, productID, from, to, limit, offset)
}
