package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// Reintentos ante modificación concurrente (CAS perdido) antes de rendirse.
const (
	maxTransferAttempts = 3
	retryBackoffBase    = 50 * time.Millisecond
)

// TransferUseCase ejecuta traslados atómicos de inventario entre bodegas:
// resta en origen, suma en destino y escribe dos entradas correlacionadas en
// el libro, todo en una sola transacción. Las escrituras usan CAS sobre
// LastUpdated y se reintentan con backoff acotado si otra operación ganó.
type TransferUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	invalidator   CacheInvalidator
	log           *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	invalidator CacheInvalidator,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		invalidator:   invalidator,
		log:           log,
	}
}

// Transfer valida y ejecuta un traslado. La validación (bodegas activas,
// producto, stock suficiente) no produce efectos; la mutación es todo-o-nada.
func (uc *TransferUseCase) Transfer(ctx context.Context, tenantID, userID string, req dto.TransferRequest) (*dto.TransferResult, error) {
	if err := uc.validate(ctx, tenantID, req); err != nil {
		return &dto.TransferResult{Success: false, Errors: []string{err.Error()}}, err
	}

	reference := req.Reference
	if reference == "" {
		reference = "TRF-" + uuid.New().String()
	}
	reason := req.Reason
	if reason == "" {
		reason = entity.ReasonTransfer
	}

	err := runWithRetry(ctx, uc.txRunner, func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository) error {
		return uc.execute(ctx, movRepo, invRepo, req, reference, reason, userID)
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("tenant_id", tenantID).
			Str("from", req.FromWarehouseID).
			Str("to", req.ToWarehouseID).
			Str("product_id", req.ProductID).
			Msg("traslado rechazado")
		return &dto.TransferResult{Success: false, Errors: []string{err.Error()}}, err
	}

	// Invalidación de cache siempre después de confirmar, nunca antes.
	uc.invalidator.InvalidatePair(ctx, tenantID, req.FromWarehouseID, req.ProductID)
	uc.invalidator.InvalidatePair(ctx, tenantID, req.ToWarehouseID, req.ProductID)

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("reference", reference).
		Int64("quantity", req.Quantity).
		Msg("traslado ejecutado")
	return &dto.TransferResult{Success: true, TransferID: reference}, nil
}

// validate comprueba entrada, bodegas y producto. Sin efectos secundarios.
func (uc *TransferUseCase) validate(ctx context.Context, tenantID string, req dto.TransferRequest) error {
	if req.FromWarehouseID == "" || req.ToWarehouseID == "" || req.ProductID == "" ||
		req.FromWarehouseID == req.ToWarehouseID || req.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	for _, whID := range []string{req.FromWarehouseID, req.ToWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(ctx, tenantID, whID)
		if err != nil {
			return err
		}
		if wh == nil {
			return fmt.Errorf("bodega %s: %w", whID, domain.ErrNotFound)
		}
		if !wh.IsActive {
			return fmt.Errorf("bodega %s: %w", whID, domain.ErrWarehouseInactive)
		}
	}
	product, err := uc.productRepo.GetByID(ctx, tenantID, req.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", req.ProductID, domain.ErrNotFound)
	}
	return nil
}

// execute aplica el traslado dentro de la transacción del caller.
func (uc *TransferUseCase) execute(
	ctx context.Context,
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	req dto.TransferRequest,
	reference, reason, userID string,
) error {
	source, err := invRepo.Get(ctx, req.FromWarehouseID, req.ProductID)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("inventario en bodega origen: %w", domain.ErrNotFound)
	}
	if source.QuantityOnHand < req.Quantity {
		return &domain.InsufficientInventoryError{
			WarehouseID: req.FromWarehouseID,
			ProductID:   req.ProductID,
			Available:   source.QuantityOnHand,
			Requested:   req.Quantity,
		}
	}

	dest, err := invRepo.Get(ctx, req.ToWarehouseID, req.ProductID)
	if err != nil {
		return err
	}

	now := time.Now()
	unitCost := source.UnitCost

	// Resta en origen (CAS sobre el LastUpdated leído).
	updatedSource := *source
	updatedSource.QuantityOnHand -= req.Quantity
	updatedSource.LastUpdated = now
	if err := invRepo.UpdateQuantityCAS(ctx, &updatedSource, source.LastUpdated); err != nil {
		return err
	}

	// Suma en destino; si el registro no existe se crea con el costo del origen.
	var destBefore int64
	if dest == nil {
		newDest := &entity.WarehouseInventory{
			ID:             uuid.New().String(),
			WarehouseID:    req.ToWarehouseID,
			ProductID:      req.ProductID,
			QuantityOnHand: req.Quantity,
			UnitCost:       unitCost,
			LastUpdated:    now,
		}
		if err := invRepo.Insert(ctx, newDest); err != nil {
			return err
		}
	} else {
		destBefore = dest.QuantityOnHand
		updatedDest := *dest
		updatedDest.QuantityOnHand += req.Quantity
		updatedDest.LastUpdated = now
		if err := invRepo.UpdateQuantityCAS(ctx, &updatedDest, dest.LastUpdated); err != nil {
			return err
		}
	}

	// Dos entradas del libro con la misma referencia: salida en origen, entrada en destino.
	outMov := &entity.InventoryMovement{
		WarehouseID:    req.FromWarehouseID,
		ProductID:      req.ProductID,
		Type:           entity.MovementTypeOUTBOUND,
		QuantityBefore: source.QuantityOnHand,
		QuantityChange: -req.Quantity,
		QuantityAfter:  source.QuantityOnHand - req.Quantity,
		UnitCost:       unitCost,
		TotalCost:      unitCost.Mul(decimal.NewFromInt(-req.Quantity)),
		Reason:         reason,
		Reference:      reference,
		PerformedBy:    userID,
		Synchronized:   true,
		CreatedAt:      now,
	}
	if err := movRepo.Append(ctx, outMov); err != nil {
		return err
	}
	inMov := &entity.InventoryMovement{
		WarehouseID:    req.ToWarehouseID,
		ProductID:      req.ProductID,
		Type:           entity.MovementTypeINBOUND,
		QuantityBefore: destBefore,
		QuantityChange: req.Quantity,
		QuantityAfter:  destBefore + req.Quantity,
		UnitCost:       unitCost,
		TotalCost:      unitCost.Mul(decimal.NewFromInt(req.Quantity)),
		Reason:         reason,
		Reference:      reference,
		PerformedBy:    userID,
		Synchronized:   true,
		CreatedAt:      now,
	}
	return movRepo.Append(ctx, inMov)
}

// runWithRetry ejecuta fn en transacción y reintenta ante CAS perdido,
// con backoff acotado y respetando la cancelación del contexto.
func runWithRetry(ctx context.Context, txRunner TxRunner, fn func(repository.MovementRepository, repository.InventoryRepository) error) error {
	var err error
	for attempt := 1; attempt <= maxTransferAttempts; attempt++ {
		err = txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
		if attempt == maxTransferAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoffBase * time.Duration(attempt)):
		}
	}
	return err
}
