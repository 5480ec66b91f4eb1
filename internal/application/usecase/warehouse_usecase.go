package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

// WarehouseUseCase casos de uso de bodegas (lectura, alta, desactivación).
type WarehouseUseCase struct {
	repo        repository.WarehouseRepository
	invRepo     repository.InventoryRepository
	invalidator inventory.CacheInvalidator
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	repo repository.WarehouseRepository,
	invRepo repository.InventoryRepository,
	invalidator inventory.CacheInvalidator,
) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, invRepo: invRepo, invalidator: invalidator}
}

// Create registra una nueva bodega activa.
func (uc *WarehouseUseCase) Create(ctx context.Context, tenantID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" || in.Code == "" || in.DistributionCenterID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:                   uuid.New().String(),
		DistributionCenterID: in.DistributionCenterID,
		TenantID:             tenantID,
		Name:                 in.Name,
		Code:                 in.Code,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega del tenant por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas del tenant con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, tenantID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListActive lista solo las bodegas activas del tenant (las que participan
// en sincronización y rebalanceo).
func (uc *WarehouseUseCase) ListActive(ctx context.Context, tenantID string) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
	}, nil
}

// Deactivate marca la bodega como inactiva y elimina sus registros de
// inventario; el libro de movimientos conserva toda la historia.
func (uc *WarehouseUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	warehouse, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	if err := uc.repo.Deactivate(ctx, tenantID, id); err != nil {
		return err
	}
	if err := uc.invRepo.DeleteByWarehouse(ctx, id); err != nil {
		return err
	}
	uc.invalidator.InvalidateTenant(ctx, tenantID)
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:                   w.ID,
		DistributionCenterID: w.DistributionCenterID,
		Name:                 w.Name,
		Code:                 w.Code,
		IsActive:             w.IsActive,
		CreatedAt:            w.CreatedAt,
		UpdatedAt:            w.UpdatedAt,
	}
}
