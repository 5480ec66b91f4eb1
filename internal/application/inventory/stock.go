package inventory

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
)

// StockUseCase consulta de existencias de un producto entre las bodegas
// activas del tenant (vista operativa previa a un traslado manual).
type StockUseCase struct {
	invRepo repository.InventoryRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(invRepo repository.InventoryRepository) *StockUseCase {
	return &StockUseCase{invRepo: invRepo}
}

// ProductStock devuelve las existencias del producto por bodega y el total.
func (uc *StockUseCase) ProductStock(ctx context.Context, tenantID, productID string) (*dto.ProductStockResponse, error) {
	rows, err := uc.invRepo.ListByTenantProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("existencias del producto %s: %w", productID, domain.ErrNotFound)
	}

	out := &dto.ProductStockResponse{
		ProductID:   productID,
		SKU:         rows[0].SKU,
		ProductName: rows[0].ProductName,
	}
	for _, row := range rows {
		out.Total += row.Inventory.QuantityOnHand
		out.Items = append(out.Items, dto.WarehouseStockItem{
			WarehouseID:   row.Inventory.WarehouseID,
			WarehouseName: row.WarehouseName,
			Quantity:      row.Inventory.QuantityOnHand,
			UnitCost:      row.Inventory.UnitCost,
			LastUpdated:   row.Inventory.LastUpdated,
		})
	}
	return out, nil
}
