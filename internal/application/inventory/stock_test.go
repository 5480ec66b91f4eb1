package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// ─────────────────────────────────────────────────────────────
// Consulta de existencias por producto
// ─────────────────────────────────────────────────────────────

func buildStockFixture(t *testing.T) (*inventory.StockUseCase, *fakeInventoryRepo) {
	t.Helper()
	inv := newFakeInventoryRepo()
	inv.tenantOf[whNorte] = tenantA
	inv.tenantOf[whSur] = tenantA
	now := time.Now()
	inv.put(&entity.WarehouseInventory{
		ID: "inv-1", WarehouseID: whNorte, ProductID: prodTornillo,
		QuantityOnHand: 80, UnitCost: decimal.NewFromInt(5), LastUpdated: now,
	})
	inv.put(&entity.WarehouseInventory{
		ID: "inv-2", WarehouseID: whSur, ProductID: prodTornillo,
		QuantityOnHand: 20, UnitCost: decimal.NewFromInt(5), LastUpdated: now,
	})
	inv.put(&entity.WarehouseInventory{
		ID: "inv-3", WarehouseID: whNorte, ProductID: "prod-otro",
		QuantityOnHand: 7, UnitCost: decimal.NewFromInt(3), LastUpdated: now,
	})
	return inventory.NewStockUseCase(inv), inv
}

// Las existencias del producto se agregan por bodega con el total del tenant.
func TestProductStock_AgregaPorBodega(t *testing.T) {
	uc, _ := buildStockFixture(t)

	out, err := uc.ProductStock(context.Background(), tenantA, prodTornillo)
	require.NoError(t, err)
	assert.Equal(t, prodTornillo, out.ProductID)
	assert.Equal(t, "SKU-"+prodTornillo, out.SKU)
	assert.Equal(t, int64(100), out.Total)
	require.Len(t, out.Items, 2, "solo las bodegas con registro del producto")

	// Orden determinista por bodega.
	assert.Equal(t, whNorte, out.Items[0].WarehouseID)
	assert.Equal(t, int64(80), out.Items[0].Quantity)
	assert.Equal(t, whSur, out.Items[1].WarehouseID)
	assert.Equal(t, int64(20), out.Items[1].Quantity)
}

// Producto sin existencias en el tenant: not found.
func TestProductStock_SinExistencias(t *testing.T) {
	uc, _ := buildStockFixture(t)

	_, err := uc.ProductStock(context.Background(), tenantA, "prod-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Las existencias de un tenant son invisibles para otro.
func TestProductStock_OtroTenantInvisible(t *testing.T) {
	uc, _ := buildStockFixture(t)

	_, err := uc.ProductStock(context.Background(), "tenant-b", prodTornillo)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
