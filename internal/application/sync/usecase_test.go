package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/tu-usuario/stock-sync/internal/application/sync"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

type syncFixture struct {
	uc          *appsync.UseCase
	inv         *fakeInventoryRepo
	mov         *fakeMovementRepo
	store       *fakeConflictStore
	invalidator *fakeInvalidator
}

func buildSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	inv := newFakeInventoryRepo()
	inv.tenantOf[whNorte] = tenantA
	inv.tenantOf[whSur] = tenantA

	mov := &fakeMovementRepo{}
	store := newFakeConflictStore()
	invalidator := &fakeInvalidator{}
	resolver := appsync.NewResolverUseCase(&fakeTxRunner{inv: inv, mov: mov}, store, invalidator, testLogger())
	uc := appsync.NewUseCase(inv, resolver, store, invalidator, 0.10, testLogger())
	return &syncFixture{uc: uc, inv: inv, mov: mov, store: store, invalidator: invalidator}
}

func (f *syncFixture) seed(warehouseID, productID string, qty int64, updated time.Time) {
	f.inv.put(&entity.WarehouseInventory{
		ID:             "inv-" + warehouseID + "-" + productID,
		WarehouseID:    warehouseID,
		ProductID:      productID,
		QuantityOnHand: qty,
		UnitCost:       decimal.NewFromInt(5),
		LastUpdated:    updated,
	})
}

// Cantidades alineadas: sin conflictos ni mutaciones.
func TestSynchronize_SinConflictos(t *testing.T) {
	f := buildSyncFixture(t)
	now := time.Now()
	f.seed(whNorte, prodPerno, 100, now)
	f.seed(whSur, prodPerno, 100, now)

	result, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ProductsAnalyzed)
	assert.Zero(t, result.ConflictsFound)
	assert.Empty(t, f.mov.entries)
}

// Divergencia pequeña (spread ≤ 10): severidad LOW, se auto-resuelve adoptando
// la cantidad con actualización más reciente.
func TestSynchronize_AutoResuelveSeveridadBaja(t *testing.T) {
	f := buildSyncFixture(t)
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	f.seed(whNorte, prodPerno, 22, older)
	f.seed(whSur, prodPerno, 30, newer) // más reciente: gana 30

	result, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ConflictsFound)
	assert.Equal(t, 1, result.AutoResolved)
	assert.Zero(t, result.Surfaced)

	norte, _ := f.inv.Get(context.Background(), whNorte, prodPerno)
	assert.Equal(t, int64(30), norte.QuantityOnHand)

	require.Len(t, f.mov.entries, 1)
	entry := f.mov.entries[0]
	assert.Equal(t, entity.ReasonConflictResolution, entry.Reason)
	assert.Equal(t, appsync.SystemActor, entry.PerformedBy)

	// Tras la corrida se invalidan las vistas del tenant.
	assert.Contains(t, f.invalidator.tenants, tenantA)
}

// Divergencia grande (spread > 100): CRITICAL se escala sin tocar inventario.
func TestSynchronize_EscalaSeveridadCritica(t *testing.T) {
	f := buildSyncFixture(t)
	now := time.Now()
	f.seed(whNorte, prodPerno, 500, now)
	f.seed(whSur, prodPerno, 10, now)

	result, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ConflictsFound)
	assert.Zero(t, result.AutoResolved)
	assert.Equal(t, 1, result.Surfaced)
	require.Len(t, result.Items, 1)
	assert.Equal(t, entity.SeverityCritical, result.Items[0].Severity)

	// El inventario queda intacto y el conflicto almacenado para decisión manual.
	norte, _ := f.inv.Get(context.Background(), whNorte, prodPerno)
	assert.Equal(t, int64(500), norte.QuantityOnHand)
	assert.Empty(t, f.mov.entries)

	stored, _ := f.store.List(context.Background(), tenantA)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Resolved)
}

// Un fallo al guardar el conflicto escalado marca la corrida como fallida
// pero no detiene el resto de productos.
func TestSynchronize_FalloParcialContinua(t *testing.T) {
	f := buildSyncFixture(t)
	now := time.Now()
	// prod-a: crítico (el guardado fallará); prod-b: alineado.
	f.seed(whNorte, "prod-a", 500, now)
	f.seed(whSur, "prod-a", 10, now)
	f.seed(whNorte, "prod-b", 50, now)
	f.seed(whSur, "prod-b", 50, now)
	f.store.saveErr = assert.AnError

	result, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.ProductsAnalyzed)
	require.Len(t, result.Items, 1)
	assert.NotEmpty(t, result.Items[0].Error)
}

// Contexto cancelado antes del análisis: la corrida termina sin mutar nada,
// marcada como no exitosa, y puede re-ejecutarse.
func TestSynchronize_ContextoCanceladoNoMuta(t *testing.T) {
	f := buildSyncFixture(t)
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.seed(whNorte, prodPerno, 22, older)
	f.seed(whSur, prodPerno, 30, older.Add(time.Hour)) // divergencia auto-resoluble

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.uc.Synchronize(ctx, tenantA)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ProductsAnalyzed)
	assert.Zero(t, result.ConflictsFound, "cancelado: ningún producto se procesa")
	assert.Empty(t, result.Items)

	norte, _ := f.inv.Get(context.Background(), whNorte, prodPerno)
	assert.Equal(t, int64(22), norte.QuantityOnHand, "el inventario queda intacto")
	assert.Empty(t, f.mov.entries)
	stored, _ := f.store.List(context.Background(), tenantA)
	assert.Empty(t, stored)

	// La misma corrida, re-ejecutada sin cancelación, completa normalmente.
	rerun, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.True(t, rerun.Success)
	assert.Equal(t, 1, rerun.AutoResolved)
}

// Productos en una sola bodega no pueden divergir: se excluyen del análisis.
func TestSynchronize_IgnoraProductosDeUnaSolaBodega(t *testing.T) {
	f := buildSyncFixture(t)
	f.seed(whNorte, prodPerno, 100, time.Now())

	result, err := f.uc.Synchronize(context.Background(), tenantA)
	require.NoError(t, err)
	assert.Zero(t, result.ProductsAnalyzed)
	assert.Zero(t, result.ConflictsFound)
}

// Un conflicto ya almacenado conserva su identidad en listados sucesivos
// (el id devuelto sigue siendo resoluble contra el snapshot original).
func TestConflicts_ConservaIdentidad(t *testing.T) {
	f := buildSyncFixture(t)
	now := time.Now()
	f.seed(whNorte, prodPerno, 500, now)
	f.seed(whSur, prodPerno, 10, now)
	ctx := context.Background()

	first, err := f.uc.Conflicts(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.uc.Conflicts(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID,
		"el conflicto vigente debe conservar su id entre listados")
}

// Un conflicto resuelto no se re-lista; la divergencia nueva genera otro id.
func TestConflicts_ResueltoGeneraNuevaIdentidad(t *testing.T) {
	f := buildSyncFixture(t)
	now := time.Now()
	f.seed(whNorte, prodPerno, 500, now)
	f.seed(whSur, prodPerno, 10, now)
	ctx := context.Background()

	first, err := f.uc.Conflicts(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Se marca resuelto sin corregir inventario (p. ej. decisión externa).
	resolved, _ := f.store.Get(ctx, tenantA, first[0].ID)
	resolved.Resolved = true
	require.NoError(t, f.store.Save(ctx, resolved))

	second, err := f.uc.Conflicts(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID,
		"la divergencia persistente tras resolver es un conflicto nuevo")
}
