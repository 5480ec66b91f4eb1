package rebalance_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	"github.com/tu-usuario/stock-sync/internal/domain/repository"
	"github.com/tu-usuario/stock-sync/pkg/logger"
)

// Fakes mínimos para ejercitar el rebalanceador junto con el gestor de
// traslados real (los traslados ejecutados pasan por su validación completa).

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func invKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func newFakeWarehouseRepo(list ...*entity.Warehouse) *fakeWarehouseRepo {
	r := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{}}
	for _, w := range list {
		r.warehouses[w.ID] = w
	}
	return r
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok || w.TenantID != tenantID {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWarehouseRepo) ListActiveByTenant(_ context.Context, _ string) ([]*entity.Warehouse, error) {
	return nil, nil
}

func (r *fakeWarehouseRepo) ListByTenant(_ context.Context, _ string, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) Deactivate(_ context.Context, _, _ string) error { return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(list ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range list {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListByTenant(_ context.Context, _ string, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeInventoryRepo struct {
	records  map[string]*entity.WarehouseInventory
	tenantOf map[string]string
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		records:  map[string]*entity.WarehouseInventory{},
		tenantOf: map[string]string{},
	}
}

func (r *fakeInventoryRepo) put(rec *entity.WarehouseInventory) {
	r.records[invKey(rec.WarehouseID, rec.ProductID)] = rec
}

func (r *fakeInventoryRepo) Get(_ context.Context, warehouseID, productID string) (*entity.WarehouseInventory, error) {
	rec, ok := r.records[invKey(warehouseID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeInventoryRepo) Insert(_ context.Context, record *entity.WarehouseInventory) error {
	key := invKey(record.WarehouseID, record.ProductID)
	if _, exists := r.records[key]; exists {
		return domain.ErrConcurrentModification
	}
	cp := *record
	r.records[key] = &cp
	return nil
}

func (r *fakeInventoryRepo) UpdateQuantityCAS(_ context.Context, record *entity.WarehouseInventory, expected time.Time) error {
	key := invKey(record.WarehouseID, record.ProductID)
	current, ok := r.records[key]
	if !ok || !current.LastUpdated.Equal(expected) {
		return domain.ErrConcurrentModification
	}
	cp := *record
	r.records[key] = &cp
	return nil
}

func (r *fakeInventoryRepo) ListByTenant(_ context.Context, tenantID string) ([]repository.TenantInventoryRow, error) {
	var rows []repository.TenantInventoryRow
	for _, rec := range r.records {
		if r.tenantOf[rec.WarehouseID] != tenantID {
			continue
		}
		rows = append(rows, repository.TenantInventoryRow{
			Inventory:   *rec,
			SKU:         "SKU-" + rec.ProductID,
			ProductName: "producto " + rec.ProductID,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Inventory, rows[j].Inventory
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
	return rows, nil
}

func (r *fakeInventoryRepo) ListByTenantProduct(_ context.Context, _, _ string) ([]repository.TenantInventoryRow, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ListBelowReorderPoint(_ context.Context, _ string) ([]repository.TenantInventoryRow, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) DeleteByWarehouse(_ context.Context, _ string) error { return nil }

type fakeMovementRepo struct {
	entries []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Append(_ context.Context, movement *entity.InventoryMovement) error {
	if !movement.Consistent() {
		return fmt.Errorf("movimiento inconsistente: %w", domain.ErrInvalidInput)
	}
	cp := *movement
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByWarehouse(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByReference(_ context.Context, reference string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.entries {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTxRunner struct {
	inv *fakeInventoryRepo
	mov *fakeMovementRepo
	// afterCommit se invoca tras cada commit exitoso (simula eventos
	// concurrentes entre traslados de una misma corrida).
	afterCommit func()
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.InventoryRepository) error) error {
	snapshot := make(map[string]*entity.WarehouseInventory, len(t.inv.records))
	for k, v := range t.inv.records {
		cp := *v
		snapshot[k] = &cp
	}
	entriesLen := len(t.mov.entries)

	if err := fn(t.mov, t.inv); err != nil {
		t.inv.records = snapshot
		t.mov.entries = t.mov.entries[:entriesLen]
		return err
	}
	if t.afterCommit != nil {
		t.afterCommit()
	}
	return nil
}

type fakeInvalidator struct {
	tenants []string
	pairs   []string
}

func (f *fakeInvalidator) InvalidateTenant(_ context.Context, tenantID string) {
	f.tenants = append(f.tenants, tenantID)
}

func (f *fakeInvalidator) InvalidatePair(_ context.Context, tenantID, warehouseID, productID string) {
	f.pairs = append(f.pairs, tenantID+"/"+warehouseID+"/"+productID)
}
