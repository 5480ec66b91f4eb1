package sync_test

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

// Fakes en memoria con la misma semántica que los adaptadores reales:
// CAS sobre LastUpdated, transacciones todo-o-nada y almacén de conflictos
// con identidad por (tenant, id).

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func invKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
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
			Inventory:     *rec,
			SKU:           "SKU-" + rec.ProductID,
			ProductName:   "producto " + rec.ProductID,
			WarehouseName: "bodega " + rec.WarehouseID,
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

func (r *fakeInventoryRepo) ListByTenantProduct(ctx context.Context, tenantID, productID string) ([]repository.TenantInventoryRow, error) {
	all, _ := r.ListByTenant(ctx, tenantID)
	var rows []repository.TenantInventoryRow
	for _, row := range all {
		if row.Inventory.ProductID == productID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeInventoryRepo) ListBelowReorderPoint(ctx context.Context, tenantID string) ([]repository.TenantInventoryRow, error) {
	all, _ := r.ListByTenant(ctx, tenantID)
	var rows []repository.TenantInventoryRow
	for _, row := range all {
		if row.Inventory.BelowReorderPoint() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeInventoryRepo) DeleteByWarehouse(_ context.Context, warehouseID string) error {
	for key, rec := range r.records {
		if rec.WarehouseID == warehouseID {
			delete(r.records, key)
		}
	}
	return nil
}

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

func (r *fakeMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.entries {
		if m.WarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, productID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.entries {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
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

// fakeTxRunner ejecuta fn con los repos fakes y restaura el snapshot previo
// si fn falla (todo-o-nada, como la transacción real).
type fakeTxRunner struct {
	inv  *fakeInventoryRepo
	mov  *fakeMovementRepo
	runs int
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.InventoryRepository) error) error {
	t.runs++

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
	return nil
}

type fakeConflictStore struct {
	conflicts map[string]*entity.SyncConflict // por tenant|id
	saveErr   error
}

func newFakeConflictStore() *fakeConflictStore {
	return &fakeConflictStore{conflicts: map[string]*entity.SyncConflict{}}
}

func (s *fakeConflictStore) key(tenantID, id string) string { return tenantID + "|" + id }

func (s *fakeConflictStore) Save(_ context.Context, conflict *entity.SyncConflict) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *conflict
	cp.Inventories = append([]entity.ConflictingInventory(nil), conflict.Inventories...)
	s.conflicts[s.key(conflict.TenantID, conflict.ID)] = &cp
	return nil
}

func (s *fakeConflictStore) Get(_ context.Context, tenantID, conflictID string) (*entity.SyncConflict, error) {
	c, ok := s.conflicts[s.key(tenantID, conflictID)]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Inventories = append([]entity.ConflictingInventory(nil), c.Inventories...)
	return &cp, nil
}

func (s *fakeConflictStore) List(_ context.Context, tenantID string) ([]*entity.SyncConflict, error) {
	var out []*entity.SyncConflict
	for _, c := range s.conflicts {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
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
