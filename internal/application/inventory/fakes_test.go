package inventory_test

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

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de inventario. Replican la semántica
// relevante del adaptador PostgreSQL: CAS sobre LastUpdated, alta con clave
// única y transacciones todo-o-nada.
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse // por ID
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

func (r *fakeWarehouseRepo) ListActiveByTenant(_ context.Context, tenantID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID && w.IsActive {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWarehouseRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.TenantID == tenantID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) Deactivate(_ context.Context, tenantID, id string) error {
	if w, ok := r.warehouses[id]; ok && w.TenantID == tenantID {
		w.IsActive = false
	}
	return nil
}

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

func (r *fakeProductRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func invKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

type fakeInventoryRepo struct {
	records map[string]*entity.WarehouseInventory
	// tenantOf resuelve a qué tenant pertenece cada bodega (para los listados).
	tenantOf map[string]string
	// failCAS fuerza N fallos de CAS consecutivos para probar reintentos.
	failCAS int
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
	if r.failCAS > 0 {
		r.failCAS--
		return domain.ErrConcurrentModification
	}
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

// fakeTxRunner ejecuta la función con los repos fakes y simula rollback:
// si fn falla, el estado vuelve al snapshot previo (todo-o-nada).
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

type fakeCache struct {
	values map[string][]byte
	gets   int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.values[key] = value
	return nil
}

func (c *fakeCache) EvictByPattern(_ context.Context, _ string) error {
	return nil
}
