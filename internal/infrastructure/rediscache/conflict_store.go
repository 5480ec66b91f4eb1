package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	appsync "github.com/tu-usuario/stock-sync/internal/application/sync"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// ScanningCache es el contrato que necesita el store: cache básica más
// barrido de claves por patrón para poder listar.
type ScanningCache interface {
	inventory.Cache
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

var _ appsync.ConflictStore = (*ConflictStore)(nil)

// ConflictStore persistencia efímera de conflictos en Redis. Cada conflicto
// vive bajo su propia clave con TTL; perderlo solo obliga a re-detectar.
type ConflictStore struct {
	cache ScanningCache
	ttl   time.Duration
}

func NewConflictStore(cache ScanningCache, ttl time.Duration) *ConflictStore {
	return &ConflictStore{cache: cache, ttl: ttl}
}

func (s *ConflictStore) Save(ctx context.Context, conflict *entity.SyncConflict) error {
	payload, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("marshal conflict: %w", err)
	}
	key := inventory.ConflictKey(conflict.TenantID, conflict.ID)
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		return fmt.Errorf("save conflict: %w", err)
	}
	return nil
}

// Get devuelve el conflicto, o nil si expiró o nunca existió.
func (s *ConflictStore) Get(ctx context.Context, tenantID, conflictID string) (*entity.SyncConflict, error) {
	payload, err := s.cache.Get(ctx, inventory.ConflictKey(tenantID, conflictID))
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	var conflict entity.SyncConflict
	if err := json.Unmarshal(payload, &conflict); err != nil {
		return nil, fmt.Errorf("unmarshal conflict: %w", err)
	}
	return &conflict, nil
}

// List devuelve todos los conflictos vigentes del tenant.
// Entradas corruptas se omiten.
func (s *ConflictStore) List(ctx context.Context, tenantID string) ([]*entity.SyncConflict, error) {
	keys, err := s.cache.ScanKeys(ctx, inventory.ConflictPattern(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	var conflicts []*entity.SyncConflict
	for _, key := range keys {
		payload, err := s.cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			continue // expiró entre el scan y la lectura
		}
		var conflict entity.SyncConflict
		if err := json.Unmarshal(payload, &conflict); err != nil {
			continue
		}
		conflicts = append(conflicts, &conflict)
	}
	return conflicts, nil
}
