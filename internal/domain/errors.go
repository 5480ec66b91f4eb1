package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrWarehouseInactive      = errors.New("bodega inactiva")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientInventory  = errors.New("inventario insuficiente")
	ErrUnsupportedStrategy    = errors.New("estrategia no soportada")
	ErrConcurrentModification = errors.New("modificación concurrente detectada")
	ErrPersistence            = errors.New("fallo de persistencia")
)

// InsufficientInventoryError detalla disponible vs solicitado en un traslado rechazado.
// Compatible con errors.Is(err, ErrInsufficientInventory).
type InsufficientInventoryError struct {
	WarehouseID string
	ProductID   string
	Available   int64
	Requested   int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("inventario insuficiente en bodega %s: disponible %d, solicitado %d",
		e.WarehouseID, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientInventory.
func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}
