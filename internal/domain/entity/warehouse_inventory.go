package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseInventory es el registro mutable de existencias de un producto en una bodega.
// Clave única (WarehouseID, ProductID). QuantityOnHand nunca es negativo.
// LastUpdated actúa como versión para el control de concurrencia optimista:
// toda escritura compara el valor leído antes de aplicar el cambio.
type WarehouseInventory struct {
	ID               string
	WarehouseID      string
	ProductID        string
	QuantityOnHand   int64
	ReservedQuantity int64
	MinimumLevel     int64
	MaximumLevel     int64
	ReorderPoint     int64
	UnitCost         decimal.Decimal
	LastUpdated      time.Time
	LastCountDate    *time.Time
}

// Available devuelve la cantidad disponible (en mano menos reservado).
func (w *WarehouseInventory) Available() int64 {
	return w.QuantityOnHand - w.ReservedQuantity
}

// BelowReorderPoint indica si el registro está en o bajo su punto de reorden.
func (w *WarehouseInventory) BelowReorderPoint() bool {
	return w.ReorderPoint > 0 && w.QuantityOnHand <= w.ReorderPoint
}
