package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. Un traslado se registra como par
// OUTBOUND/INBOUND con la misma Reference, nunca como entrada única de tipo
// TRANSFER; el tipo existe en el esquema para datos históricos y se rechaza
// en el registro directo.
const (
	MovementTypeINBOUND  = "INBOUND"  // entrada
	MovementTypeOUTBOUND = "OUTBOUND" // salida
	MovementTypeTRANSFER = "TRANSFER" // reservado: los traslados emiten el par OUTBOUND/INBOUND
)

// Razones estándar de movimiento.
const (
	ReasonConflictResolution = "conflict-resolution"
	ReasonRebalance          = "rebalance"
	ReasonTransfer           = "transfer"
)

// InventoryMovement es una entrada inmutable del libro de movimientos.
// Invariante: QuantityAfter = QuantityBefore + QuantityChange, y para cualquier
// (bodega, producto) el QuantityAfter del último movimiento debe coincidir con
// el QuantityOnHand vigente. Es la fuente de verdad para auditoría y reconciliación.
type InventoryMovement struct {
	ID             string
	WarehouseID    string
	ProductID      string
	Type           string
	QuantityBefore int64
	QuantityChange int64
	QuantityAfter  int64
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	Reason         string
	Reference      string // correlaciona las dos entradas de un traslado
	PerformedBy    string // UserID o "system-sync"
	Synchronized   bool
	CreatedAt      time.Time
}

// Consistent verifica el invariante aritmético de la entrada.
func (m *InventoryMovement) Consistent() bool {
	return m.QuantityAfter == m.QuantityBefore+m.QuantityChange
}
