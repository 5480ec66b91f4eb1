package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements (INBOUND/OUTBOUND directos).
type RegisterMovementRequest struct {
	WarehouseID string           `json:"warehouse_id"`
	ProductID   string           `json:"product_id"`
	Type        string           `json:"type"`
	Quantity    int64            `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"` // obligatorio en INBOUND
	Reason      string           `json:"reason,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// MovementResponse entrada del libro en respuestas HTTP.
type MovementResponse struct {
	ID             string          `json:"id"`
	WarehouseID    string          `json:"warehouse_id"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"`
	QuantityBefore int64           `json:"quantity_before"`
	QuantityChange int64           `json:"quantity_change"`
	QuantityAfter  int64           `json:"quantity_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reason         string          `json:"reason,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	PerformedBy    string          `json:"performed_by,omitempty"`
	Synchronized   bool            `json:"synchronized"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
