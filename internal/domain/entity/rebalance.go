package entity

import "github.com/shopspring/decimal"

// RebalanceProposal es un traslado propuesto por el rebalanceador para reducir
// el desbalance de un producto entre bodegas. No se ejecuta hasta ser aprobado.
type RebalanceProposal struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	FromWarehouseID  string          `json:"from_warehouse_id"`
	ToWarehouseID    string          `json:"to_warehouse_id"`
	Quantity         int64           `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
	IsApproved       bool            `json:"is_approved"`
}
