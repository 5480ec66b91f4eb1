package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseStockItem existencias de un producto en una bodega.
type WarehouseStockItem struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// ProductStockResponse existencias de un producto en las bodegas activas del tenant.
type ProductStockResponse struct {
	ProductID   string               `json:"product_id"`
	SKU         string               `json:"sku"`
	ProductName string               `json:"product_name"`
	Total       int64                `json:"total"`
	Items       []WarehouseStockItem `json:"items"`
}
