package dto

import "time"

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	DistributionCenterID string `json:"distribution_center_id"`
	Name                 string `json:"name"`
	Code                 string `json:"code"`
}

// WarehouseResponse representación HTTP de una bodega.
type WarehouseResponse struct {
	ID                   string    `json:"id"`
	DistributionCenterID string    `json:"distribution_center_id"`
	Name                 string    `json:"name"`
	Code                 string    `json:"code"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// WarehouseListResponse listado paginado de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
