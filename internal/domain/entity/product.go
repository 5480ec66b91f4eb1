package entity

import "time"

// Product representa un producto o SKU (datos de referencia, inmutables para este servicio).
type Product struct {
	ID        string
	TenantID  string
	SKU       string // código único por tenant
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
