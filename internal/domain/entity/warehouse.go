package entity

import "time"

// DistributionCenter agrupa bodegas y pertenece a un tenant.
// La navegación es unidireccional: bodega → centro → tenant, vía FKs y queries.
type DistributionCenter struct {
	ID        string
	TenantID  string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Warehouse representa una bodega física donde se almacena inventario.
// TenantID es derivado (join con distribution_centers) y se rellena en lecturas
// para poder validar alcance sin una segunda consulta.
type Warehouse struct {
	ID                   string
	DistributionCenterID string
	TenantID             string
	Name                 string
	Code                 string
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
