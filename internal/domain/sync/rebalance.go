package sync

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// RebalancePolicy agrupa las constantes de política del rebalanceador.
// Son configurables por despliegue (ver pkg/config), no hechos derivados.
type RebalancePolicy struct {
	ImbalanceRatio float64         // candidato si (max − min) > ratio × media
	MinTransferQty int64           // no proponer traslados menores a este umbral
	SavingRate     decimal.Decimal // fracción del valor trasladado ahorrada (reorden de emergencia evitado)
}

// DefaultRebalancePolicy valores de política por defecto.
func DefaultRebalancePolicy() RebalancePolicy {
	return RebalancePolicy{
		ImbalanceRatio: 0.5,
		MinTransferQty: 10,
		SavingRate:     decimal.NewFromFloat(0.02),
	}
}

// PlanRebalance analiza el desbalance de un producto entre bodegas y propone un
// traslado de la bodega con más existencias hacia la de menos, o nil si el
// producto no es candidato. Empates se deciden por WarehouseID ascendente.
// Función pura: no toca almacenamiento.
func PlanRebalance(snap ProductSnapshot, policy RebalancePolicy) *entity.RebalanceProposal {
	if len(snap.Inventories) < 2 {
		return nil
	}

	var sum int64
	minInv, maxInv := snap.Inventories[0], snap.Inventories[0]
	for _, inv := range snap.Inventories {
		sum += inv.Quantity
		if inv.Quantity < minInv.Quantity ||
			(inv.Quantity == minInv.Quantity && inv.WarehouseID < minInv.WarehouseID) {
			minInv = inv
		}
		if inv.Quantity > maxInv.Quantity ||
			(inv.Quantity == maxInv.Quantity && inv.WarehouseID < maxInv.WarehouseID) {
			maxInv = inv
		}
	}

	spread := maxInv.Quantity - minInv.Quantity
	mean := float64(sum) / float64(len(snap.Inventories))
	if float64(spread) <= policy.ImbalanceRatio*mean {
		return nil
	}
	if maxInv.Quantity <= minInv.Quantity+policy.MinTransferQty {
		return nil
	}

	qty := spread / 2
	if qty <= 0 {
		return nil
	}
	value := decimal.NewFromInt(qty).Mul(maxInv.UnitCost)
	return &entity.RebalanceProposal{
		ProductID:        snap.ProductID,
		SKU:              snap.SKU,
		FromWarehouseID:  maxInv.WarehouseID,
		ToWarehouseID:    minInv.WarehouseID,
		Quantity:         qty,
		UnitCost:         maxInv.UnitCost,
		TotalValue:       value,
		EstimatedSavings: value.Mul(policy.SavingRate).Round(2),
	}
}
