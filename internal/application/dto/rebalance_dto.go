package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// RebalanceRequest body para POST /api/inventory/rebalance.
// Execute=true aprueba y ejecuta cada propuesta vía el gestor de traslados.
type RebalanceRequest struct {
	Strategy string `json:"strategy,omitempty"`
	Execute  bool   `json:"execute,omitempty"`
}

// RebalanceResult agregado del análisis de rebalanceo.
type RebalanceResult struct {
	TenantID         string                      `json:"tenant_id"`
	Strategy         string                      `json:"strategy"`
	ProductsAnalyzed int                         `json:"products_analyzed"`
	ProductsFlagged  int                         `json:"products_flagged"`
	Proposals        []*entity.RebalanceProposal `json:"proposals"`
	TotalValue       decimal.Decimal             `json:"total_value"`
	TotalSavings     decimal.Decimal             `json:"total_savings"`
	Executed         int                         `json:"executed"`
	Errors           []string                    `json:"errors,omitempty"`
	DurationMillis   int64                       `json:"duration_ms"`
}
