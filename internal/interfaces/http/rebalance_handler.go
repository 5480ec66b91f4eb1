package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/application/rebalance"
)

// RebalanceHandler maneja el análisis y la ejecución de rebalanceo (protegido).
type RebalanceHandler struct {
	uc *rebalance.UseCase
}

// NewRebalanceHandler construye el handler.
func NewRebalanceHandler(uc *rebalance.UseCase) *RebalanceHandler {
	return &RebalanceHandler{uc: uc}
}

// Rebalance godoc
// @Summary      Análisis de rebalanceo entre bodegas
// @Description  Propone traslados para nivelar productos desbalanceados según la
//
//	estrategia indicada. Con execute=true cada propuesta se aprueba y
//	ejecuta vía el gestor de traslados.
//
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RebalanceRequest  false  "strategy (threshold/conservative), execute"
// @Success      200   {object}  dto.RebalanceResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/inventory/rebalance [post]
func (h *RebalanceHandler) Rebalance(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)

	var in dto.RebalanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	result, err := h.uc.Rebalance(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(result)
}
