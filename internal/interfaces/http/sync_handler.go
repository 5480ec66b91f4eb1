package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	appsync "github.com/tu-usuario/stock-sync/internal/application/sync"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// SyncHandler maneja las peticiones HTTP del motor de sincronización (protegido).
type SyncHandler struct {
	uc       *appsync.UseCase
	resolver *appsync.ResolverUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *appsync.UseCase, resolver *appsync.ResolverUseCase) *SyncHandler {
	return &SyncHandler{uc: uc, resolver: resolver}
}

// Synchronize godoc
// @Summary      Corrida de sincronización multi-bodega
// @Description  Detecta divergencias de inventario por producto entre las bodegas
//
//	activas del tenant, auto-resuelve las de severidad baja/media y
//	escala el resto a resolución manual.
//
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResult
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Synchronize(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	result, err := h.uc.Synchronize(c.Context(), tenantID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(result)
}

// ListConflicts godoc
// @Summary      Conflictos de sincronización vigentes
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ConflictListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sync/conflicts [get]
func (h *SyncHandler) ListConflicts(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	conflicts, err := h.uc.Conflicts(c.Context(), tenantID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ConflictListResponse{Total: len(conflicts), Conflicts: conflicts})
}

// ResolveConflict godoc
// @Summary      Resolver un conflicto detectado
// @Description  Aplica la estrategia indicada (USE_LATEST_TIMESTAMP o
//
//	MANUAL_OVERRIDE con manual_quantity). Resolver un conflicto ya
//	resuelto es un no-op exitoso.
//
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del conflicto"
// @Param        body  body  dto.ResolveConflictRequest true  "strategy, manual_quantity (MANUAL_OVERRIDE)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sync/conflicts/{id}/resolve [post]
func (h *SyncHandler) ResolveConflict(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	conflictID := c.Params("id")

	var in dto.ResolveConflictRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	resolved, err := h.resolver.Resolve(c.Context(), tenantID, entity.ConflictResolution{
		ConflictID:     conflictID,
		Strategy:       in.Strategy,
		ManualQuantity: in.ManualQuantity,
		ManualUnitCost: in.ManualUnitCost,
		ResolvedBy:     userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"conflict_id": conflictID,
		"resolved":    resolved,
	})
}
