package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-sync/internal/application/dto"
	"github.com/tu-usuario/stock-sync/internal/application/inventory"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
)

// InventoryHandler maneja traslados, movimientos directos, existencias y alertas (protegido).
type InventoryHandler struct {
	transfers *inventory.TransferUseCase
	movements *inventory.MovementUseCase
	alerts    *inventory.AlertUseCase
	stock     *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	transfers *inventory.TransferUseCase,
	movements *inventory.MovementUseCase,
	alerts *inventory.AlertUseCase,
	stock *inventory.StockUseCase,
) *InventoryHandler {
	return &InventoryHandler{transfers: transfers, movements: movements, alerts: alerts, stock: stock}
}

// Transfer godoc
// @Summary      Traslado atómico entre bodegas
// @Description  Descuenta en la bodega origen y acredita en la destino dentro de
//
//	una sola transacción, con las dos entradas del libro correlacionadas.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_warehouse_id, to_warehouse_id, product_id, quantity"
// @Success      200   {object}  dto.TransferResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)

	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.transfers.Transfer(c.Context(), tenantID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(result)
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida directa
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "warehouse_id, product_id, type (INBOUND/OUTBOUND), quantity, unit_cost (entradas)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)

	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.movements.Register(c.Context(), tenantID, userID, in); err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Lista por bodega (warehouse_id) o por producto (product_id), con
//
//	rango de fechas opcional (from/to RFC3339) y paginación.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Tamaño de página (máx 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200   {object}  dto.MovementListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")

	var list []*entity.InventoryMovement
	switch {
	case warehouseID != "":
		list, err = h.movements.ListByWarehouse(c.Context(), tenantID, warehouseID, from, to, page.Limit, page.Offset)
	case productID != "":
		list, err = h.movements.ListByProduct(c.Context(), tenantID, productID, from, to, page.Limit, page.Offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id o product_id requerido"})
	}
	if err != nil {
		return writeDomainError(c, err)
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, movementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// LowStockAlerts godoc
// @Summary      Alertas de stock bajo
// @Description  Registros en o bajo su punto de reorden en bodegas activas del tenant (vista cacheada).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) LowStockAlerts(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	alerts, err := h.alerts.LowStockAlerts(c.Context(), tenantID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// ProductStock godoc
// @Summary      Existencias de un producto por bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id} [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	out, err := h.stock.ProductStock(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

func movementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		WarehouseID:    m.WarehouseID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		QuantityBefore: m.QuantityBefore,
		QuantityChange: m.QuantityChange,
		QuantityAfter:  m.QuantityAfter,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		Reason:         m.Reason,
		Reference:      m.Reference,
		PerformedBy:    m.PerformedBy,
		Synchronized:   m.Synchronized,
		CreatedAt:      m.CreatedAt,
	}
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
