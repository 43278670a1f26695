package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
)

// InventoryHandler stock, ingresos y ajustes.
type InventoryHandler struct {
	stock       *inventory.StockUseCase
	inbound     *inventory.InboundUseCase
	adjustments *inventory.AdjustmentUseCase
	restock     *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	stock *inventory.StockUseCase,
	inbound *inventory.InboundUseCase,
	adjustments *inventory.AdjustmentUseCase,
	restock *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{stock: stock, inbound: inbound, adjustments: adjustments, restock: restock}
}

// ListStock godoc
// @Summary      Stock de todos los productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockInfo
// @Router       /api/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.stock.ListStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en stock bajo o negativo con las javas sugeridas, priorizados por rotación semanal.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Router       /api/stock/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.restock.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Posición de stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockInfo
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.stock.GetStockPosition(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordInbound godoc
// @Summary      Registrar ingreso de mercadería (lote)
// @Description  Todas las líneas se aplican en una sola transacción y recalculan el costo promedio.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordInboundRequest  true  "Proveedor, camión y líneas"
// @Success      201   {object}  dto.InboundLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inbound [post]
func (h *InventoryHandler) RecordInbound(c *fiber.Ctx) error {
	var in dto.RecordInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.inbound.RecordInbound(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInbound godoc
// @Summary      Listar ingresos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.InboundLotResponse
// @Router       /api/inbound [get]
func (h *InventoryHandler) ListInbound(c *fiber.Ctx) error {
	out, err := h.inbound.ListInbound(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetInbound godoc
// @Summary      Obtener ingreso por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.InboundLotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inbound/{id} [get]
func (h *InventoryHandler) GetInbound(c *fiber.Ctx) error {
	out, err := h.inbound.GetInbound(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordAdjustment godoc
// @Summary      Registrar ajuste de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordAdjustmentRequest  true  "Producto, cantidad con signo y tipo"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.RecordAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.adjustments.RecordAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments godoc
// @Summary      Listar ajustes
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	out, err := h.adjustments.ListAdjustments(c.UserContext(), c.Query("product_id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
